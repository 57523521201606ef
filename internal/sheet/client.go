package sheet

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// SafeClientFactory はSSRF防止付きHTTPクライアントの生成インターフェース。
// security.SSRFGuardServiceを抽象化してテスタビリティを向上させる。
type SafeClientFactory interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// FetchMetrics はシート取得のメトリクス記録インターフェース。
type FetchMetrics interface {
	RecordSheetFetchSuccess(source string)
	RecordSheetFetchFailure(source string)
	RecordSheetRows(source string, parsed, dropped int)
	RecordFetchLatency(duration time.Duration)
}

// Client は公開CSVエンドポイントからのデータ取得を行う。
//
// すべての失敗はフェイルオープンで空結果に縮退する。設定URLの欠落、
// ネットワークエラー、非2xxステータスのいずれも呼び出し元にエラーとして
// 伝播せず、ログとメトリクスにのみ記録される。
type Client struct {
	guard       SafeClientFactory
	logger      *slog.Logger
	metrics     FetchMetrics
	timeout     time.Duration
	maxBodySize int64
}

// NewClient はClientの新しいインスタンスを生成する。
// metricsはnilでもよい（記録をスキップする）。
func NewClient(guard SafeClientFactory, logger *slog.Logger, metrics FetchMetrics, timeout time.Duration, maxBodySize int64) *Client {
	return &Client{
		guard:       guard,
		logger:      logger,
		metrics:     metrics,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// FetchRows はCSVエンドポイントを取得し、ヘッダーと空行を除いた
// データ行をパース済みフィールド列として返す。
//
// sourceURLが空の場合はネットワークアクセスなしで即座にnilを返す。
// これは「機能無効」の正常な状態であり、エラーではない。
func (c *Client) FetchRows(ctx context.Context, source, sourceURL string) [][]string {
	if sourceURL == "" {
		c.logger.Debug("CSVソースが未設定のためスキップします",
			slog.String("source", source),
		)
		return nil
	}

	start := time.Now()

	if err := c.guard.ValidateURL(sourceURL); err != nil {
		c.logger.Warn("CSVソースURLの検証に失敗しました",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
		c.recordFailure(source)
		return nil
	}

	client := c.guard.NewSafeClient(c.timeout, c.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		c.logger.Warn("CSVリクエストの作成に失敗しました",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
		c.recordFailure(source)
		return nil
	}
	req.Header.Set("User-Agent", "fnbwatch/1.0")
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := client.Do(req)
	if err != nil {
		c.logger.Warn("CSVの取得に失敗しました",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
		c.recordFailure(source)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("CSVソースが非2xxステータスを返しました",
			slog.String("source", source),
			slog.Int("http_status", resp.StatusCode),
		)
		c.recordFailure(source)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		c.logger.Warn("CSVレスポンスの読み取りに失敗しました",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
		c.recordFailure(source)
		return nil
	}

	rows := make([][]string, 0)
	for _, line := range SplitRows(string(body)) {
		rows = append(rows, ParseLine(line))
	}

	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.RecordSheetFetchSuccess(source)
		c.metrics.RecordFetchLatency(duration)
	}

	c.logger.Info("CSVの取得が完了しました",
		slog.String("source", source),
		slog.Int("row_count", len(rows)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return rows
}

func (c *Client) recordFailure(source string) {
	if c.metrics != nil {
		c.metrics.RecordSheetFetchFailure(source)
	}
}
