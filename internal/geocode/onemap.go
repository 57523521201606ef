// Package geocode はシンガポールの郵便番号から地図座標への解決を提供する。
// OneMap（シンガポール政府公式の地図サービス）の検索APIを利用する。
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/commune/fnbwatch/internal/model"
)

// postalCodeLength はシンガポールの郵便番号の桁数。
const postalCodeLength = 6

// Metrics はジオコーディングのメトリクス記録インターフェース。
type Metrics interface {
	RecordGeocodeHit()
	RecordGeocodeMiss()
}

// Client はOneMap APIのジオコーディングクライアント。
//
// 解決できなかった郵便番号は「不在」として結果から除外される。
// ゼロ座標で代用されることはない。失敗はすべてログに記録され、
// 呼び出し元にエラーとして伝播しない。
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    Metrics

	// batchSize と batchDelay は上流のレート制限を尊重するための
	// スロットリングポリシー。バッチ内は並列、バッチ間は直列に遅延を挟む。
	batchSize  int
	batchDelay time.Duration
}

// NewClient はClientの新しいインスタンスを生成する。
// metricsはnilでもよい。batchSizeが0以下の場合は5、
// batchDelayが0以下の場合は200msを使用する。
func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger, metrics Metrics, batchSize int, batchDelay time.Duration) *Client {
	if batchSize <= 0 {
		batchSize = 5
	}
	if batchDelay <= 0 {
		batchDelay = 200 * time.Millisecond
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		metrics:    metrics,
		batchSize:  batchSize,
		batchDelay: batchDelay,
	}
}

// searchResponse はOneMap検索APIのレスポンス。
// 座標は数値文字列フィールドとして返される。
type searchResponse struct {
	Found   int `json:"found"`
	Results []struct {
		Latitude  string `json:"LATITUDE"`
		Longitude string `json:"LONGITUDE"`
	} `json:"results"`
}

// Resolve は郵便番号を座標に解決する。
// トリム後に6文字ちょうどでない入力はネットワークアクセスなしで
// 即座に「不在」を返す。非2xxレスポンス・空の結果・トランスポート
// エラーもすべて「不在」となる。
func (c *Client) Resolve(ctx context.Context, postalCode string) (model.Coordinates, bool) {
	code := strings.TrimSpace(postalCode)
	if len(code) != postalCodeLength {
		return model.Coordinates{}, false
	}

	reqURL := fmt.Sprintf("%s/api/common/elastic/search?searchVal=%s&returnGeom=Y&getAddrDetails=Y",
		c.baseURL, url.QueryEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Warn("ジオコーディングリクエストの作成に失敗しました",
			slog.String("postal_code", code),
			slog.String("error", err.Error()),
		)
		return c.miss()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("ジオコーディングの呼び出しに失敗しました",
			slog.String("postal_code", code),
			slog.String("error", err.Error()),
		)
		return c.miss()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("ジオコーディングAPIが非2xxステータスを返しました",
			slog.String("postal_code", code),
			slog.Int("http_status", resp.StatusCode),
		)
		return c.miss()
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("ジオコーディングレスポンスの解析に失敗しました",
			slog.String("postal_code", code),
			slog.String("error", err.Error()),
		)
		return c.miss()
	}

	if result.Found == 0 || len(result.Results) == 0 {
		return c.miss()
	}

	// 先頭の候補を採用する
	first := result.Results[0]
	lat, errLat := strconv.ParseFloat(first.Latitude, 64)
	lng, errLng := strconv.ParseFloat(first.Longitude, 64)
	if errLat != nil || errLng != nil {
		c.logger.Warn("ジオコーディング座標の数値変換に失敗しました",
			slog.String("postal_code", code),
			slog.String("latitude", first.Latitude),
			slog.String("longitude", first.Longitude),
		)
		return c.miss()
	}

	if c.metrics != nil {
		c.metrics.RecordGeocodeHit()
	}
	return model.Coordinates{Lat: lat, Lng: lng}, true
}

func (c *Client) miss() (model.Coordinates, bool) {
	if c.metrics != nil {
		c.metrics.RecordGeocodeMiss()
	}
	return model.Coordinates{}, false
}

// ResolveBatch は複数の郵便番号を固定サイズのグループに分けて解決する。
// グループ内は並列に処理し、グループ間には固定の遅延を挟む。
// これは上流レート制限を尊重するスロットリングポリシーであり、
// 正しさの要件ではない。解決できなかった郵便番号は結果から除外される。
func (c *Client) ResolveBatch(ctx context.Context, postalCodes []string) map[string]model.Coordinates {
	results := make(map[string]model.Coordinates)
	var mu sync.Mutex

	for i := 0; i < len(postalCodes); i += c.batchSize {
		end := i + c.batchSize
		if end > len(postalCodes) {
			end = len(postalCodes)
		}
		batch := postalCodes[i:end]

		var wg sync.WaitGroup
		for _, code := range batch {
			wg.Add(1)
			go func(pc string) {
				defer wg.Done()
				if coords, ok := c.Resolve(ctx, pc); ok {
					mu.Lock()
					results[pc] = coords
					mu.Unlock()
				}
			}(code)
		}
		wg.Wait()

		c.logger.Debug("ジオコーディングバッチが完了しました",
			slog.Int("resolved", len(results)),
			slog.Int("processed", end),
			slog.Int("total", len(postalCodes)),
		)

		// 最終バッチの後には遅延を挟まない
		if end < len(postalCodes) {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(c.batchDelay):
			}
		}
	}

	return results
}
