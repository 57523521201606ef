// Package stories はRSSフィードからの編集ストーリー取得を提供する。
// フィードの記事をタイトル接頭辞でシリーズに分類し、
// カルーセル表示用のストーリー集合を導出する。
package stories

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/commune/fnbwatch/internal/model"
)

// maxPerSeries はシリーズごとに保持するストーリーの最大件数。
const maxPerSeries = 6

// seriesRule はタイトル接頭辞とシリーズの対応を表す。
// 上流フィードの命名規則に依存する脆い分類であり、規則が変われば
// 一致ゼロに縮退する（セクション非表示、フェイルオープン）。
type seriesRule struct {
	match  string // 大文字小文字を区別しない部分一致
	strip  *regexp.Regexp
	series model.Series
}

var seriesRules = []seriesRule{
	{"burnt end", regexp.MustCompile(`(?i)^burnt ends?:\s*`), model.SeriesBurntEnd},
	{"good bites", regexp.MustCompile(`(?i)^good bites:\s*`), model.SeriesGoodBites},
	{"off menu", regexp.MustCompile(`(?i)^off menu:\s*`), model.SeriesOffMenu},
}

// matchRegexps は分類判定用にmatch文字列をコンパイルしたもの。
var matchRegexps = func() []*regexp.Regexp {
	rs := make([]*regexp.Regexp, len(seriesRules))
	for i, rule := range seriesRules {
		rs[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(rule.match))
	}
	return rs
}()

// SafeClientFactory はSSRF防止付きHTTPクライアントの生成インターフェース。
type SafeClientFactory interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// Sanitizer は抜粋HTMLのサニタイズインターフェース。
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// Service はRSSフィードからストーリー集合を取得する。
// すべての失敗はフェイルオープンで空集合に縮退する。
type Service struct {
	guard       SafeClientFactory
	sanitizer   Sanitizer
	feedURL     string
	logger      *slog.Logger
	timeout     time.Duration
	maxBodySize int64
}

// NewService はServiceの新しいインスタンスを生成する。
// feedURLが空の場合、Fetchはネットワークアクセスなしで空集合を返す。
func NewService(guard SafeClientFactory, sanitizer Sanitizer, feedURL string, logger *slog.Logger, timeout time.Duration, maxBodySize int64) *Service {
	return &Service{
		guard:       guard,
		sanitizer:   sanitizer,
		feedURL:     feedURL,
		logger:      logger,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// Fetch はフィードを取得し、シリーズごとのストーリー集合を返す。
// 分類されない記事は無視される。各シリーズは最大6件。
func (s *Service) Fetch(ctx context.Context) map[model.Series][]model.Story {
	stories := map[model.Series][]model.Story{}

	if s.feedURL == "" {
		s.logger.Debug("ストーリーフィードが未設定のためスキップします")
		return stories
	}

	if err := s.guard.ValidateURL(s.feedURL); err != nil {
		s.logger.Warn("フィードURLの検証に失敗しました",
			slog.String("feed_url", s.feedURL),
			slog.String("error", err.Error()),
		)
		return stories
	}

	client := s.guard.NewSafeClient(s.timeout, s.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		s.logger.Warn("フィードリクエストの作成に失敗しました",
			slog.String("error", err.Error()),
		)
		return stories
	}
	req.Header.Set("User-Agent", "fnbwatch/1.0")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		s.logger.Warn("フィードの取得に失敗しました",
			slog.String("feed_url", s.feedURL),
			slog.String("error", err.Error()),
		)
		return stories
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn("フィードが非2xxステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return stories
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		s.logger.Warn("フィードレスポンスの読み取りに失敗しました",
			slog.String("error", err.Error()),
		)
		return stories
	}

	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(body))
	if err != nil {
		s.logger.Warn("フィードのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return stories
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}

		rule, ok := classify(item.Title)
		if !ok {
			continue
		}
		if len(stories[rule.series]) >= maxPerSeries {
			continue
		}

		stories[rule.series] = append(stories[rule.series], s.buildStory(item, rule))
	}

	total := 0
	for _, list := range stories {
		total += len(list)
	}
	s.logger.Info("ストーリーの取得が完了しました",
		slog.Int("feed_items", len(feed.Items)),
		slog.Int("stories", total),
	)

	return stories
}

// classify はタイトルからシリーズ規則を判定する。
func classify(title string) (seriesRule, bool) {
	for i, rule := range seriesRules {
		if matchRegexps[i].MatchString(title) {
			return rule, true
		}
	}
	return seriesRule{}, false
}

// buildStory はフィード記事からStoryを組み立てる。
func (s *Service) buildStory(item *gofeed.Item, rule seriesRule) model.Story {
	id := item.GUID
	if id == "" {
		id = uuid.New().String()
	}

	published := ""
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.Format("2006-01-02")
	}

	return model.Story{
		ID:          id,
		Title:       rule.strip.ReplaceAllString(item.Title, ""),
		Excerpt:     s.sanitizer.Sanitize(item.Description),
		URL:         item.Link,
		ImageURL:    extractImage(item),
		PublishedAt: published,
		Series:      rule.series,
	}
}

// extractImage は記事の画像URLを解決する。
// enclosureを優先し、なければ本文HTMLから最初の<img>のsrcを探す。
func extractImage(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	return firstImageSrc(item.Content)
}
