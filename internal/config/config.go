package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
//
// データソースのURLはすべて任意。未設定のソースは「機能無効」として扱われ、
// 対応するビューは空結果を返す（エラーにはならない）。
type Config struct {
	// Data sources (published CSV exports)
	ClosuresCSVURL string
	OpeningsCSVURL string
	EventsCSVURL   string
	ArticlesCSVURL string

	// RSS stories
	StoriesFeedURL string

	// Geocoding
	OneMapBaseURL     string
	GeocodeBatchSize  int
	GeocodeBatchDelay time.Duration

	// External links (surfaced via /api/meta)
	SubmitFormURL string
	NewsletterURL string

	// Fetch
	FetchTimeout time.Duration
	FetchMaxSize int64

	// Rate Limit
	RateLimitGeneral int

	// Server
	ServerPort string
	StaticDir  string

	// CORS
	CORSAllowedOrigin string
}

// defaultOneMapBaseURL はシンガポール政府OneMap APIのデフォルトエンドポイント。
const defaultOneMapBaseURL = "https://www.onemap.gov.sg"

// Load は環境変数からConfigを読み込む。
// 必須の環境変数は存在しない。データソースURLの欠落は正常な「無効」状態であり、
// その他の値には妥当なデフォルトが適用される。
func Load() *Config {
	cfg := &Config{}

	cfg.ClosuresCSVURL = os.Getenv("CLOSURES_CSV_URL")
	cfg.OpeningsCSVURL = os.Getenv("OPENINGS_CSV_URL")
	cfg.EventsCSVURL = os.Getenv("EVENTS_CSV_URL")
	cfg.ArticlesCSVURL = os.Getenv("ARTICLES_CSV_URL")
	cfg.StoriesFeedURL = os.Getenv("STORIES_FEED_URL")

	cfg.SubmitFormURL = os.Getenv("SUBMIT_FORM_URL")
	cfg.NewsletterURL = os.Getenv("NEWSLETTER_URL")

	cfg.OneMapBaseURL = getEnvString("ONEMAP_BASE_URL", defaultOneMapBaseURL)
	cfg.GeocodeBatchSize = getEnvInt("GEOCODE_BATCH_SIZE", 5)
	cfg.GeocodeBatchDelay = getEnvDuration("GEOCODE_BATCH_DELAY", 200*time.Millisecond)

	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)

	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.StaticDir = getEnvString("STATIC_DIR", "dist")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
