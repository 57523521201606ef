package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/commune/fnbwatch/internal/metrics"
	"github.com/commune/fnbwatch/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// データセット
	Closures ClosureLister
	Openings OpeningLister

	// イベント・記事・ストーリー
	Events   EventLister
	Articles ArticleLister
	Stories  StoryFetcher

	// 地図
	Geocoder Geocoder

	// メタ情報
	Meta MetaConfig

	// メトリクス公開
	Gatherer prometheus.Gatherer

	// 静的アセット
	StaticDir string
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Recovery → RateLimit(APIのみ)
//
// ヘルスチェックとメトリクスはログ・レート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	datasetHandler := NewDatasetHandler(deps.Closures, deps.Openings)
	eventHandler := NewEventHandler(deps.Events)
	articleHandler := NewArticleHandler(deps.Articles)
	storyHandler := NewStoryHandler(deps.Stories)
	mapHandler := NewMapHandler(deps.Closures, deps.Openings, deps.Geocoder)
	metaHandler := NewMetaHandler(deps.Meta)

	// --- 運用ルート（ミドルウェアチェーンの外） ---

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// --- APIルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
		r.Use(middleware.NewSecurityHeadersMiddleware())
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
		r.Use(middleware.NewRecoveryMiddleware())
		r.Use(deps.RateLimiter.Middleware())

		r.Route("/api/closures", func(r chi.Router) {
			r.Get("/", datasetHandler.ListClosures)
			r.Get("/recent", datasetHandler.RecentClosures)
			r.Get("/stats", datasetHandler.ClosureStats)
		})

		r.Route("/api/openings", func(r chi.Router) {
			r.Get("/", datasetHandler.ListOpenings)
			r.Get("/recent", datasetHandler.RecentOpenings)
			r.Get("/stats", datasetHandler.OpeningStats)
		})

		r.Get("/api/events", eventHandler.ListUpcoming)
		r.Get("/api/articles", articleHandler.List)
		r.Get("/api/stories", storyHandler.List)
		r.Get("/api/map", mapHandler.Markers)
		r.Get("/api/meta", metaHandler.Get)
	})

	// --- 静的アセット（SPA） ---

	if deps.StaticDir != "" {
		static := NewStaticHandler(deps.StaticDir)
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewSecurityHeadersMiddleware())
			r.Handle("/*", static)
		})
	}

	return r
}
