// Package app はアプリケーションの起動とライフサイクルを管理する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/commune/fnbwatch/internal/config"
	"github.com/commune/fnbwatch/internal/geocode"
	"github.com/commune/fnbwatch/internal/handler"
	"github.com/commune/fnbwatch/internal/logger"
	"github.com/commune/fnbwatch/internal/metrics"
	"github.com/commune/fnbwatch/internal/middleware"
	"github.com/commune/fnbwatch/internal/security"
	"github.com/commune/fnbwatch/internal/sheet"
	"github.com/commune/fnbwatch/internal/stories"
	"github.com/commune/fnbwatch/internal/tracker"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) *config.Config {
	// 設定読み込み前にログを使えるようにする
	logger.SetupDefault(w)

	return config.Load()
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg := Init(w)

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 2. セキュリティサービスの初期化
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewExcerptSanitizer()

	// 3. データソースの初期化
	// 各ハンドラーはリクエストごとに取得する（サーバー側キャッシュなし）。
	// 未設定のソースURLは機能無効を意味し、空集合として扱われる。
	sheetClient := sheet.NewClient(ssrfGuard, slog.Default(), collector, cfg.FetchTimeout, cfg.FetchMaxSize)

	closureSource := tracker.NewClosureSource(sheetClient, cfg.ClosuresCSVURL, sheet.DefaultBusinessSchema(), collector)
	openingSource := tracker.NewOpeningSource(sheetClient, cfg.OpeningsCSVURL, sheet.DefaultBusinessSchema(), collector)
	eventSource := tracker.NewEventSource(sheetClient, cfg.EventsCSVURL, sheet.DefaultEventSchema(), collector)
	articleSource := tracker.NewArticleSource(sheetClient, cfg.ArticlesCSVURL, sheet.DefaultArticleSchema(), collector)

	registryDatasets := tracker.NewRegistry(closureSource, openingSource)

	// 4. ジオコーダーの初期化
	geocoder := geocode.NewClient(
		ssrfGuard.NewSafeClient(cfg.FetchTimeout, cfg.FetchMaxSize),
		cfg.OneMapBaseURL,
		slog.Default(),
		collector,
		cfg.GeocodeBatchSize,
		cfg.GeocodeBatchDelay,
	)

	// 5. ストーリーサービスの初期化
	storyService := stories.NewService(ssrfGuard, sanitizer, cfg.StoriesFeedURL, slog.Default(), cfg.FetchTimeout, cfg.FetchMaxSize)

	// 6. レート制限の初期化（RATE_LIMIT_GENERALはreq/min単位）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	}
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,

		Closures: registryDatasets.Closures(),
		Openings: registryDatasets.Openings(),

		Events:   eventSource,
		Articles: articleSource,
		Stories:  storyService,

		Geocoder: geocoder,

		Meta: handler.MetaConfig{
			SubmitFormURL: cfg.SubmitFormURL,
			NewsletterURL: cfg.NewsletterURL,
			ClosuresOn:    cfg.ClosuresCSVURL != "",
			OpeningsOn:    cfg.OpeningsCSVURL != "",
			EventsOn:      cfg.EventsCSVURL != "",
			ArticlesOn:    cfg.ArticlesCSVURL != "",
			StoriesOn:     cfg.StoriesFeedURL != "",
		},

		Gatherer: registry,

		StaticDir: cfg.StaticDir,
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
