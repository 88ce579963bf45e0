package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"city-announcements/internal/config"
	pgRepo "city-announcements/internal/infra/adapter/persistence/postgres"
	"city-announcements/internal/infra/db"
	"city-announcements/internal/infra/notifier"
	"city-announcements/internal/observability/logging"
	"city-announcements/internal/observability/metrics"
	"city-announcements/internal/observability/tracing"
	"city-announcements/internal/repository"

	annUC "city-announcements/internal/usecase/announcement"
	catUC "city-announcements/internal/usecase/category"

	hhttp "city-announcements/internal/handler/http"
	hann "city-announcements/internal/handler/http/announcement"
	hcat "city-announcements/internal/handler/http/category"
	"city-announcements/internal/handler/http/requestid"
	"city-announcements/internal/handler/ws"

	_ "city-announcements/docs" // swagger docs
)

// @title           City Announcements API
// @version         1.0
// @description     市のお知らせポータルの REST API
// @description     お知らせとカテゴリの管理、WebSocket による新着配信を提供します。

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg := loadConfig(logger)
	database := initDatabase(logger, cfg.DatabaseURL)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	// WEBHOOK_URL が設定されていれば外部通知も行う
	var created annUC.Notifier = hub
	if webhookCfg := notifier.LoadWebhookConfigFromEnv(logger); webhookCfg.Enabled() {
		logger.Info("webhook notifier enabled", slog.String("url", webhookCfg.URL))
		created = notifier.Multi{hub, notifier.NewWebhook(webhookCfg, logger)}
	}

	annRepo := pgRepo.NewAnnouncementRepo(database)
	catRepo := pgRepo.NewCategoryRepo(database)
	annSvc := &annUC.Service{Repo: annRepo, Categories: catRepo, Notifier: created}
	catSvc := &catUC.Service{Repo: catRepo}

	gaugeCron := startGaugeRefresh(ctx, logger, cfg.GaugeRefreshSpec, database, annRepo, catRepo)
	defer gaugeCron.Stop()

	handler := setupHandler(logger, cfg, database, hub, annSvc, catSvc)
	runServer(ctx, logger, cfg, handler)
}

// loadConfig loads the server configuration. CONFIG_PATH overrides the
// default file location.
func loadConfig(logger *slog.Logger) config.ServerConfig {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "configs/server.yaml"
	}
	cfg, err := config.LoadServerConfig(path)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// initDatabase opens the database connection and runs migrations and seeds.
func initDatabase(logger *slog.Logger, dsn string) *sql.DB {
	database := db.Open(dsn)
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// startGaugeRefresh periodically refreshes the announcement/category count
// gauges and the connection pool stats exported to Prometheus.
func startGaugeRefresh(
	ctx context.Context,
	logger *slog.Logger,
	spec string,
	database *sql.DB,
	annRepo repository.AnnouncementRepository,
	catRepo repository.CategoryRepository,
) *cron.Cron {
	refresh := func() {
		refreshCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if n, err := annRepo.Count(refreshCtx); err != nil {
			logger.Warn("failed to count announcements", slog.Any("error", err))
		} else {
			metrics.UpdateAnnouncementsTotal(int(n))
		}
		if n, err := catRepo.Count(refreshCtx); err != nil {
			logger.Warn("failed to count categories", slog.Any("error", err))
		} else {
			metrics.UpdateCategoriesTotal(int(n))
		}

		stats := database.Stats()
		metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, refresh); err != nil {
		logger.Error("invalid gauge refresh spec",
			slog.String("spec", spec), slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// 起動直後にも一度反映する
	go refresh()
	return c
}

// setupHandler registers all routes and wraps them in the middleware chain.
// The WebSocket endpoint bypasses the timeout and body-limit middleware:
// both would break long-lived hijacked connections.
func setupHandler(
	logger *slog.Logger,
	cfg config.ServerConfig,
	database *sql.DB,
	hub *ws.Hub,
	annSvc *annUC.Service,
	catSvc *catUC.Service,
) http.Handler {
	apiMux := http.NewServeMux()

	hann.Register(apiMux, annSvc, logger)
	hcat.Register(apiMux, catSvc)

	// ヘルスチェックエンドポイント
	apiMux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Hub: hub, Version: cfg.Version})
	apiMux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	apiMux.Handle("GET /live", &hhttp.LiveHandler{})
	apiMux.Handle("GET /metrics", hhttp.MetricsHandler())

	// Swagger UI
	apiMux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply in reverse order (innermost to outermost)
	var api http.Handler = apiMux
	api = hhttp.MetricsMiddleware(api)
	api = hhttp.Timeout(cfg.RequestTimeout)(api)
	api = hhttp.LimitRequestBody(cfg.MaxBodyBytes)(api)
	api = hhttp.InputValidation()(api)
	api = hhttp.CORS(cfg.AllowedOrigins)(api)

	wsMux := http.NewServeMux()
	ws.Register(wsMux, hub, logger, cfg.AllowedOrigins)

	root := http.NewServeMux()
	root.Handle("GET /ws", wsMux)
	root.Handle("/", api)

	var handler http.Handler = root
	handler = hhttp.Logging(logger)(handler)
	handler = hhttp.Recover(logger)(handler)
	handler = tracing.Middleware(handler)
	handler = requestid.Middleware(handler)
	return handler
}

// runServer starts the HTTP server and blocks until shutdown completes.
func runServer(ctx context.Context, logger *slog.Logger, cfg config.ServerConfig, handler http.Handler) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Slowloris 対策
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", slog.Any("error", err))
		}
	}
	logger.Info("server stopped")
}
