package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/dailydiet/internal/config"
	"github.com/hitoshi/dailydiet/internal/database"
	"github.com/hitoshi/dailydiet/internal/handler"
	"github.com/hitoshi/dailydiet/internal/logger"
	"github.com/hitoshi/dailydiet/internal/meal"
	"github.com/hitoshi/dailydiet/internal/metrics"
	"github.com/hitoshi/dailydiet/internal/middleware"
	"github.com/hitoshi/dailydiet/internal/overview"
	"github.com/hitoshi/dailydiet/internal/repository"
	"github.com/hitoshi/dailydiet/internal/security"
	"github.com/hitoshi/dailydiet/internal/session"
	"github.com/hitoshi/dailydiet/internal/user"
)

// dbConnectAttempts は起動時のDB接続試行回数。
const dbConnectAttempts = 5

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、設定に従って構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定値でロガーを再構成する
	logger.Configure(w, cfg.LogFormat, cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	inv, err := ParseCommand(args)
	if err != nil {
		return err
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if inv.Command == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(inv.Command)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	if inv.Command == CommandMigrate {
		return runMigrate(cfg, inv.Migrate)
	}
	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	driver, err := database.DriverFor(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	// SQLiteはサーバー単体で完結させるため、起動時にマイグレーションを適用する
	if driver == database.DriverSQLite {
		if err := runMigrate(cfg, MigrateUp); err != nil {
			return err
		}
	}

	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := database.WaitForReady(context.Background(), db, dbConnectAttempts); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established", slog.String("driver", driver))

	// 2. 依存関係のワイヤリング
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, shutdown, err := newServerHandler(cfg, db, driver, reg)
	if err != nil {
		return err
	}
	defer shutdown()

	// 3. HTTPサーバーの起動
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

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// newServerHandler はリポジトリからルーターまでを組み立てる。
// 戻り値のshutdownはレート制限のバックグラウンド処理を停止する。
func newServerHandler(cfg *config.Config, db *sql.DB, driver string, reg *prometheus.Registry) (http.Handler, func(), error) {
	// 1. リポジトリの初期化
	repos, err := repository.New(db, driver)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// 2. メトリクス
	collector := metrics.NewCollector(reg)

	// 3. ドメインサービスの初期化
	resolver := session.NewResolver(repos.Users)
	userService := user.NewService(repos.Users)
	mealService := meal.NewService(repos.Meals, security.NewTextSanitizer())
	overviewService := overview.NewAggregator(repos.Meals)

	// 4. ミドルウェア依存
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitRegister),
		collector,
	)

	var csrf *middleware.CSRFConfig
	if cfg.CSRFEnabled {
		csrf = &middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		}
	}

	// 5. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		Authenticator:     middleware.NewAuthenticator(resolver),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		CSRF:              csrf,
		Logger:            slog.Default(),

		HealthChecker:  db,
		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),

		UserService:     userService,
		SessionLister:   resolver,
		OverviewService: overviewService,
		Cookie: middleware.CookieConfig{
			MaxAge: cfg.SessionMaxAge,
			Secure: cfg.CookieSecure,
			Domain: cfg.CookieDomain,
		},

		MealService: mealService,
	})

	return router, rateLimiter.Stop, nil
}

// runMigrate はマイグレーション操作を実行する。
//   - up: 未適用のマイグレーションをすべて適用する
//   - down: 最後のマイグレーションを1つ戻す
//   - version: 現在のスキーマバージョンをログに出力する
func runMigrate(cfg *config.Config, action MigrateAction) error {
	slog.Info("running database migrations",
		slog.String("action", string(action)),
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	switch action {
	case MigrateDown:
		if err := database.RollbackMigration(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration rollback failed: %w", err)
		}
	case MigrateVersion:
	default:
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	sv, err := database.CurrentSchemaVersion(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	slog.Info("database migrations completed successfully",
		slog.Uint64("version", uint64(sv.Version)),
		slog.Bool("applied", sv.Applied),
		slog.Bool("dirty", sv.Dirty),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	endpoint := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
