package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/dailydiet/internal/metrics"
	"github.com/hitoshi/dailydiet/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Authenticator     *middleware.Authenticator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRF              *middleware.CSRFConfig // nilの場合はCSRF検証を行わない
	Logger            *slog.Logger

	// 運用
	HealthChecker  HealthChecker
	Metrics        metrics.MetricsCollector
	MetricsHandler http.Handler // nilの場合は/metricsを公開しない

	// ユーザー
	UserService     UserServiceInterface
	SessionLister   SessionUserLister
	OverviewService OverviewServiceInterface
	Cookie          middleware.CookieConfig

	// 食事
	MealService MealServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → Metrics → Logging → SecurityHeaders → CORS → RateLimit(General) → CSRF(任意)
//
// /health と /metrics はレート制限の外に配置する。
// 認証が必要なルートはAuthenticatorが解決済みユーザーをハンドラーへ引数で渡す。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	collector := deps.Metrics
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimw.RequestID)
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	userHandler := NewUserHandler(deps.UserService, deps.SessionLister, deps.OverviewService, deps.Cookie, collector)
	mealHandler := NewMealHandler(deps.MealService, collector)
	auth := deps.Authenticator

	// --- 運用エンドポイント ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}
		if deps.CSRF != nil {
			r.Use(middleware.NewCSRFMiddleware(*deps.CSRF))
			r.Get("/csrf-token", middleware.NewCSRFTokenHandler(*deps.CSRF).ServeHTTP)
		}

		// ユーザー管理
		r.Route("/users", func(r chi.Router) {
			// POST /users - ユーザー登録（登録専用レート制限を追加）
			if deps.RateLimiter != nil {
				r.With(deps.RateLimiter.RegistrationMiddleware()).Post("/", userHandler.Register)
			} else {
				r.Post("/", userHandler.Register)
			}
			r.Get("/", auth.RequireToken(userHandler.ListUsers))
			r.Get("/overview", auth.Require(userHandler.Overview))
		})

		// 食事記録
		r.Route("/meals", func(r chi.Router) {
			r.Get("/", auth.Require(mealHandler.ListMeals))
			r.Post("/", auth.Require(mealHandler.CreateMeal))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", auth.Require(mealHandler.GetMeal))
				r.Put("/", auth.Require(mealHandler.UpdateMeal))
				r.Delete("/", auth.Require(mealHandler.DeleteMeal))
			})
		})
	})

	return r
}
