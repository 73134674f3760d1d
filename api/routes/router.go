package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartinv/inventory-backend/api/controllers"
	"github.com/smartinv/inventory-backend/api/middleware"
	aisvc "github.com/smartinv/inventory-backend/internal/ai"
	authsvc "github.com/smartinv/inventory-backend/internal/auth"
	"github.com/smartinv/inventory-backend/internal/catalog"
	"github.com/smartinv/inventory-backend/internal/ledger"
	"github.com/smartinv/inventory-backend/pkg/config"
	"github.com/smartinv/inventory-backend/pkg/db"
	"github.com/smartinv/inventory-backend/pkg/enums"
	"github.com/smartinv/inventory-backend/pkg/logger"
	"github.com/smartinv/inventory-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	authService authsvc.Service,
	catalogService catalog.Service,
	ledgerService ledger.Service,
	aiService aisvc.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	var cachePinger redis.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(dbP, cachePinger, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	loginLimiter := middleware.AuthRateLimit(loginPolicy, nil, logg)
	if redisClient != nil {
		loginLimiter = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", controllers.AuthLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Put("/profile", controllers.UpdateProfile(authService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleSuperAdmin))
				r.Post("/register", controllers.AuthRegister(authService, logg))
				r.Get("/users", controllers.ListUsers(authService, logg))
				r.Delete("/users/{id}", controllers.DeleteUser(authService, logg))
			})
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleSuperAdmin))
				r.Post("/", controllers.CreateProduct(catalogService, logg))
				r.Put("/{id}", controllers.UpdateProduct(catalogService, logg))
			})

			r.With(middleware.RequireRole(logg, enums.UserRoleSuperAdmin)).Delete("/{id}", controllers.DeleteProduct(catalogService, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.ListTransactions(ledgerService, logg))
			r.Post("/adjust", controllers.AdjustStock(ledgerService, logg))
		})

		r.Post("/ai/insights", controllers.GenerateInsights(aiService, logg))
	})

	return r
}
