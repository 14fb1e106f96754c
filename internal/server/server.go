package server

import (
	"fmt"
	"net/http"
	"time"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/config"
	"admin-dashboard/internal/database"
	custommiddleware "admin-dashboard/internal/middleware"
	"admin-dashboard/internal/repository"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers onto one router.
// redisClient may be nil, in which case the auth routes are not rate
// limited.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack(logger) {
		router.Use(mw)
	}
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))

	router.Get(api.PathHealth, healthHandler(db))

	// Repositories
	userRepo := repository.NewUserRepository(db.DB())
	refreshTokenRepo := repository.NewRefreshTokenRepository(db.DB())
	productRepo := repository.NewProductRepository(db.DB())
	categoryRepo := repository.NewCategoryRepository(db.DB())

	// Services
	userService := service.NewUserService(userRepo, refreshTokenRepo, service.TokenSettings{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  time.Duration(cfg.JWT.AccessExpiry) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshExpiry) * 24 * time.Hour,
	})
	productService := service.NewProductService(productRepo)
	categoryService := service.NewCategoryService(categoryRepo)

	// Public session routes
	var authGuards []func(http.Handler) http.Handler
	if redisClient != nil {
		authGuards = append(authGuards, custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit:auth",
		}, logger))
	}
	transport.NewAuthHandler(userService, logger).RegisterRoutes(router, authGuards...)

	// Management routes
	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.AuthMiddleware(userService, logger))
		r.Use(custommiddleware.RequireRole(cfg.Server.ManagerRoles, logger))

		transport.NewUserHandler(userService, logger).RegisterRoutes(r)
		transport.NewProductHandler(productService, logger).RegisterRoutes(r)
		transport.NewCategoryHandler(categoryService, logger).RegisterRoutes(r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

// healthHandler reports 200 while the database answers and 503 otherwise
func healthHandler(db database.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbHealth := db.Health(r.Context())

		status, code := "ok", http.StatusOK
		if dbHealth["status"] != "up" {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		custommiddleware.RespondWithJSON(w, code, map[string]interface{}{
			"status":   status,
			"database": dbHealth,
		})
	}
}

// Close releases the database pool and the redis client
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database connection", zap.Error(err))
		return err
	}

	return nil
}
