package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bizdirectory/internal/config"
	"bizdirectory/internal/database"
	"bizdirectory/internal/logger"
	"bizdirectory/internal/metrics"
	custommiddleware "bizdirectory/internal/middleware"
	"bizdirectory/internal/repository"
	"bizdirectory/internal/service"
	"bizdirectory/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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

// Deps are the backends the server talks to
type Deps struct {
	DB       database.Service
	Storage  service.ObjectStorage
	Redis    *redis.Client
	Registry *prometheus.Registry
}

func NewServer(cfg *config.Config, log *zap.Logger, deps Deps) *Server {
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	m := metrics.New(registry)

	router := chi.NewRouter()
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger.Component(log, "http")))
	router.Use(custommiddleware.ErrorHandlingMiddleware(log))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	s := &Server{
		config: cfg,
		logger: log,
		db:     deps.DB,
		redis:  deps.Redis,
	}

	router.Get("/health", s.health)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	businessRepo := repository.NewBusinessRepository(deps.DB.DB())

	listingHandler := transport.NewListingHandler(deps.Storage, businessRepo, service.UploadTargets{
		LogoBucket:    cfg.Storage.LogoBucket,
		ProductBucket: cfg.Storage.ProductBucket,
		CacheControl:  cfg.Storage.CacheControl,
	}, logger.Component(log, "listing"), m)
	galleryHandler := transport.NewGalleryHandler(businessRepo, logger.Component(log, "gallery"), m)

	authMiddleware := custommiddleware.OptionalAuth(cfg.JWT.Secret, log)
	rateLimit := func(next http.Handler) http.Handler { return next }
	if deps.Redis != nil {
		rateLimit = custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.SubmissionsPerWindow,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "listing_submissions",
		}, log)
	}

	listingHandler.RegisterRoutes(router, authMiddleware, rateLimit)
	galleryHandler.RegisterRoutes(router)

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

// health reports database and redis status; 503 when the database is down
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	stats := s.db.Health()

	if s.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			stats["redis"] = "down"
		} else {
			stats["redis"] = "up"
		}
	}

	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	custommiddleware.RespondWithJSON(w, status, stats)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
