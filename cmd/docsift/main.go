package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/siftlabs/docsift/internal/config"
	"github.com/siftlabs/docsift/internal/es"
	"github.com/siftlabs/docsift/internal/etl"
	logpkg "github.com/siftlabs/docsift/internal/logger"
	"github.com/siftlabs/docsift/internal/metrics"
	"github.com/siftlabs/docsift/internal/ratelimit"
	indexrepo "github.com/siftlabs/docsift/internal/repository/index"
	searchrepo "github.com/siftlabs/docsift/internal/repository/search"
	userrepo "github.com/siftlabs/docsift/internal/repository/user"
	chiTransport "github.com/siftlabs/docsift/internal/transport/chi"
	authuc "github.com/siftlabs/docsift/internal/usecase/auth"
	healthuc "github.com/siftlabs/docsift/internal/usecase/health"
	ingestuc "github.com/siftlabs/docsift/internal/usecase/ingest"
	searchuc "github.com/siftlabs/docsift/internal/usecase/search"
	"github.com/siftlabs/docsift/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docsift API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("engine_addrs", cfg.Engine.Addresses),
		zap.String("index", cfg.Engine.IndexName),
	)

	engine, err := es.NewClient(es.Config{
		Addresses:      cfg.Engine.Addresses,
		Username:       cfg.Engine.Username,
		Password:       cfg.Engine.Password,
		RequestTimeout: time.Duration(cfg.Engine.RequestTimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create search engine client", zap.Error(err))
	}

	ctx := context.Background()
	if err := engine.Ping(ctx); err != nil {
		logger.Fatal("Search engine not reachable", zap.Error(err))
	}
	logger.Info("Connected to search engine")

	users, err := userrepo.NewStore(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open user store", zap.Error(err))
	}
	defer users.Close()

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	// Create repositories
	indexRepo := indexrepo.New(engine, cfg.Engine.IndexName, logger)
	if err := indexRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure index", zap.Error(err))
	}
	searchRepo := searchrepo.New(engine, cfg.Engine.IndexName)

	// Create use case services
	authSvc := authuc.New(users, cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute, logger)
	ingestSvc := ingestuc.New(etl.New(logger), indexRepo, logger)
	searchSvc := searchuc.New(searchRepo, logger)
	healthSvc := healthuc.New(engine, cfg.Engine.IndexName)

	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowSec)*time.Second)

	server := chiTransport.NewServer(authSvc, ingestSvc, searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.SecurityHeaders())
	r.Use(chiTransport.RateLimitMiddleware(limiter))
	r.Use(chiTransport.BearerAuthMiddleware(authSvc))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
