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
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docgate/internal/config"
	"github.com/kailas-cloud/docgate/internal/db"
	dbMemory "github.com/kailas-cloud/docgate/internal/db/memory"
	dbMongo "github.com/kailas-cloud/docgate/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/docgate/internal/db/redis"
	"github.com/kailas-cloud/docgate/internal/domain/catalog"
	logpkg "github.com/kailas-cloud/docgate/internal/logger"
	"github.com/kailas-cloud/docgate/internal/metrics"
	documentrepo "github.com/kailas-cloud/docgate/internal/repository/document"
	chiTransport "github.com/kailas-cloud/docgate/internal/transport/chi"
	documentuc "github.com/kailas-cloud/docgate/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docgate/internal/usecase/health"
	"github.com/kailas-cloud/docgate/internal/usecase/query"
	seeduc "github.com/kailas-cloud/docgate/internal/usecase/seed"
	"github.com/kailas-cloud/docgate/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docgate API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("db_name", cfg.Database.Name),
	)

	ctx := context.Background()
	store := openStore(ctx, cfg, logger)
	defer store.Close()

	// Schemas are fixed at startup.
	registry := catalog.NewRegistry()

	storeMetrics, err := metrics.NewStoreMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("Failed to register store metrics", zap.Error(err))
	}

	docRepo := documentrepo.New(store, registry).
		WithMetrics(storeMetrics).
		WithLimits(cfg.Query.DefaultLimit, cfg.Query.MaxLimit)
	if cfg.DatabaseConfigured() {
		if err := docRepo.EnsureIndexes(ctx); err != nil {
			logger.Warn("Failed to ensure indexes", zap.Error(err))
		}
	}

	docSvc := documentuc.New(docRepo, query.NewBuilder(registry), registry)
	seedSvc := seeduc.New(docRepo)
	healthSvc := healthuc.New(store, healthuc.Environment{
		Configured: cfg.DatabaseConfigured(),
		URLSet:     cfg.Database.URL != "",
		NameSet:    os.Getenv("DATABASE_NAME") != "",
	})

	if len(cfg.Seed.LockAddrs) > 0 {
		locker, err := dbRedis.NewLocker(dbRedis.Config{
			Addrs:    cfg.Seed.LockAddrs,
			Password: cfg.Seed.LockPassword,
		})
		if err != nil {
			logger.Fatal("Failed to create seed lock client", zap.Error(err))
		}
		defer locker.Close()
		seedSvc.WithLocker(locker, time.Duration(cfg.Seed.LockTTLSec)*time.Second)
		healthSvc.WithLock(locker)
		logger.Info("Seed lock enabled", zap.Strings("addrs", cfg.Seed.LockAddrs))
	}

	server := chiTransport.NewServer(docSvc, seedSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(corsHandler(cfg.CORS))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.CodeBadRequest,
				Message: err.Error(),
			})
		},
	})

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

// openStore builds the configured backend. A missing or unreachable database
// is not fatal: the gateway serves diagnostics and reports storage errors.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) db.Store {
	switch {
	case cfg.Database.Driver == config.DriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return dbMemory.NewStore(cfg.Database.Name)
	case cfg.Database.URL == "":
		logger.Warn("DATABASE_URL not set, starting without a database")
		return db.NewUnavailable("database url not configured")
	}

	store, err := dbMongo.NewStore(ctx, dbMongo.Config{
		URI:            cfg.Database.URL,
		Database:       cfg.Database.Name,
		ConnectTimeout: time.Duration(cfg.Database.ConnectTimeout) * time.Second,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
	})
	if err != nil {
		logger.Error("Failed to create database store", zap.Error(err))
		return db.NewUnavailable(err.Error())
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Database not ready, continuing", zap.Error(err))
		return store
	}
	logger.Info("Connected to database", zap.String("database", store.Name()))
	return store
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func corsHandler(cfg config.CORSConfig) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: cfg.CredentialsAllowed(),
		MaxAge:           300,
	})
}

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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
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

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
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
