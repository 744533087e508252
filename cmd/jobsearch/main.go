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

	"github.com/boiar/job-search-project/internal/config"
	"github.com/boiar/job-search-project/internal/db/elastic"
	dbRedis "github.com/boiar/job-search-project/internal/db/redis"
	logpkg "github.com/boiar/job-search-project/internal/logger"
	"github.com/boiar/job-search-project/internal/metrics"
	"github.com/boiar/job-search-project/internal/repository/analyticscache"
	indexrepo "github.com/boiar/job-search-project/internal/repository/index"
	jobrepo "github.com/boiar/job-search-project/internal/repository/job"
	searchrepo "github.com/boiar/job-search-project/internal/repository/search"
	"github.com/boiar/job-search-project/internal/scheduler"
	chiTransport "github.com/boiar/job-search-project/internal/transport/chi"
	healthuc "github.com/boiar/job-search-project/internal/usecase/health"
	jobuc "github.com/boiar/job-search-project/internal/usecase/job"
	searchuc "github.com/boiar/job-search-project/internal/usecase/search"
	"github.com/boiar/job-search-project/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting job search API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("es_addresses", cfg.Elasticsearch.Addresses),
		zap.String("es_index", cfg.Elasticsearch.Index),
	)

	ctx := context.Background()

	// Search backend
	es, err := elastic.NewClient(elastic.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create Elasticsearch client", zap.Error(err))
	}

	readiness := time.Duration(cfg.Elasticsearch.ReadinessTimeout) * time.Second
	if err := es.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Elasticsearch not ready", zap.Error(err))
	}
	logger.Info("Connected to Elasticsearch")

	// Primary store
	pool, err := jobrepo.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	jobStore := jobrepo.New(pool)
	if err := jobStore.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure jobs schema", zap.Error(err))
	}
	logger.Info("Connected to Postgres")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Index writer owns the mapping; create the index before serving.
	indexWriter := indexrepo.New(es, cfg.Elasticsearch.Index, cfg.Indexer.BulkChunkSize, logger)
	if err := indexWriter.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	// Optional analytics cache
	var (
		cache      searchuc.AnalyticsCache
		cachePing  healthuc.CachePinger
		redisStore *dbRedis.Store
	)
	if len(cfg.Cache.Addrs) > 0 {
		redisStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create analytics cache store", zap.Error(err))
		}
		defer redisStore.Close()

		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		cache = analyticscache.New(redisStore, ttl, metrics.AnalyticsCacheTotal, logger)
		cachePing = redisStore
		logger.Info("Analytics cache enabled", zap.Duration("ttl", ttl))
	}

	// Repositories and use case services
	searchRepo := searchrepo.New(es, cfg.Elasticsearch.Index)
	searchSvc := searchuc.New(searchRepo, cache, metrics.SearchesTotal)
	jobSvc := jobuc.New(jobStore, indexWriter, logger)
	healthSvc := healthuc.New(pool, es, cachePing)

	// Periodic reindex keeps the index consistent with the primary store.
	if cfg.Indexer.ReindexIntervalHours > 0 {
		sched := scheduler.New(jobStore, indexWriter, cfg.Indexer.ReindexIntervalHours, logger)
		if err := sched.Start(ctx); err != nil {
			logger.Fatal("Failed to start reindex scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	// HTTP server
	server := chiTransport.NewServer(searchSvc, jobSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

			// Set X-Request-ID in response header
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
