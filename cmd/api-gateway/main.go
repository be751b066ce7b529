package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lris-api/api/swagger"
	"github.com/noah-isme/lris-api/internal/catalog"
	"github.com/noah-isme/lris-api/internal/handler"
	internalmiddleware "github.com/noah-isme/lris-api/internal/middleware"
	"github.com/noah-isme/lris-api/internal/models"
	"github.com/noah-isme/lris-api/internal/repository"
	"github.com/noah-isme/lris-api/internal/service"
	"github.com/noah-isme/lris-api/internal/workflow"
	"github.com/noah-isme/lris-api/pkg/cache"
	"github.com/noah-isme/lris-api/pkg/config"
	"github.com/noah-isme/lris-api/pkg/database"
	"github.com/noah-isme/lris-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lris-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lris-api/pkg/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

// @title LRIS API
// @version 1.0.0
// @description Learning resource inventory, school registry and distribution ledger
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := database.NewSource(cfg.Database, logr)
	defer source.Close() //nolint:errcheck
	if err := source.Ping(ctx); err != nil {
		// The pool is retried on the next request.
		logr.Warn("database not reachable at startup", zap.Error(err))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, catalog cache and selections disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled && redisClient != nil)

	dispatcher := catalog.NewDispatcher(func(category models.Category, schema models.CatalogSchema) catalog.Store {
		return repository.NewCatalogRepository(source, category, schema)
	})

	schoolRepo := repository.NewSchoolRepository(source)
	distributionRepo := repository.NewDistributionRepository(source)

	schoolSvc := service.NewSchoolService(schoolRepo, validate, logr)
	catalogSvc := service.NewCatalogService(dispatcher, cacheSvc, metricsSvc, cfg.Catalog.DefaultActor, cfg.Catalog.CacheTTL, validate, logr)
	ledgerSvc := service.NewLedgerService(distributionRepo, dispatcher, schoolRepo, metricsSvc,
		service.LedgerOptions{VerifyReferences: cfg.Ledger.VerifyReferences}, validate, logr)

	handlers := handler.Handlers{
		Schools:       handler.NewSchoolHandler(schoolSvc),
		Catalog:       handler.NewCatalogHandler(catalogSvc),
		Distributions: handler.NewDistributionHandler(ledgerSvc),
		Metrics:       handler.NewMetricsHandler(metricsSvc, source),
	}
	if selections := newSelectionService(cfg, redisClient, catalogSvc, ledgerSvc, logr); selections != nil {
		handlers.Selections = handler.NewSelectionHandler(selections)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, catalogSegments(dispatcher)...))
	r.Use(internalmiddleware.Actor())

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newSelectionService(cfg *config.Config, client *redis.Client, catalogSvc *service.CatalogService, ledgerSvc *service.LedgerService, logr *zap.Logger) *service.SelectionService {
	if !cfg.Selections.Enabled {
		return nil
	}
	if client == nil {
		logr.Warn("selections enabled but redis is unavailable, routes not mounted")
		return nil
	}
	machine := workflow.NewMachine(catalogSvc, ledgerSvc)
	return service.NewSelectionService(repository.NewSelectionRepository(client), machine, cfg.Selections.TTL, logr)
}

func catalogSegments(dispatcher *catalog.Dispatcher) []string {
	descs := dispatcher.Catalogs()
	segments := make([]string, 0, len(descs))
	for _, desc := range descs {
		segments = append(segments, desc.Segment)
	}
	return segments
}
