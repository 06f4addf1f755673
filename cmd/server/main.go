package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldlogger/internal/config"
	cronrunner "fieldlogger/internal/cron"
	"fieldlogger/internal/db"
	"fieldlogger/internal/handler"
	"fieldlogger/internal/logger"
	"fieldlogger/internal/relay"
	"fieldlogger/internal/repository"
	gormrepository "fieldlogger/internal/repository/gorm"
	"fieldlogger/internal/repository/memory"
	"fieldlogger/internal/service"
	"fieldlogger/internal/stream"

	_ "fieldlogger/docs"
)

type store interface {
	repository.InspectionRepository
	repository.Purger
}

func main() {
	cfgPath := os.Getenv("FL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("FL_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var (
		repo   store
		gormDB *gorm.DB
	)
	if strings.EqualFold(cfg.DB.Driver, db.DriverMemory) {
		logger.Warn("using in-memory store, records are lost on restart")
		repo = memory.NewStore()
	} else {
		dbConn, err := db.Open(cfg.DB)
		if err != nil {
			logger.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close(dbConn)

		if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
			logger.Warn("failed to set timezone", zap.Error(err))
		}
		if cfg.DB.AutoMigrate {
			if err := db.AutoMigrate(dbConn); err != nil {
				logger.Fatal("auto-migrate failed", zap.Error(err))
			}
		}
		gormDB = dbConn.Gorm
		repo = gormrepository.New(dbConn.Gorm)
	}

	registry := stream.NewRegistry(repo, logger, stream.Options{
		HeartbeatInterval: cfg.Stream.HeartbeatInterval,
		WriteTimeout:      cfg.Stream.WriteTimeout,
		Buffer:            cfg.Stream.Buffer,
	})
	defer registry.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var notifier service.Notifier = registry
	if strings.EqualFold(cfg.Relay.Backend, "redis") {
		if cfg.Relay.RedisAddr == "" {
			logger.Warn("relay.backend=redis but relay.redis_addr is empty; falling back to local")
		} else {
			redisRelay := relay.NewRedisRelay(&redis.Options{
				Addr:     cfg.Relay.RedisAddr,
				Password: cfg.Relay.RedisPassword,
				DB:       cfg.Relay.RedisDB,
			}, cfg.Relay.Channel, registry, logger)
			defer redisRelay.Close()
			notifier = redisRelay
			go func() {
				if err := redisRelay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("redis relay stopped", zap.Error(err))
				}
			}()
		}
	}

	submissions := &service.SubmissionService{
		Repo:     repo,
		Notifier: notifier,
		Logger:   logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.CORS(cfg.Server.AllowedOrigins))
	engine.Use(handler.AccessLog(logger))

	healthHandler := &handler.HealthHandler{DB: gormDB, Streams: registry}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)
	inspectionHandler := &handler.InspectionHandler{
		Service: submissions,
		Repo:    repo,
		Logger:  logger,
	}
	inspectionHandler.Register(engine)
	eventsHandler := &handler.EventsHandler{
		Registry:       registry,
		Logger:         logger,
		OriginPatterns: handler.WebSocketOriginPatterns(cfg.Server.AllowedOrigins),
	}
	eventsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if cfg.Cron.StreamStats != "" {
			if _, err := cronRunner.Add("stream_stats", cfg.Cron.StreamStats, cronrunner.StreamStatsJob(registry, logger)); err != nil {
				logger.Warn("cron register stream stats failed", zap.Error(err))
			}
		}
		if cfg.Cron.Purge != "" {
			if _, err := cronRunner.Add("purge", cfg.Cron.Purge, cronrunner.PurgeJob(repo, notifier, logger)); err != nil {
				logger.Warn("cron register purge failed", zap.Error(err))
			}
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	// Streams never finish on their own; drop them before waiting on handlers.
	registry.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
