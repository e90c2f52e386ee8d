package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/polylinkapp/polylink/config"
	"github.com/polylinkapp/polylink/internal/app/classifier"
	appmodel "github.com/polylinkapp/polylink/internal/app/model"
	apprepository "github.com/polylinkapp/polylink/internal/app/repository"
	appserver "github.com/polylinkapp/polylink/internal/app/server"
	appservice "github.com/polylinkapp/polylink/internal/app/service"
	"github.com/polylinkapp/polylink/internal/infra/logger"
	infraNATS "github.com/polylinkapp/polylink/internal/infra/nats"
	infraPostgres "github.com/polylinkapp/polylink/internal/infra/postgres"
	infraPrometheus "github.com/polylinkapp/polylink/internal/infra/prometheus"
	infraRedis "github.com/polylinkapp/polylink/internal/infra/redis"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("listen_addr", cfg.App.ListenAddr),
		zap.String("base_url", cfg.App.BaseURL),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.String("redis_host", cfg.Redis.Host),
		zap.String("nats_host", cfg.NATS.Host),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB, &appmodel.Link{}); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()
	log.Info("Connected to Postgres successfully")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully")

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server", zap.String("addr", promServer.Addr))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	uaClassifier, err := classifier.New()
	if err != nil {
		log.Fatal("Failed to load crawler signature table", zap.Error(err))
	}
	log.Info("Crawler signature table loaded",
		zap.Int("signatures", uaClassifier.SignatureCount()))

	linkRepo := apprepository.NewLinkRepository(gormDB)

	pathFilter := appservice.NewPathFilter()
	if paths, err := linkRepo.ListPaths(ctx); err != nil {
		log.Warn("Failed to seed path filter, continuing without", zap.Error(err))
		pathFilter = nil
	} else {
		pathFilter.Seed(paths)
		log.Info("Seeded path filter", zap.Int("paths", len(paths)))
	}

	cacheTTL, err := time.ParseDuration(cfg.App.CacheTTL)
	if err != nil {
		log.Fatal("Invalid CACHE_TTL", zap.Error(err))
	}
	linkCache := appservice.NewLinkCache(redisClient, linkRepo, cacheTTL, log)

	events := appservice.NewLinkEventPublisher(js)
	consumer := appservice.NewCacheSyncConsumer(js, log, linkCache, pathFilter)
	if err := consumer.Start(); err != nil {
		log.Fatal("Failed to start cache sync consumer", zap.Error(err))
	}

	linkService := appservice.NewLinkService(appservice.LinkServiceDeps{
		Repo:   linkRepo,
		Paths:  appservice.NewPathGenerator(),
		Filter: pathFilter,
		Events: events,
		Logger: log,
	})

	resolver := appservice.NewResolver(cfg.ParsedBaseURL())

	server := appserver.New(appserver.Dependencies{
		Logger:      log,
		Postgres:    pool,
		Links:       linkCache,
		LinkService: linkService,
		Classifier:  uaClassifier,
		Resolver:    resolver,
		App:         cfg.App,
	})

	if err := server.Listen(cfg.App.ListenAddr); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
