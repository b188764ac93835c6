package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sneyderangulo/readinglist/internal/auth"
	"github.com/sneyderangulo/readinglist/internal/cache"
	"github.com/sneyderangulo/readinglist/internal/config"
	"github.com/sneyderangulo/readinglist/internal/coordinator"
	"github.com/sneyderangulo/readinglist/internal/httpserver"
	"github.com/sneyderangulo/readinglist/internal/httpserver/deps"
	"github.com/sneyderangulo/readinglist/internal/logger"
	"github.com/sneyderangulo/readinglist/internal/metadata"
	"github.com/sneyderangulo/readinglist/internal/redis"
	"github.com/sneyderangulo/readinglist/internal/scheduler"
	"github.com/sneyderangulo/readinglist/internal/store/sqlite"
	"github.com/sneyderangulo/readinglist/internal/utils"
	"github.com/sneyderangulo/readinglist/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	store       *sqlite.Store
	redisClient *goredis.Client
	reconciler  *scheduler.CacheReconciler
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	store, err := sqlite.New(cfg.SQLitePath)
	if err != nil {
		loggerClient.Errorf("Failed to open database at %s: %v", cfg.SQLitePath, err)
		os.Exit(1)
	}
	loggerClient.Infof("Database ready at %s", cfg.SQLitePath)

	// Redis is optional: without it, cache snapshots live in process memory
	// and die with the daemon.
	var redisClient *goredis.Client
	var persist cache.Persistence = cache.NewMemoryPersistence()
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err = redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDialTimeout,
			ReadTimeout:    cfg.RedisReadTimeout,
			WriteTimeout:   cfg.RedisWriteTimeout,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		persist = cache.NewRedisPersistence(redisClient)
		loggerClient.Info("Redis initialized successfully")
	} else {
		loggerClient.Info("Redis not configured, cache snapshots stay in memory")
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		loggerClient.Errorf("Failed to initialize token service: %v", err)
		os.Exit(1)
	}
	authService := auth.NewService(store, auth.NewPasswordHasher(), tokens)

	savedURLs := cache.NewSavedURLs()
	coord := coordinator.New(store, authService, savedURLs, persist, loggerClient, cfg.WebAppURL)

	var fetcher *metadata.Fetcher
	if cfg.FetchMetadata {
		fetcher = metadata.NewFetcher(cfg.MetadataTimeout)
	}

	reconcileTrigger := make(chan struct{}, 1)
	reconciler := scheduler.NewCacheReconciler(
		coord,
		savedURLs,
		loggerClient,
		cfg.ReconcileInterval,
		reconcileTrigger,
	)

	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		Store:            store,
		Auth:             authService,
		Coordinator:      coord,
		Metadata:         fetcher,
		RedisClient:      redisClient,
		Validate:         validator.New(),
		ReconcileTrigger: reconcileTrigger,
		AllowedOrigins:   cfg.AllowedOrigins,
		WebAppURL:        cfg.WebAppURL,
		RecentLimit:      cfg.RecentLimit,
		TokenTTL:         cfg.TokenTTL,
		TrustProxy:       cfg.TrustProxy,
		AuthRateBurst:    cfg.AuthRateBurst,
		AuthRatePerMin:   cfg.AuthRatePerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		store:       store,
		redisClient: redisClient,
		reconciler:  reconciler,
	}
}

func (a *App) Run() error {
	a.logger.Infof("Starting readinglist %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("readinglist %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.reconciler.Start(ctx)
	a.logger.Info("cache reconciler started",
		logger.Duration("interval", a.cfg.ReconcileInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reconciler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.MustClose(a.redisClient, a.logger, "redis")
	}
	utils.MustClose(a.store, a.logger, "database")

	a.logger.Info("readinglist stopped cleanly")
	return nil
}
