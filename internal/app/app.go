package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marquee/internal/catalog"
	"github.com/MrSnakeDoc/marquee/internal/config"
	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/engine"
	"github.com/MrSnakeDoc/marquee/internal/favorites"
	"github.com/MrSnakeDoc/marquee/internal/httpserver"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/presets"
	"github.com/MrSnakeDoc/marquee/internal/redis"
	"github.com/MrSnakeDoc/marquee/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/marquee/internal/store/redis"
	"github.com/MrSnakeDoc/marquee/internal/store/sqlite"
	"github.com/MrSnakeDoc/marquee/internal/version"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	engine       *engine.Engine
	redisClient  *goredis.Client
	sqliteStore  *sqlite.Store
	presetLoader *scheduler.PresetReloader
}

// storage is the favorites backend picked from the configuration.
type storage struct {
	slot   favorites.Slot
	check  deps.Pinger       // nil for the file slot
	cache  *redisstore.Store // detail cache, redis only
	redis  *goredis.Client
	sqlite *sqlite.Store
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	st, err := openStorage(cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s storage: %v", cfg.Storage, err)
		os.Exit(1)
	}
	loggerClient.Info("favorites storage ready", logger.String("backend", cfg.Storage))

	opts := catalog.Options{
		BaseURL: cfg.APIURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.APITimeout,
		Logger:  loggerClient,
	}
	if st.cache != nil && cfg.DetailCache > 0 {
		opts.Cache = st.cache
		opts.CacheTTL = cfg.DetailCache
	}
	client := catalog.New(opts)

	loc, err := engine.NewMemoryLocation(cfg.InitialURL)
	if err != nil {
		loggerClient.Warn("initial query is not a valid query string, starting from defaults",
			logger.String("query", cfg.InitialURL),
			logger.Error(err))
		loc, _ = engine.NewMemoryLocation("")
	}

	bounds := domain.NewBounds(cfg.YearFloor, time.Now())
	eng, err := engine.New(context.Background(), engine.Options{
		Catalog:  client,
		Slot:     st.slot,
		Location: loc,
		Bounds:   bounds,
		PageSize: cfg.PageSize,
		Logger:   loggerClient,
	})
	if err != nil {
		loggerClient.Errorf("Failed to build engine: %v", err)
		os.Exit(1)
	}

	// Presets are optional
	var (
		registry      *presets.Registry
		presetLoader  *scheduler.PresetReloader
		reloadTrigger chan struct{}
	)
	if cfg.PresetsFile != "" {
		loggerClient.Info("presets file configured, initializing preset reloader",
			logger.String("file", cfg.PresetsFile))
		registry = presets.NewRegistry()
		reloadTrigger = make(chan struct{}, 1)
		presetLoader = scheduler.NewPresetReloader(
			cfg.PresetsFile,
			registry,
			bounds,
			loggerClient,
			cfg.PresetsReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("presets file not configured, presets disabled")
	}

	checks := map[string]deps.Pinger{}
	if st.check != nil {
		checks["storage"] = st.check
	}

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		InstanceID:    uuid.NewString(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Engine:        eng,
		Storage:       cfg.Storage,
		Checks:        checks,
		Presets:       registry,
		ReloadTrigger: reloadTrigger,
	}
	if st.cache != nil {
		d.Cache = st.cache
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:          cfg,
		logger:       loggerClient,
		server:       server,
		engine:       eng,
		redisClient:  st.redis,
		sqliteStore:  st.sqlite,
		presetLoader: presetLoader,
	}
}

func openStorage(cfg *config.Config, log logger.Logger) (storage, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		log.Infof("Opening sqlite database at %s", cfg.SQLitePath)
		s, err := sqlite.Open(cfg.SQLitePath, sqlite.Options{})
		if err != nil {
			return storage{}, err
		}
		return storage{slot: s, check: s, sqlite: s}, nil

	case config.StorageRedis:
		// Fail fast if redis is unavailable
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return storage{}, err
		}
		s := redisstore.NewStore(client)
		return storage{slot: s, check: s, cache: s, redis: client}, nil

	case config.StorageFile:
		log.Infof("Storing favorites under %s", cfg.DataDir)
		return storage{slot: favorites.NewFileSlot(cfg.DataDir)}, nil
	}
	return storage{}, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}

func (a *App) Run() error {
	a.logger.Infof("🎬 Starting Marquee v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Marquee %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.presetLoader != nil {
		if err := a.presetLoader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start preset reloader: %w", err)
		}
		a.logger.Info("preset reloader started",
			logger.Duration("interval", a.cfg.PresetsReloadInterval))
	}

	// The failure stays in the snapshot until the next reset.
	if err := a.engine.Start(ctx); err != nil {
		if !catalog.IsFetchError(err) {
			return fmt.Errorf("failed to start engine: %w", err)
		}
		a.logger.Warn("initial catalog fetch failed", logger.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.presetLoader != nil {
		a.presetLoader.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.sqliteStore != nil {
		if err := a.sqliteStore.Close(); err != nil {
			a.logger.Warnf("failed to close sqlite: %v", err)
		} else {
			a.logger.Info("✅ SQLite closed cleanly")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Marquee stopped cleanly")
	return nil
}
