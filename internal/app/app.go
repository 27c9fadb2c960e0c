package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mdotstrange/TabHoardersFriend/internal/alarm"
	"github.com/mdotstrange/TabHoardersFriend/internal/archive"
	"github.com/mdotstrange/TabHoardersFriend/internal/browser/bridge"
	"github.com/mdotstrange/TabHoardersFriend/internal/config"
	"github.com/mdotstrange/TabHoardersFriend/internal/folder"
	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver"
	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/deps"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
	"github.com/mdotstrange/TabHoardersFriend/internal/redis"
	"github.com/mdotstrange/TabHoardersFriend/internal/router"
	"github.com/mdotstrange/TabHoardersFriend/internal/sources/policy"
	redisstore "github.com/mdotstrange/TabHoardersFriend/internal/store/redis"
	"github.com/mdotstrange/TabHoardersFriend/internal/timer"
	"github.com/mdotstrange/TabHoardersFriend/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sched       *alarm.Scheduler
	hub         *bridge.Hub
	router      *router.Router
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
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
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)

	pol, err := policy.NewLoader(cfg.PolicyFile).Load()
	if err != nil {
		loggerClient.Errorf("Failed to load archival policy: %v", err)
		os.Exit(1)
	}

	sched := alarm.New(loggerClient)
	timers := timer.NewManager(store, sched, loggerClient, cfg.DefaultTimerMinutes)

	hub := bridge.NewHub(loggerClient)
	resolver := folder.NewResolver(hub.Bookmarks(), loggerClient, cfg.RootFolderName)
	archiver := archive.NewExecutor(hub, hub.Bookmarks(), store, resolver, timers,
		loggerClient, cfg.RootFolderName, pol)

	rt := router.New(hub, timers, archiver, store, loggerClient)

	// Countdown expiry flows back through the router.
	sched.SetHandler(rt.HandleAlarm)
	hub.SetEventHandler(rt.Handle)

	// The browser process can restart while the daemon keeps running, so
	// timers and the active-tab index are rebuilt on every shim attach.
	hub.SetConnectHandler(func(ctx context.Context) {
		if err := rt.Init(ctx); err != nil {
			loggerClient.Warn("failed to rebuild tab state after shim attach",
				logger.Error(err))
		}
	})

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		Router:         rt,
		Archiver:       archiver,
		Settings:       store,
		Names:          store,
		AllNames:       store,
		Bridge:         hub,
		ExportDir:      cfg.ExportDir,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		sched:       sched,
		hub:         hub,
		router:      rt,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting hoardd v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("hoardd %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	// Pending countdowns die with the process; they are rebuilt from live
	// tab state when the shim reattaches.
	a.sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ hoardd stopped cleanly")
	return nil
}
