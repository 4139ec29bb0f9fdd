package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Archi470/Todo-Mobile-Application/internal/infra/buildinfo"
	"github.com/Archi470/Todo-Mobile-Application/internal/infra/confloader"
	"github.com/Archi470/Todo-Mobile-Application/internal/infra/shutdown"
	"github.com/Archi470/Todo-Mobile-Application/internal/server/config"
	"github.com/Archi470/Todo-Mobile-Application/internal/server/httpserver"
	"github.com/Archi470/Todo-Mobile-Application/internal/server/httpserver/handler"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/metric"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("todo-stub " + buildinfo.String())
		return nil
	}

	loader := newLoader(*configFile)
	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	log.Info("starting todo-stub",
		"version", buildinfo.Get().Version,
		"config", *configFile,
		"settings", config.Sanitize(cfg))

	if cfg.Auth.Secret == "" {
		log.Warn("auth.secret is not set; using a random secret, tokens will not survive a restart")
	}
	tokens, err := handler.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	h := handler.New(handler.NewBackend(cfg.Auth.BcryptCost), tokens, log)

	var metrics *metric.Registry
	if cfg.Metrics.Enabled {
		metrics = metric.Global()
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Handler:            h,
		Logger:             log,
		Metrics:            metrics,
		MetricsPath:        cfg.Metrics.Path,
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		RateLimit:          cfg.HTTP.RateLimit,
		RateBurst:          cfg.HTTP.RateBurst,
	})
	server := httpserver.New(cfg.HTTP.Addr, router, cfg.HTTP.ReadHeaderTimeout)

	sd := shutdown.NewHandler(shutdownTimeout, log)
	sd.OnShutdown("http", server.Shutdown)

	if *configFile != "" {
		watcher, err := watchConfig(loader, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			sd.OnShutdown("config-watcher", func(_ context.Context) error { return watcher.Stop() })
		}
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTP.Addr)
		errCh <- server.ListenAndServe()
	}()

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)
	go func() {
		if err := <-errCh; err != nil {
			log.Error("HTTP server error", "error", err)
			cancel(err)
		}
	}()

	if err := sd.WaitContext(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}
	if cause := context.Cause(ctx); cause != nil && cause != context.Canceled {
		return cause
	}

	log.Info("server stopped gracefully")
	return nil
}

func newLoader(configFile string) *confloader.Loader {
	return confloader.NewLoader(
		confloader.WithEnvPrefix(config.EnvPrefix),
		confloader.WithConfigFile(configFile),
		confloader.WithDefaults(config.DefaultMap()),
	)
}

func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchConfig re-reads the file on change and applies log.level. Other
// settings need a restart.
func watchConfig(loader *confloader.Loader, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(loader.FilePath()); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.OnChange(func(string) {
		cfg := config.Default()
		if err := loader.Reload(cfg); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if !logger.ValidLevel(cfg.Log.Level) {
			log.Warn("config reload ignored invalid log level", "level", cfg.Log.Level)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()
	return w, nil
}
