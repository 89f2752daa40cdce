package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"gridview/internal/config"
	"gridview/internal/handler"
	"gridview/internal/hub"
	"gridview/internal/logging"
	"gridview/internal/repository"
	"gridview/internal/repository/redis"
	"gridview/internal/repository/sqlite"
	"gridview/internal/service"
	"gridview/internal/watcher"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		dbPath     string
		watchPath  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
			return serve(cmd.Context(), cfg, watchPath, cmd.Flags().Changed("verbose"))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default: search standard locations)")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().StringVarP(&watchPath, "watch", "w", "", "diagram file to import at startup and re-import on change")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, _, err = config.LoadFromPath(path)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func openRepository(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.Database.Path)
	case config.DriverRedis:
		rc := cfg.Database.Redis
		return redis.New(ctx, redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
			Prefix:   rc.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func serve(ctx context.Context, cfg *config.Config, watchPath string, verbose bool) error {
	logger := logging.FromContext(ctx)
	if !verbose {
		logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
	}
	logger.Info("starting gridview", "version", version)
	logger.Debug(cfg.Summary())

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	logger.Info("database opened", "driver", cfg.Database.Driver)

	eventBus := service.NewEventBus()
	svc := service.NewDiagramService(repo, eventBus, cfg, logger.WithPrefix("service"))

	if watchPath != "" {
		if err := importFile(svc, watchPath); err != nil {
			return err
		}
		w := watcher.New(watchPath, func(path string) {
			if err := importFile(svc, path); err != nil {
				logger.Error("re-import failed", "path", path, "err", err)
			}
		}).WithLogger(logger.WithPrefix("watch"))
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher stopped", "err", err)
			}
		}()
	} else if _, err := svc.LoadLatest(ctx); err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			return err
		}
		logger.Info("no stored snapshot, starting empty")
	}

	sseHub := hub.New(logger)
	go sseHub.Run(ctx)
	sseHub.Attach(ctx, eventBus)

	router := handler.NewRouter(
		handler.NewDiagramHandler(svc, logger.WithPrefix("http")),
		sseHub,
		logger.WithPrefix("http"),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	return nil
}
