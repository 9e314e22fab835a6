// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/notegraph/internal/api"
	"github.com/starford/notegraph/internal/corpus"
	"github.com/starford/notegraph/internal/filter"
	"github.com/starford/notegraph/internal/index"
	"github.com/starford/notegraph/internal/noteservice"
	"github.com/starford/notegraph/internal/sse"
	"github.com/starford/notegraph/internal/storage"
)

// newApplication applies opts and checks the required ones.
func newApplication(opts []Option) (*application, error) {
	app := &application{stdout: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// defaultMode returns the mode requests fall back to.
func (a *application) defaultMode() filter.Mode {
	if a.mode != nil {
		return *a.mode
	}
	return a.config.Filter.Mode()
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

// runtime is the wired core shared by the server and one-shot commands.
type runtime struct {
	store  storage.Provider
	db     *index.DB
	corpus *corpus.Corpus
	svc    *noteservice.Service
}

func (r *runtime) Close() error {
	return r.db.Close()
}

// bootstrap opens the vault and index, syncs them and loads the corpus.
func bootstrap(cfg *Config, logger *slog.Logger) (*runtime, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	c := corpus.New(db, logger)
	if err := c.Reload(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	return &runtime{
		store:  store,
		db:     db,
		corpus: c,
		svc:    noteservice.NewService(c, store),
	}, nil
}

func writeStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// newHTTPHandler mounts health checks and the API.
func newHTTPHandler(svc *noteservice.Service, mode filter.Mode, events http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", writeStatus)
	r.Get("/health/ready", writeStatus)

	r.Mount("/api", api.NewRouter(svc, mode, events))
	return r
}

// Run starts the HTTP server and, when enabled, the vault watcher.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("default_mode", app.defaultMode().String()),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := bootstrap(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("Corpus loaded", slog.Int("notes", len(rt.corpus.Snapshot())))

	broker := sse.NewBroker(cfg.Watch.EventThrottle)
	defer broker.Close()

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: newHTTPHandler(rt.svc, app.defaultMode(), broker),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Watch.Enabled {
		g.Go(func() error {
			err := index.Watch(gCtx, rt.db, rt.store, cfg.Vault.Path, logger, func(kind, path string) {
				if err := rt.corpus.Reload(); err != nil {
					logger.Error("corpus reload failed", slog.String("path", path), slog.String("error", err.Error()))
					return
				}
				broker.NoteChanged(kind, path, len(rt.corpus.Snapshot()))
			})
			if err != nil {
				logger.Error("watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		// Stops the watcher; closing the broker ends open event streams.
		cancel()
		broker.Close()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
