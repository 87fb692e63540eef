// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/mcpserver"
	"github.com/starford/othala/internal/recordservice"
	"github.com/starford/othala/internal/repo"
	"github.com/starford/othala/internal/storage"
)

// runtime bundles the wired components for one application run.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	store  *storage.FS
	db     *index.DB
	svc    *recordservice.Service
}

func (rt *runtime) close() {
	if err := rt.db.Close(); err != nil {
		rt.logger.Warn("closing index", slog.String("error", err.Error()))
	}
}

// bootstrap builds the logger, storage, repository, index, and service, and
// hydrates state from the records file.
func bootstrap(app *application) (*runtime, error) {
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Structured JSON logs go to stderr so the menu and command output own
	// stdout.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		slog.String("records_dir", cfg.Records.Dir),
		slog.String("records_file", cfg.Records.File),
		slog.Int("digit_length", cfg.Records.DigitLength),
		slog.String("sqlite_path", cfg.SQLite.Path))

	// Ensure the data directory exists.
	if err := os.MkdirAll(cfg.Records.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Records.Dir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	repository := repo.New(store, cfg.Records.File, cfg.Records.DigitLength)
	svc := recordservice.NewService(repository, db, logger)

	// Hydrate from the records file (a missing file means an empty
	// collection) and run the initial index sync.
	if err := svc.Reload(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("load records: %w", err)
	}

	logger.Info("records loaded",
		slog.Int("count", svc.Len()),
		slog.String("file", cfg.Records.File))

	return &runtime{cfg: cfg, logger: logger, store: store, db: db, svc: svc}, nil
}

// Run starts the interactive application with the given options: the menu
// loop, the records-file watcher, and signal handling run until the user
// quits or the context is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)

	rt, err := bootstrap(app)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the records file for external edits and reload. Unsaved
	// in-memory changes win over the disk copy.
	g.Go(func() error {
		return index.Watch(gCtx, rt.store.Root(), rt.cfg.Records.File, rt.logger, func() {
			if rt.svc.Dirty() {
				rt.logger.Warn("records file changed on disk; keeping unsaved in-memory changes")
				return
			}
			if err := rt.svc.Reload(gCtx); err != nil {
				rt.logger.Warn("reload after file change failed", slog.String("error", err.Error()))
			}
		})
	})

	// Interactive menu; quitting it shuts the rest down.
	g.Go(func() error {
		defer cancel()
		return runMenu(gCtx, rt.svc, app.input, app.output)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			rt.logger.Info("received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		rt.logger.Error("application error", slog.String("error", err.Error()))
		return err
	}

	rt.logger.Info("stopped")
	return nil
}

// RunMCP starts the MCP stdio server with the given options.
func RunMCP(_ context.Context, opts ...Option) error {
	app := newApplication(opts)

	rt, err := bootstrap(app)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.logger.Info("mcp server starting on stdio")
	return mcpserver.New(rt.svc).ServeStdio()
}

// Do bootstraps the application, runs fn against the record service, and
// tears everything down. One-shot subcommands use it.
func Do(ctx context.Context, fn func(context.Context, *recordservice.Service) error, opts ...Option) error {
	app := newApplication(opts)

	rt, err := bootstrap(app)
	if err != nil {
		return err
	}
	defer rt.close()

	return fn(ctx, rt.svc)
}

func newApplication(opts []Option) *application {
	app := &application{
		input:  os.Stdin,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}
