package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/folio/internal/api"
	"github.com/hyperengineering/folio/internal/config"
	"github.com/hyperengineering/folio/internal/export"
	"github.com/hyperengineering/folio/internal/feed"
	"github.com/hyperengineering/folio/internal/loader"
	"github.com/hyperengineering/folio/internal/publish"
	"github.com/hyperengineering/folio/internal/store"
	"github.com/hyperengineering/folio/internal/worker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "Folio - Portfolio Content Service",
	Long:          "Serve, validate, and export the portfolio content collections.",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if contentRootOverride != "" {
		cfg.Content.Root = contentRootOverride
	}
	slog.Info("configuration loaded")

	// 3. Initialize logger
	slog.SetDefault(newLogger(os.Stdout, cfg.Log))
	slog.Info("logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	// 4. Initialize index (migrations, WAL mode)
	db, err := store.NewSQLiteStore(cfg.Index.DSN)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "dsn", cfg.Index.DSN)

	// 5. Initial content load. Failures are logged and the index stays empty.
	reloader := loader.NewReloader(loader.New(cfg.Content.Root), db)
	resp, err := reloader.Reload(ctx)
	if err != nil {
		db.Close()
		return err
	}
	slog.Info("content loaded",
		"root", cfg.Content.Root,
		"load_id", resp.LoadID,
		"entries", resp.Loaded,
		"failures", len(resp.Failures),
		"applied", resp.Applied,
	)

	// 6. Initialize HTTP router
	site := siteFromConfig(cfg.Site)
	handler := api.NewHandler(db, reloader, site, cfg.Auth.APIKey, Version)
	router := api.NewRouter(handler)
	slog.Info("router initialized")

	// 7. Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// 8. Background workers
	var wg sync.WaitGroup
	if cfg.Watch.Enabled {
		watcher := worker.NewContentWatcher(cfg.Content.Root, time.Duration(cfg.Watch.Debounce),
			func(ctx context.Context) {
				if _, err := reloader.Reload(ctx); err != nil && ctx.Err() == nil {
					slog.Error("content reload failed", "component", "loader", "error", err)
				}
			})
		startWorker(ctx, &wg, "content-watcher", watcher.Run)
	}
	if cfg.Export.Interval > 0 {
		uploader, err := publish.NewUploader(cfg.Publish)
		if err != nil {
			db.Close()
			return err
		}
		exporter := export.NewExporter(db, cfg.Export.Dir, site)
		coordinator := worker.NewExportCoordinator(exporter, time.Duration(cfg.Export.Interval), uploader)
		startWorker(ctx, &wg, "export", coordinator.Run)
	}

	// 9. Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	// 10. Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// 11. Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	// 11a. Stop HTTP server (drains in-flight requests)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// 11b. Wait for workers to complete
	wg.Wait()

	// 11c. Close store
	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func siteFromConfig(cfg config.SiteConfig) feed.Site {
	return feed.Site{
		URL:         cfg.URL,
		Title:       cfg.Title,
		Description: cfg.Description,
	}
}

// newLogger builds the process logger. Format "text" selects the text
// handler; anything else logs JSON.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
