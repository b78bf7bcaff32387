package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyperengineering/folio/internal/export"
	"github.com/hyperengineering/folio/internal/publish"
)

// SiteExporter writes the current index as static files.
// Implemented by export.Exporter.
type SiteExporter interface {
	Export(ctx context.Context) (*export.Result, error)
}

// ExportCoordinator periodically exports the index and publishes the files.
type ExportCoordinator struct {
	exporter SiteExporter
	uploader publish.Uploader
	interval time.Duration
}

// NewExportCoordinator creates a coordinator that exports on every interval.
// The uploader parameter is optional; if nil, nothing is published.
func NewExportCoordinator(
	exporter SiteExporter,
	interval time.Duration,
	uploader publish.Uploader,
) *ExportCoordinator {
	return &ExportCoordinator{
		exporter: exporter,
		uploader: uploader,
		interval: interval,
	}
}

// Run starts the coordinator loop. Exports immediately on start, then on
// each interval, until ctx is cancelled.
func (c *ExportCoordinator) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "export-coordinator",
		"action", "worker_started",
		"interval", c.interval.String(),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.exportOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "export-coordinator",
				"action", "worker_stopped",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			c.exportOnce(ctx)
		}
	}
}

// exportOnce runs one export cycle. Returns true if the export succeeded.
func (c *ExportCoordinator) exportOnce(ctx context.Context) bool {
	res, err := c.exporter.Export(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false // Graceful shutdown, don't log as error
		}
		slog.Warn("export failed",
			"component", "worker",
			"worker", "export-coordinator",
			"action", "export_failed",
			"error", err,
		)
		return false
	}

	slog.Info("export completed",
		"component", "worker",
		"worker", "export-coordinator",
		"action", "export_complete",
		"dir", res.Dir,
		"files", len(res.Files),
	)

	if publish.Enabled(c.uploader) {
		c.publish(ctx, res)
	}
	return true
}

// publish uploads the exported files.
// Upload failures are logged as warnings; the local export remains valid.
func (c *ExportCoordinator) publish(ctx context.Context, res *export.Result) {
	if err := publish.Result(ctx, c.uploader, res); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("publishing export failed",
			"component", "worker",
			"worker", "export-coordinator",
			"action", "publish_failed",
			"error", err,
		)
		return
	}

	slog.Info("export published",
		"component", "worker",
		"worker", "export-coordinator",
		"action", "export_published",
		"files", len(res.Files),
	)
}
