package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/folio/internal/export"
	"github.com/hyperengineering/folio/internal/loader"
	"github.com/hyperengineering/folio/internal/publish"
	"github.com/hyperengineering/folio/internal/store"
)

var (
	exportOutDir  string
	exportPublish bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the static content export",
	Long:  "Load and validate every collection, then write the static export. Nothing is written if any document fails validation.",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOutDir, "out", "",
		"Output directory (overrides export.dir)")
	exportCmd.Flags().BoolVar(&exportPublish, "publish", false,
		"Upload the exported files to the configured bucket")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadLocalConfig()
	if err != nil {
		return err
	}
	dir := cfg.Export.Dir
	if exportOutDir != "" {
		dir = exportOutDir
	}

	var uploader publish.Uploader
	if exportPublish {
		uploader, err = publish.NewUploader(cfg.Publish)
		if err != nil {
			return err
		}
		if !publish.Enabled(uploader) {
			return errors.New("publish.bucket is not configured")
		}
	}

	report, err := loader.New(cfg.Content.Root).LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	if !report.OK() {
		return fmt.Errorf("content failed validation: %w", report.Err())
	}

	db, err := store.NewSQLiteStore(store.MemoryDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	load := store.Load{ID: report.ID, LoadedAt: report.LoadedAt}
	if err := db.Replace(ctx, load, report.Entries); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	res, err := export.NewExporter(db, dir, siteFromConfig(cfg.Site)).Export(ctx)
	if err != nil {
		return err
	}

	if uploader != nil {
		if err := publish.Result(ctx, uploader, res); err != nil {
			return err
		}
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"load_id":   report.ID,
			"entries":   len(report.Entries),
			"dir":       res.Dir,
			"files":     res.Files,
			"published": uploader != nil,
		})
	}

	for _, f := range res.Files {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f)
	}
	if uploader != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Published %d files to %s\n", len(res.Files), cfg.Publish.Bucket)
	}
	return nil
}
