package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/folio/internal/content"
	"github.com/hyperengineering/folio/internal/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every content document",
	Long:  "Load every collection from the content root and report documents that fail their schema. Exits non-zero on any failure.",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadLocalConfig()
	if err != nil {
		return err
	}

	report, err := loader.New(cfg.Content.Root).LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	counts := make(map[string]int, len(report.Entries))
	for _, e := range report.Entries {
		counts[e.Collection]++
	}

	if jsonOutput {
		if err := printJSON(cmd.OutOrStdout(), map[string]any{
			"load_id":     report.ID,
			"root":        cfg.Content.Root,
			"collections": counts,
			"loaded":      len(report.Entries),
			"failures":    report.LoadFailures(),
			"ok":          report.OK(),
		}); err != nil {
			return err
		}
	} else {
		w := newTabWriter(cmd.OutOrStdout())
		fmt.Fprintln(w, "COLLECTION\tENTRIES")
		for _, name := range content.Names() {
			fmt.Fprintf(w, "%s\t%d\n", name, counts[name])
		}
		w.Flush()

		if !report.OK() {
			fmt.Fprintln(cmd.OutOrStdout())
			w = newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(w, "PATH\tCOLLECTION\tERROR")
			for _, f := range report.Failures {
				fmt.Fprintf(w, "%s\t%s\t%v\n", f.Path, f.Collection, f.Err)
			}
			w.Flush()
		}
	}

	if !report.OK() {
		return fmt.Errorf("%d of %d documents failed validation",
			len(report.Failures), len(report.Failures)+len(report.Entries))
	}
	if !jsonOutput {
		fmt.Fprintf(cmd.OutOrStdout(), "\nAll %d documents valid.\n", len(report.Entries))
	}
	return nil
}
