package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hyperengineering/folio/internal/config"
)

var (
	contentRootOverride string
	jsonOutput          bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&contentRootOverride, "content", "",
		"Content root path (overrides config and FOLIO_CONTENT_ROOT)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(pagesCmd)
}

// loadLocalConfig loads configuration for commands that do not serve HTTP,
// applying the --content override.
func loadLocalConfig() (*config.Config, error) {
	cfg, err := config.LoadLocal()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if contentRootOverride != "" {
		cfg.Content.Root = contentRootOverride
	}
	return cfg, nil
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
