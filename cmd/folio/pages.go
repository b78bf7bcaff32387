package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/folio/internal/export"
	"github.com/hyperengineering/folio/internal/pages"
	"github.com/hyperengineering/folio/internal/types"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List static page metadata",
	Args:  cobra.NoArgs,
	RunE:  runPages,
}

func runPages(cmd *cobra.Command, args []string) error {
	ids := pages.All()
	list := make([]types.PageResponse, len(ids))
	for i, id := range ids {
		list[i] = export.PageResponse(id)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), list)
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tHEADING\tTITLE")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Heading, p.Title)
	}
	w.Flush()
	return nil
}
