package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/folio/internal/content"
	"github.com/hyperengineering/folio/internal/schema"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections [name]",
	Short: "List collections or show a collection's schema",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCollections,
}

// fieldInfo is the printable form of a schema field.
type fieldInfo struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Default  any      `json:"default,omitempty"`
	Values   []string `json:"values,omitempty"`
}

func runCollections(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return showCollection(cmd, args[0])
	}

	all := content.All()
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"collections": all,
			"total":       len(all),
		})
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "NAME\tBASE\tPATTERN\tFIELDS")
	for _, c := range all {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", c.Name, c.Loader.Base, c.Loader.Pattern, len(c.Schema.Fields))
	}
	w.Flush()
	return nil
}

func showCollection(cmd *cobra.Command, name string) error {
	c, ok := content.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown collection %q (known: %s)", name, strings.Join(content.Names(), ", "))
	}

	fields := make([]fieldInfo, len(c.Schema.Fields))
	for i, f := range c.Schema.Fields {
		fields[i] = fieldInfo{
			Name:     f.Name,
			Type:     fieldType(f),
			Required: !f.Optional(),
			Default:  f.Default,
			Values:   f.Values,
		}
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"collection": c,
			"fields":     fields,
		})
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "FIELD\tTYPE\tREQUIRED\tDEFAULT")
	for _, f := range fields {
		def := "-"
		if f.Default != nil {
			def = fmt.Sprint(f.Default)
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", f.Name, f.Type, f.Required, def)
	}
	w.Flush()
	return nil
}

// fieldType describes a field's type, e.g. "array<string>" or
// "enum(draft|published)".
func fieldType(f schema.Field) string {
	switch {
	case f.Kind == schema.Array && f.Elem != nil:
		return "array<" + fieldType(*f.Elem) + ">"
	case f.Kind == schema.Enum:
		return "enum(" + strings.Join(f.Values, "|") + ")"
	case f.Kind == schema.Number && f.Integer:
		return "integer"
	default:
		return f.Kind.String()
	}
}
