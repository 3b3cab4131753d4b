package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bobmcallan/vault-mcp/internal/config"
	"github.com/bobmcallan/vault-mcp/internal/mcp"
)

// catalogEntry is one tool as written by the catalog command.
type catalogEntry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	InputSchema any    `json:"input_schema" yaml:"input_schema"`
}

type catalogDocument struct {
	Server config.BuildInfo `json:"server" yaml:"server"`
	Tools  []catalogEntry   `json:"tools" yaml:"tools"`
}

func newCatalogCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the tool catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := buildCatalogDocument()
			if err != nil {
				return err
			}
			return writeCatalog(cmd.OutOrStdout(), doc, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or markdown")
	return cmd
}

func buildCatalogDocument() (catalogDocument, error) {
	tools := mcp.Catalog(mcp.Options{})
	doc := catalogDocument{
		Server: config.GetBuildInfo(),
		Tools:  make([]catalogEntry, 0, len(tools)),
	}
	for _, t := range tools {
		// Round trip through JSON so YAML sees plain maps instead of the schema struct.
		raw, err := json.Marshal(t.Schema)
		if err != nil {
			return catalogDocument{}, fmt.Errorf("encode schema for %s: %w", t.Name, err)
		}
		var schema any
		if err := json.Unmarshal(raw, &schema); err != nil {
			return catalogDocument{}, fmt.Errorf("decode schema for %s: %w", t.Name, err)
		}
		doc.Tools = append(doc.Tools, catalogEntry{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		})
	}
	return doc, nil
}

func writeCatalog(w io.Writer, doc catalogDocument, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "markdown", "md":
		return writeCatalogMarkdown(w, doc)
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or markdown)", format)
	}
}

func writeCatalogMarkdown(w io.Writer, doc catalogDocument) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# vault-mcp tools\n\nVersion %s, %d tools.\n", doc.Server.Version, len(doc.Tools))

	for _, t := range doc.Tools {
		schema, err := json.MarshalIndent(t.InputSchema, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "\n## %s\n\n%s\n\n```json\n%s\n```\n", t.Name, t.Description, schema)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
