package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/smartmatch/internal/repository/schemafile"
	chiTransport "github.com/kailas-cloud/smartmatch/internal/transport/chi"
)

func newSchemaCmd() *cobra.Command {
	var file, format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Validate the facet schema document and print it",
		Long: `Loads the facet schema the same way the server does and prints it.
A schema that fails to load exits non-zero, so the command doubles as a
pre-deploy check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchema(cmd.OutOrStdout(), file, format)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "schema document (default: schema.path from config)")
	cmd.Flags().StringVarP(&format, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func runSchema(out io.Writer, file, format string) error {
	if file == "" {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		file = cfg.Schema.Path
	}

	s, err := schemafile.Load(file)
	if err != nil {
		return err
	}
	resp := chiTransport.NewSchemaResponse(s)

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(resp)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
