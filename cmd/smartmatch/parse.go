package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/smartmatch/internal/metrics"
	chiTransport "github.com/kailas-cloud/smartmatch/internal/transport/chi"
)

func newParseCmd() *cobra.Command {
	var withMetadata bool
	cmd := &cobra.Command{
		Use:   "parse QUERY...",
		Short: "Parse one query against the configured provider and print the result",
		Example: `  smartmatch parse "iPhone 15 Pro 256GB under 800"
  smartmatch parse --metadata=false "PS5 console"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "), withMetadata)
		},
	}
	cmd.Flags().BoolVar(&withMetadata, "metadata", true, "include facet_count, categories, schema version and model")
	return cmd
}

func runParse(ctx context.Context, out io.Writer, query string, withMetadata bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.RegisterCompletionMetrics()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	res, err := a.parse.Parse(ctx, query)
	if err != nil {
		logger.Debug("Parse failed", zap.Error(err))
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(chiTransport.NewParseResponse(res, withMetadata))
}
