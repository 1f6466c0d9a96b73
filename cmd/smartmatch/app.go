package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/smartmatch/internal/config"
	"github.com/kailas-cloud/smartmatch/internal/domain"
	"github.com/kailas-cloud/smartmatch/internal/domain/schema"
	"github.com/kailas-cloud/smartmatch/internal/repository/schemafile"
	chiTransport "github.com/kailas-cloud/smartmatch/internal/transport/chi"
	genaiProvider "github.com/kailas-cloud/smartmatch/internal/transport/genai"
	openaiProvider "github.com/kailas-cloud/smartmatch/internal/transport/openai"
	batchuc "github.com/kailas-cloud/smartmatch/internal/usecase/batch"
	completionuc "github.com/kailas-cloud/smartmatch/internal/usecase/completion"
	facetsuc "github.com/kailas-cloud/smartmatch/internal/usecase/facets"
	healthuc "github.com/kailas-cloud/smartmatch/internal/usecase/health"
	parseuc "github.com/kailas-cloud/smartmatch/internal/usecase/parse"
)

// app is the wired object graph shared by serve and parse.
type app struct {
	schema *schema.Schema
	parse  *parseuc.Service
	batch  *batchuc.Service
	facets *facetsuc.Service
	health *healthuc.Service
}

// buildApp is the composition root. Schema and provider errors are fatal to the caller.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	s, err := schemafile.Load(cfg.Schema.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("Facet schema loaded",
		zap.String("path", cfg.Schema.Path),
		zap.String("version", s.Version()),
		zap.Int("facets", s.Len()),
		zap.Int("categories", len(s.Categories())),
	)

	base, err := buildProvider(ctx, cfg.Completion)
	if err != nil {
		return nil, err
	}
	completer := completionuc.NewInstrumentedCompleter(base, cfg.Completion.Provider, cfg.Completion.Model, nil)
	logger.Info("Completion provider created",
		zap.String("provider", cfg.Completion.Provider),
		zap.String("model", cfg.Completion.Model),
		zap.Int("timeout_sec", cfg.Completion.TimeoutSec),
	)

	parseSvc := parseuc.New(s, completer).
		WithModel(cfg.Completion.Model).
		WithTimeout(time.Duration(cfg.Completion.TimeoutSec) * time.Second).
		WithMaxQueryLength(cfg.Parse.MaxQueryLength)

	return &app{
		schema: s,
		parse:  parseSvc,
		batch: batchuc.New(parseSvc).
			WithMaxBatchSize(cfg.Parse.MaxBatchSize).
			WithConcurrency(cfg.Parse.BatchConcurrency),
		facets: facetsuc.New(s),
		health: healthuc.New(chiTransport.ServiceName, s, completer),
	}, nil
}

func buildProvider(ctx context.Context, cfg config.CompletionConfig) (domain.Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openaiProvider.NewCompleter(&openaiProvider.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			JSONMode:    cfg.JSONMode,
		}), nil
	case config.ProviderGemini:
		c, err := genaiProvider.NewCompleter(ctx, &genaiProvider.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			JSONMode:    cfg.JSONMode,
		})
		if err != nil {
			return nil, domain.NewConfigurationError("completion", err)
		}
		return c, nil
	default:
		return nil, domain.NewConfigurationError("completion",
			fmt.Errorf("unknown provider %q", cfg.Provider))
	}
}
