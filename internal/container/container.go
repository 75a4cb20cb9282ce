// Package container provides dependency injection for the rfm-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"vorp/rfm-csv/internal/batch"
	"vorp/rfm-csv/internal/config"
	"vorp/rfm-csv/internal/dateutils"
	"vorp/rfm-csv/internal/insights"
	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/report"
	"vorp/rfm-csv/internal/rfm"
	"vorp/rfm-csv/internal/server"
	"vorp/rfm-csv/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// It is built once per process; every field is set by NewContainer and never
// replaced afterwards.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	store    *store.CatalogStore
	catalog  *store.SegmentCatalog
	engine   *rfm.Engine
	gemini   *insights.GeminiClient
	insights *insights.Service
	reports  *report.Generator
	analyzer *batch.Analyzer
}

// NewContainer creates and wires all application dependencies.
//
// The segment catalog is loaded eagerly so a malformed catalog file fails at
// startup. The Gemini client is only created when AI is enabled and an API
// key is configured.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	catalogStore := store.NewCatalogStore(cfg.Segments.CatalogFile, logger)
	catalog, err := catalogStore.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load segment catalog: %w", err)
	}

	engine := rfm.NewEngine(logger, dateutils.DateParser{DayFirst: cfg.CSV.DayFirst})

	var (
		gemini *insights.GeminiClient
		client insights.Client
	)
	apiKey := cfg.AI.APIKey
	if apiKey == "" {
		apiKey = config.GetGeminiAPIKey()
	}
	if cfg.AI.Enabled && apiKey != "" {
		gemini, err = insights.NewGeminiClient(ctx, insights.GeminiOptions{
			APIKey:      apiKey,
			Model:       cfg.AI.Model,
			Language:    cfg.AI.Language,
			Temperature: float32(cfg.AI.Temperature),
			TopP:        float32(cfg.AI.TopP),
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
		client = gemini
		logger.WithField(logging.FieldModel, cfg.AI.Model).Info("AI insights enabled")
	} else {
		logger.Debug("AI insights disabled")
	}

	insightsSvc := insights.NewService(client, time.Duration(cfg.AI.TimeoutSeconds)*time.Second, logger)
	reports := report.NewGenerator(catalog, logger)

	logger.Debug("Container initialized successfully",
		logging.Field{Key: "segments", Value: catalog.Len()},
		logging.Field{Key: "ai_enabled", Value: insightsSvc.Enabled()})

	return &Container{
		logger:   logger,
		config:   cfg,
		store:    catalogStore,
		catalog:  catalog,
		engine:   engine,
		gemini:   gemini,
		insights: insightsSvc,
		reports:  reports,
		analyzer: batch.NewAnalyzer(engine, insightsSvc, reports, logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the segment catalog store.
func (c *Container) GetStore() *store.CatalogStore {
	return c.store
}

// GetCatalog returns the loaded segment catalog.
func (c *Container) GetCatalog() *store.SegmentCatalog {
	return c.catalog
}

// GetEngine returns the RFM engine.
func (c *Container) GetEngine() *rfm.Engine {
	return c.engine
}

// GetInsights returns the insight service. It is never nil; when AI is
// disabled it answers with fallback texts.
func (c *Container) GetInsights() *insights.Service {
	return c.insights
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// GetAnalyzer returns the file and directory analyzer.
func (c *Container) GetAnalyzer() *batch.Analyzer {
	return c.analyzer
}

// NewServer builds the HTTP server from the container's dependencies.
func (c *Container) NewServer() *server.Server {
	return server.New(c.engine, c.insights, c.catalog, c.reports, c.logger, server.Options{
		Delimiter:   c.config.Delimiter(),
		MaxUploadMB: c.config.Server.MaxUploadMB,
	})
}

// Close releases the AI client connection, if any.
func (c *Container) Close() error {
	if c.gemini != nil {
		if err := c.gemini.Close(); err != nil {
			return fmt.Errorf("failed to close AI client: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
