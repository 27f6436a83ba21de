// Package container provides dependency injection for the gestor-receipts application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"gestorbot/gestor-receipts/internal/batch"
	"gestorbot/gestor-receipts/internal/config"
	"gestorbot/gestor-receipts/internal/currencyutils"
	"gestorbot/gestor-receipts/internal/export"
	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/oracle"
	"gestorbot/gestor-receipts/internal/receipt"
	"gestorbot/gestor-receipts/internal/server"
	"gestorbot/gestor-receipts/internal/store"
	"gestorbot/gestor-receipts/internal/taxonomy"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation.
type Container struct {
	logger         logging.Logger
	config         *config.Config
	taxonomy       *taxonomy.Taxonomy
	taxonomySource string
	oracle         oracle.Oracle
	closer         func() error
	pipeline       *receipt.Pipeline
	processor      *receipt.Processor
	runner         *batch.Runner
	exporter       *export.Exporter
}

// Option customizes NewContainer, mostly for tests and dry runs.
type Option func(*options)

type options struct {
	logger logging.Logger
	source store.TaxonomySource
	oracle oracle.Oracle
}

// WithLogger replaces the logrus logger built from the config.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTaxonomySource replaces the file-backed taxonomy store.
func WithTaxonomySource(s store.TaxonomySource) Option {
	return func(o *options) { o.source = s }
}

// WithOracle replaces the Gemini client.
func WithOracle(or oracle.Oracle) Option {
	return func(o *options) { o.oracle = or }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}
	currencyutils.SetLogger(logger)

	source := o.source
	if source == nil {
		source = store.NewTaxonomyStore(cfg.Taxonomy.File, logger)
	}
	tax, sourceName, err := source.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}

	ora, closer, err := newOracle(cfg, o.oracle, logger)
	if err != nil {
		return nil, err
	}

	pipeline, err := receipt.NewPipeline(tax, logger, receipt.WithLimits(receipt.Limits{
		MaxAgeDays:       cfg.MaxAgeDays(),
		MaxFutureDays:    cfg.Validation.MaxFutureDays,
		MinAmount:        cfg.MinAmount(),
		SuspiciousAmount: cfg.SuspiciousAmount(),
	}))
	if err != nil {
		_ = closer()
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	processor := receipt.NewProcessor(ora, oracle.NewPrompts(tax), pipeline, logger)
	runner := batch.NewRunner(processor, logger,
		batch.WithMaxItems(cfg.Upload.MaxBatchFiles),
		batch.WithDelay(cfg.Upload.BatchDelay))

	logger.Info("Container initialized successfully",
		logging.Field{Key: "taxonomy_source", Value: sourceName},
		logging.Field{Key: logging.FieldCount, Value: len(tax.Categories())},
		logging.Field{Key: "oracle_configured", Value: o.oracle != nil || cfg.OracleConfigured()})

	return &Container{
		logger:         logger,
		config:         cfg,
		taxonomy:       tax,
		taxonomySource: sourceName,
		oracle:         ora,
		closer:         closer,
		pipeline:       pipeline,
		processor:      processor,
		runner:         runner,
		exporter:       export.NewExporter(cfg.CSVDelimiter(), logger),
	}, nil
}

func newOracle(cfg *config.Config, override oracle.Oracle, logger logging.Logger) (oracle.Oracle, func() error, error) {
	noop := func() error { return nil }
	if override != nil {
		return override, noop, nil
	}
	if !cfg.OracleConfigured() {
		logger.Warn("Oracle not configured, extraction requests will be rejected",
			logging.Field{Key: "ai_enabled", Value: cfg.AI.Enabled})
		return oracle.NotConfigured{}, noop, nil
	}

	client, err := oracle.NewGeminiClient(context.Background(), oracle.GeminiConfig{
		APIKey:          cfg.AI.APIKey,
		Model:           cfg.AI.Model,
		Temperature:     cfg.AI.Temperature,
		MaxOutputTokens: cfg.AI.MaxTokens,
		Timeout:         cfg.AITimeout(),
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create oracle client: %w", err)
	}
	return client, client.Close, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTaxonomy returns the loaded taxonomy.
func (c *Container) GetTaxonomy() *taxonomy.Taxonomy {
	return c.taxonomy
}

// GetTaxonomySource names where the taxonomy was loaded from.
func (c *Container) GetTaxonomySource() string {
	return c.taxonomySource
}

// GetOracle returns the extraction oracle.
func (c *Container) GetOracle() oracle.Oracle {
	return c.oracle
}

// GetPipeline returns the validation pipeline.
func (c *Container) GetPipeline() *receipt.Pipeline {
	return c.pipeline
}

// GetProcessor returns the single-document processor.
func (c *Container) GetProcessor() *receipt.Processor {
	return c.processor
}

// GetBatchRunner returns the batch runner.
func (c *Container) GetBatchRunner() *batch.Runner {
	return c.runner
}

// GetExporter returns the batch result exporter.
func (c *Container) GetExporter() *export.Exporter {
	return c.exporter
}

// NewServer builds the HTTP surface over the container's components.
func (c *Container) NewServer() *server.Server {
	return server.New(server.Options{
		Processor:        c.processor,
		Runner:           c.runner,
		Taxonomy:         c.taxonomy,
		MaxDocumentBytes: c.config.MaxDocumentBytes(),
		Mode:             c.config.Server.Mode,
	}, c.logger)
}

// Close releases the oracle client.
func (c *Container) Close() error {
	if err := c.closer(); err != nil {
		return fmt.Errorf("failed to close oracle client: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
