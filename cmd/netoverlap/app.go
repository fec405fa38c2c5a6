package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/network-overlap/internal/config"
	"github.com/jonathan/network-overlap/internal/db"
	"github.com/jonathan/network-overlap/internal/enrichment"
	"github.com/jonathan/network-overlap/internal/extraction"
	"github.com/jonathan/network-overlap/internal/fetch"
	"github.com/jonathan/network-overlap/internal/importer"
	"github.com/jonathan/network-overlap/internal/llm"
	"github.com/jonathan/network-overlap/internal/logger"
	"github.com/jonathan/network-overlap/internal/overlap"
	"github.com/jonathan/network-overlap/internal/settings"
	"go.uber.org/zap"
)

// app holds the wired services shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *db.DB
	settings *settings.Service
	browser  *fetch.BrowserManager
	session  *fetch.SessionChecker
	pipeline *enrichment.Pipeline
	overlaps *overlap.Service
	importer *importer.Importer
}

// newApp loads configuration, connects to the database and wires the services.
// The browser is started lazily by the first fetch.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	log, err := logger.New(jsonLogs || cfg.JSONLogs, debugLogs || cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, settings.Defaults); err != nil {
		database.Close()
		return nil, err
	}

	store := settings.NewService(database, settings.Overrides{APIKey: cfg.APIKey, Model: cfg.Model})

	browserCfg := fetch.DefaultBrowserConfig()
	browserCfg.ExecPath = cfg.ChromePath
	browserCfg.Headless = cfg.IsHeadless()
	browser := fetch.NewBrowserManager(browserCfg, log)
	store.OnSessionChange(browser.Invalidate)

	scraper := fetch.NewProfileScraper(browser, fetch.DefaultScrapeConfig(), log)
	extractor := extraction.New(llmConfig(cfg), store, log)

	return &app{
		cfg:      cfg,
		logger:   log,
		db:       database,
		settings: store,
		browser:  browser,
		session:  fetch.NewSessionChecker(0),
		pipeline: enrichment.NewPipeline(database, store, scraper, extractor, log),
		overlaps: overlap.NewService(database, nil, log),
		importer: importer.New(database, store, log),
	}, nil
}

// Close shuts down the browser and the database pool.
func (a *app) Close() {
	if err := a.browser.Close(); err != nil {
		a.logger.Warn("failed to close browser", zap.Error(err))
	}
	a.db.Close()
	_ = a.logger.Sync()
}

func llmConfig(cfg *config.Config) *llm.Config {
	if cfg.Provider == config.ProviderVertex {
		return llm.DefaultVertexConfig(cfg.VertexProject, cfg.VertexLocation)
	}
	return llm.DefaultConfig()
}
