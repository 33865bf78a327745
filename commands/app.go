// commands/app.go
package commands

import (
	"database/sql"
	"fmt"

	"github.com/clearglobal/hdx-scraper/config"
	"github.com/clearglobal/hdx-scraper/database"
	"github.com/clearglobal/hdx-scraper/metrics"
	"github.com/clearglobal/hdx-scraper/publisher"
	"github.com/clearglobal/hdx-scraper/scraper"
	"github.com/clearglobal/hdx-scraper/services"
	"github.com/clearglobal/hdx-scraper/utils"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	store    *database.StateStore
	metrics  *metrics.Registry
	pipeline *services.Pipeline
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if logLevel == "" {
		setupLogging(cfg.LogLevel)
	}

	db, err := database.OpenDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	store := database.NewStateStore(db, cfg.State.DefaultWatermark)

	fetcher := scraper.NewClient(scraper.ClientOptions{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
		SavedDir:  cfg.Fetch.SavedDir,
		Save:      cfg.Fetch.Save,
		UseSaved:  cfg.Fetch.UseSaved,
	})
	builder := services.NewResourceBuilder(fetcher, cfg.BaseURL, cfg.Headers)
	generator := services.NewDatasetGenerator(builder, utils.NewCountryRegistry(cfg.CountryNames), services.DatasetOptions{
		NotesTemplate:    cfg.Description,
		VisualizationURL: cfg.VisualizationURL,
		Static:           cfg.DatasetStatic,
	})
	reg := metrics.NewRegistry()
	pipeline := services.NewPipeline(services.PipelineOptions{
		Detector:          services.NewChangeDetector(fetcher, cfg.BaseURL, cfg.LocationFields),
		Generator:         generator,
		Publisher:         publisher.NewFilePublisher(cfg.OutputDir, cfg.Headers),
		Store:             store,
		Metrics:           reg,
		RollbackOnFailure: cfg.State.Rollback(),
	})
	return &app{cfg: cfg, db: db, store: store, metrics: reg, pipeline: pipeline}, nil
}

func (a *app) Close() error { return a.db.Close() }
