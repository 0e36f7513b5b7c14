package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"ArticleSeeder/internal/classifier"
	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/infrastructure/fetch"
	"ArticleSeeder/internal/infrastructure/parser"
	"ArticleSeeder/internal/infrastructure/scheduler"
	"ArticleSeeder/internal/infrastructure/storage"
	"ArticleSeeder/internal/logging"
	"ArticleSeeder/internal/usecase"
)

// Application wires configs to the seeding pipeline.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New validates cfg and builds a runnable application; client may be nil.
func New(cfg config.Config, client *http.Client, baseLogger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	fetcher := fetch.NewFetcher(cfg.HTTP, client, baseLogger.With("component", "fetcher"))

	links := parser.NewLinkExtractor(fetcher, cfg, baseLogger.With("component", "links"))
	source := parser.NewListingSource(
		links,
		cfg.ListingURLs(),
		scheduler.NewThrottle(cfg.Crawl.ListingPause),
		baseLogger.With("component", "source"),
	)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Categories:  parser.NewCategoryResolver(fetcher, cfg, baseLogger.With("component", "categories")),
		Links:       source,
		Articles:    parser.NewArticleExtractor(fetcher, cfg, baseLogger.With("component", "articles")),
		Classifier:  classifier.New(cfg.Classification),
		Renderer:    storage.NewSQLRenderer(cfg.Site, cfg.Output),
		Sink:        storage.NewFileSink(cfg.Output.Path),
		Throttle:    scheduler.NewThrottle(cfg.Crawl.ArticlePause),
		MaxArticles: cfg.Crawl.MaxArticles,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger}, nil
}

// Run performs a single crawl and writes the seed file.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info("seeding started", "site", a.cfg.Site.BaseURL, "max_articles", a.cfg.Crawl.MaxArticles)
	if err := a.pipeline.Run(ctx); err != nil {
		return err
	}
	a.logger.Info("seed file generated", "path", a.cfg.Output.Path)
	return nil
}
