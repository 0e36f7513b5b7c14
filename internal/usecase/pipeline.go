package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ArticleSeeder/internal/domain"
	"ArticleSeeder/internal/ports"
)

// PipelineDeps wires all driven adapters into the seeding pipeline.
type PipelineDeps struct {
	Categories  ports.CategoryResolver
	Links       ports.LinkSource
	Articles    ports.ArticleExtractor
	Classifier  ports.Classifier
	Renderer    ports.SeedRenderer
	Sink        ports.SeedSink
	Throttle    ports.Throttle
	MaxArticles int
	Logger      *slog.Logger
}

// Pipeline implements the fetch, extract, classify and render workflow.
type Pipeline struct {
	categories  ports.CategoryResolver
	links       ports.LinkSource
	articles    ports.ArticleExtractor
	classifier  ports.Classifier
	renderer    ports.SeedRenderer
	sink        ports.SeedSink
	throttle    ports.Throttle
	maxArticles int
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		categories:  deps.Categories,
		links:       deps.Links,
		articles:    deps.Articles,
		classifier:  deps.Classifier,
		renderer:    deps.Renderer,
		sink:        deps.Sink,
		throttle:    deps.Throttle,
		maxArticles: deps.MaxArticles,
		logger:      deps.Logger,
	}
}

// Run collects the dataset, renders it and hands the SQL to the sink.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.renderer == nil || p.sink == nil {
		return fmt.Errorf("pipeline output is not configured")
	}

	dataset, err := p.Collect(ctx)
	if err != nil {
		return err
	}

	seed, err := p.renderer.Render(dataset)
	if err != nil {
		return fmt.Errorf("render seed: %w", err)
	}
	if err := p.sink.Write(seed); err != nil {
		return fmt.Errorf("write seed: %w", err)
	}

	p.info("seed written", "categories", dataset.Categories.Len(), "articles", len(dataset.Articles))
	return nil
}

// Collect resolves categories, discovers links and extracts up to maxArticles articles.
// Pages that cannot be fetched are skipped; only context cancellation aborts.
func (p *Pipeline) Collect(ctx context.Context) (domain.Dataset, error) {
	if p.categories == nil || p.links == nil || p.articles == nil || p.classifier == nil {
		return domain.Dataset{}, fmt.Errorf("pipeline sources are not configured")
	}

	p.info("resolving categories")
	categories := p.categories.Resolve(ctx)
	p.info("categories resolved", "count", categories.Len())

	links, err := p.links.Discover(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("discover links: %w", err)
	}
	p.info("article links discovered", "count", len(links))

	if p.maxArticles >= 0 && len(links) > p.maxArticles {
		links = links[:p.maxArticles]
	}

	articles := make([]domain.Article, 0, len(links))
	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, fmt.Errorf("collect articles: %w", err)
		}

		p.info("fetching article", "n", i+1, "of", len(links), "title", link.Title)
		if article, ok := p.buildArticle(ctx, link, categories); ok {
			articles = append(articles, article)
		}

		if p.throttle != nil {
			if err := p.throttle.Wait(ctx); err != nil {
				return domain.Dataset{}, fmt.Errorf("article pause: %w", err)
			}
		}
	}

	p.info("articles collected", "count", len(articles))
	return domain.Dataset{Categories: categories, Articles: articles}, nil
}

func (p *Pipeline) buildArticle(ctx context.Context, link domain.ArticleLink, categories domain.Taxonomy) (domain.Article, bool) {
	detail, ok := p.articles.Extract(ctx, link.URL)
	if !ok {
		return domain.Article{}, false
	}

	title := detail.Title
	if title == "" {
		title = domain.UntitledArticle
	}

	return domain.Article{
		Title:        title,
		Content:      detail.Content,
		CoverImage:   detail.CoverImage,
		Images:       detail.Images,
		CategoryName: p.classifier.Classify(link, link.Title, categories),
		URL:          link.URL,
	}, true
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
