package ports

import (
	"context"

	"ArticleSeeder/internal/domain"
)

// PageFetcher downloads a page and decodes it with a known charset.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL, charset string) (string, error)
}

// CategoryResolver builds the category taxonomy from the site navigation.
type CategoryResolver interface {
	Resolve(ctx context.Context) domain.Taxonomy
}

// LinkExtractor pulls candidate article links out of a listing page.
type LinkExtractor interface {
	Extract(ctx context.Context, listURL string) []domain.ArticleLink
}

// LinkSource discovers every article link of a crawl.
type LinkSource interface {
	Discover(ctx context.Context) ([]domain.ArticleLink, error)
}

// ArticleExtractor parses a detail page; false means the page must be skipped.
type ArticleExtractor interface {
	Extract(ctx context.Context, pageURL string) (domain.ArticleDetail, bool)
}

// Classifier assigns a category name to an article.
type Classifier interface {
	Classify(link domain.ArticleLink, title string, categories domain.Taxonomy) string
}

// SeedRenderer turns a dataset into SQL text.
type SeedRenderer interface {
	Render(dataset domain.Dataset) (string, error)
}

// SeedSink persists rendered SQL.
type SeedSink interface {
	Write(content string) error
}

// Throttle pauses between requests.
type Throttle interface {
	Wait(ctx context.Context) error
}
