package parser

import (
	"context"
	"fmt"
	"log/slog"

	"ArticleSeeder/internal/domain"
	"ArticleSeeder/internal/ports"
)

// ListingSource implements ports.LinkSource over the home page and configured listing pages.
type ListingSource struct {
	links    ports.LinkExtractor
	urls     []string
	throttle ports.Throttle
	logger   *slog.Logger
}

var _ ports.LinkSource = (*ListingSource)(nil)

// NewListingSource wires the link extractor with listing URLs; urls[0] is the home page.
func NewListingSource(links ports.LinkExtractor, urls []string, throttle ports.Throttle, log *slog.Logger) *ListingSource {
	return &ListingSource{
		links:    links,
		urls:     urls,
		throttle: throttle,
		logger:   log,
	}
}

// Discover walks every listing page and returns the links deduplicated by URL in discovery order.
func (s *ListingSource) Discover(ctx context.Context) ([]domain.ArticleLink, error) {
	if s.links == nil {
		return nil, fmt.Errorf("link extractor is not configured")
	}

	s.debug("discover links", "pages", len(s.urls))

	var aggregated []domain.ArticleLink
	for i, pageURL := range s.urls {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discover links: %w", err)
		}

		found := s.links.Extract(ctx, pageURL)
		s.debug("listing page scanned", "url", pageURL, "links", len(found))
		aggregated = append(aggregated, found...)

		// only category listings are followed by a pause, never the home page
		if i == 0 || s.throttle == nil {
			continue
		}
		if err := s.throttle.Wait(ctx); err != nil {
			return nil, fmt.Errorf("listing pause: %w", err)
		}
	}

	unique := dedupeLinks(aggregated)
	s.debug("listing source done", "total_links", len(aggregated), "unique_links", len(unique))
	return unique, nil
}

func dedupeLinks(links []domain.ArticleLink) []domain.ArticleLink {
	seen := make(map[string]struct{}, len(links))
	unique := make([]domain.ArticleLink, 0, len(links))
	for _, link := range links {
		if _, ok := seen[link.URL]; ok {
			continue
		}
		seen[link.URL] = struct{}{}
		unique = append(unique, link)
	}
	return unique
}

func (s *ListingSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
