package parser

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	"github.com/PuerkitoBio/goquery"

	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/domain"
	"ArticleSeeder/internal/ports"
)

// CategoryResolver derives the taxonomy from the home page navigation plus built-in defaults.
type CategoryResolver struct {
	fetcher  ports.PageFetcher
	homeURL  string
	charset  string
	pattern  *regexp.Regexp
	excluded []string
	taxonomy config.TaxonomyConfig
	logger   *slog.Logger
}

var _ ports.CategoryResolver = (*CategoryResolver)(nil)

// NewCategoryResolver expects a validated config.
func NewCategoryResolver(fetcher ports.PageFetcher, cfg config.Config, logger *slog.Logger) *CategoryResolver {
	return &CategoryResolver{
		fetcher:  fetcher,
		homeURL:  cfg.Site.BaseURL,
		charset:  cfg.Site.Encoding,
		pattern:  cfg.Extraction.CategoryLinkRegexp(),
		excluded: cfg.Extraction.ExcludedCategoryLabels,
		taxonomy: cfg.Taxonomy,
		logger:   logger,
	}
}

// Resolve returns an empty taxonomy when the home page cannot be fetched or parsed.
func (r *CategoryResolver) Resolve(ctx context.Context) domain.Taxonomy {
	markup, err := r.fetcher.Fetch(ctx, r.homeURL, r.charset)
	if err != nil {
		r.warn("home page unavailable, no categories resolved", "url", r.homeURL)
		return domain.Taxonomy{}
	}

	doc, err := newDocument(markup)
	if err != nil {
		r.warn("home page unparsable, no categories resolved", "url", r.homeURL, "error", err)
		return domain.Taxonomy{}
	}

	names := discoverCategoryNames(doc, r.pattern, r.excluded)
	taxonomy := buildTaxonomy(names, r.taxonomy)
	if r.logger != nil {
		r.logger.Info("categories resolved", "discovered", len(names), "total", taxonomy.Len())
	}
	return taxonomy
}

// discoverCategoryNames collects anchor texts whose href matches pattern, in document order.
func discoverCategoryNames(doc *goquery.Document, pattern *regexp.Regexp, excluded []string) []string {
	var names []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !pattern.MatchString(href) {
			return
		}
		text := visibleText(a, "")
		if text == "" || slices.Contains(excluded, text) || slices.Contains(names, text) {
			return
		}
		names = append(names, text)
	})
	return names
}

func buildTaxonomy(discovered []string, cfg config.TaxonomyConfig) domain.Taxonomy {
	descriptions := make(map[string]string, len(discovered)+len(cfg.Defaults))
	for _, def := range cfg.Defaults {
		if _, ok := descriptions[def.Name]; !ok {
			descriptions[def.Name] = def.Description
		}
	}
	for _, name := range discovered {
		if _, ok := descriptions[name]; !ok {
			descriptions[name] = fmt.Sprintf(cfg.DescriptionTemplate, name)
		}
	}
	return domain.NewTaxonomy(descriptions)
}

func (r *CategoryResolver) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
