package parser

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/domain"
	"ArticleSeeder/internal/ports"
)

// linkFilter holds the heuristics that separate article links from navigation.
type linkFilter struct {
	domain         string
	minTitleLength int
	maxTitleLength int
	maxLinks       int
	hrefPrefixes   []string
	hrefTokens     []string
}

// LinkExtractor scans listing pages for candidate article links.
type LinkExtractor struct {
	fetcher     ports.PageFetcher
	charset     string
	site        *url.URL
	againstPage bool
	filter      linkFilter
	logger      *slog.Logger
}

var _ ports.LinkExtractor = (*LinkExtractor)(nil)

// NewLinkExtractor expects a validated config.
func NewLinkExtractor(fetcher ports.PageFetcher, cfg config.Config, logger *slog.Logger) *LinkExtractor {
	return &LinkExtractor{
		fetcher:     fetcher,
		charset:     cfg.Site.Encoding,
		site:        cfg.SiteURL(),
		againstPage: cfg.Extraction.ResolveAgainstPage,
		filter: linkFilter{
			domain:         cfg.Site.Domain,
			minTitleLength: cfg.Extraction.MinLinkTitleLength,
			maxTitleLength: cfg.Extraction.MaxTitleLength,
			maxLinks:       cfg.Crawl.MaxLinksPerPage,
			hrefPrefixes:   cfg.Extraction.ExcludedHrefPrefixes,
			hrefTokens:     cfg.Extraction.ExcludedHrefTokens,
		},
		logger: logger,
	}
}

// Extract returns at most maxLinksPerPage unique links; fetch failures yield none.
func (e *LinkExtractor) Extract(ctx context.Context, listURL string) []domain.ArticleLink {
	markup, err := e.fetcher.Fetch(ctx, listURL, e.charset)
	if err != nil {
		return nil
	}

	base, err := refBase(e.site, listURL, e.againstPage)
	if err != nil {
		e.warn("invalid listing url", "url", listURL, "error", err)
		return nil
	}

	doc, err := newDocument(markup)
	if err != nil {
		e.warn("listing page unparsable", "url", listURL, "error", err)
		return nil
	}

	return e.filter.extract(doc, base)
}

func (f linkFilter) extract(doc *goquery.Document, base *url.URL) []domain.ArticleLink {
	var (
		links []domain.ArticleLink
		seen  = map[string]struct{}{}
	)

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || f.excludedHref(href) {
			return true
		}

		title := visibleText(a, "")
		if runeLen(title) <= f.minTitleLength {
			return true
		}

		target, ok := resolveURL(base, href)
		if !ok || !inDomain(target, f.domain) {
			return true
		}

		key := target.String()
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		links = append(links, domain.ArticleLink{
			URL:   key,
			Title: truncateRunes(title, f.maxTitleLength),
		})

		return f.maxLinks <= 0 || len(links) < f.maxLinks
	})

	return links
}

func (f linkFilter) excludedHref(href string) bool {
	for _, prefix := range f.hrefPrefixes {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	lower := strings.ToLower(href)
	for _, token := range f.hrefTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func (e *LinkExtractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
