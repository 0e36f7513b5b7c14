package parser

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/domain"
	"ArticleSeeder/internal/ports"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// ArticleExtractor parses detail pages into title, body text and images.
type ArticleExtractor struct {
	fetcher     ports.PageFetcher
	charset     string
	domain      string
	site        *url.URL
	rules       config.ExtractionConfig
	titleSuffix *regexp.Regexp
	logger      *slog.Logger
}

var _ ports.ArticleExtractor = (*ArticleExtractor)(nil)

// NewArticleExtractor expects a validated config.
func NewArticleExtractor(fetcher ports.PageFetcher, cfg config.Config, logger *slog.Logger) *ArticleExtractor {
	return &ArticleExtractor{
		fetcher:     fetcher,
		charset:     cfg.Site.Encoding,
		domain:      cfg.Site.Domain,
		site:        cfg.SiteURL(),
		rules:       cfg.Extraction,
		titleSuffix: cfg.Extraction.TitleSuffixRegexp(),
		logger:      logger,
	}
}

// Extract fetches and parses pageURL; false means the page is unavailable and must be skipped.
func (e *ArticleExtractor) Extract(ctx context.Context, pageURL string) (domain.ArticleDetail, bool) {
	markup, err := e.fetcher.Fetch(ctx, pageURL, e.charset)
	if err != nil {
		return domain.ArticleDetail{}, false
	}

	base, err := refBase(e.site, pageURL, e.rules.ResolveAgainstPage)
	if err != nil {
		e.warn("invalid article url", "url", pageURL, "error", err)
		return domain.ArticleDetail{}, false
	}

	doc, err := newDocument(markup)
	if err != nil {
		e.warn("article page unparsable", "url", pageURL, "error", err)
		return domain.ArticleDetail{}, false
	}

	return e.parse(doc, base), true
}

func (e *ArticleExtractor) parse(doc *goquery.Document, base *url.URL) domain.ArticleDetail {
	images := e.images(doc, base)
	detail := domain.ArticleDetail{
		Title:   e.title(doc),
		Content: e.content(doc),
		Images:  images,
	}
	if len(images) > 0 {
		detail.CoverImage = images[0]
	}
	return detail
}

func (e *ArticleExtractor) title(doc *goquery.Document) string {
	title := visibleText(doc.Find("title").First(), "")
	if e.titleSuffix != nil {
		title = e.titleSuffix.ReplaceAllString(title, "")
	}
	return truncateRunes(strings.TrimSpace(title), e.rules.MaxTitleLength)
}

// content tries each selector in order and falls back to the whole body.
func (e *ArticleExtractor) content(doc *goquery.Document) string {
	var text string
	for _, selector := range e.rules.ContentSelectors {
		match := doc.Find(selector).First()
		if match.Length() == 0 {
			continue
		}
		text = textWithout(match, e.rules.ContentStripTags, "\n")
		if runeLen(text) > e.rules.MinContentLength {
			return truncateRunes(text, e.rules.MaxContentLength)
		}
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		text = textWithout(body, e.rules.FallbackStripTags, "\n")
		text = blankLines.ReplaceAllString(text, "\n\n")
	}
	return truncateRunes(text, e.rules.MaxContentLength)
}

func (e *ArticleExtractor) images(doc *goquery.Document, base *url.URL) []string {
	var images []string
	doc.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" {
			return true
		}

		target, ok := resolveURL(base, src)
		if !ok {
			return true
		}
		if !inDomain(target, e.domain) && !isAbsoluteHTTP(src) {
			return true
		}

		images = append(images, target.String())
		return e.rules.MaxImages <= 0 || len(images) < e.rules.MaxImages
	})
	return images
}

func (e *ArticleExtractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
