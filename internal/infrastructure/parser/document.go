package parser

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func newDocument(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// visibleText joins every non-blank, trimmed text node under sel with sep.
func visibleText(sel *goquery.Selection, sep string) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, sep)
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if s := strings.TrimSpace(n.Data); s != "" {
			*parts = append(*parts, s)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// textWithout extracts visible text from a copy of sel with the given tags removed.
func textWithout(sel *goquery.Selection, tags []string, sep string) string {
	clone := sel.Clone()
	if len(tags) > 0 {
		clone.Find(strings.Join(tags, ",")).Remove()
	}
	return visibleText(clone, sep)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

// refBase picks the URL relative references resolve against: the site root unless page-relative resolution is on.
func refBase(site *url.URL, page string, againstPage bool) (*url.URL, error) {
	if againstPage || site == nil {
		return url.Parse(page)
	}
	return site, nil
}

func resolveURL(base *url.URL, ref string) (*url.URL, bool) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, false
	}
	if base == nil {
		return parsed, parsed.IsAbs()
	}
	return base.ResolveReference(parsed), true
}

// inDomain reports whether u is served by domain or one of its subdomains.
func inDomain(u *url.URL, domain string) bool {
	if u == nil || domain == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func isAbsoluteHTTP(ref string) bool {
	parsed, err := url.Parse(ref)
	if err != nil || parsed.Host == "" {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}
