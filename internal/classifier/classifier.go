package classifier

import (
	"strings"

	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/domain"
	"ArticleSeeder/internal/ports"
)

// Rule assigns Category when any URL marker occurs in the lowercased URL
// or any keyword occurs in the title.
type Rule struct {
	Category      string
	URLMarkers    []string
	TitleKeywords []string
}

func (r Rule) matches(lowerURL, title string) bool {
	for _, marker := range r.URLMarkers {
		if marker != "" && strings.Contains(lowerURL, strings.ToLower(marker)) {
			return true
		}
	}
	for _, keyword := range r.TitleKeywords {
		if keyword != "" && strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}

// Classifier picks a category with priority-ordered rules and layered fallbacks.
// It holds no mutable state, so Classify is a pure function of its arguments.
type Classifier struct {
	defaultCategory string
	rules           []Rule
	grades          []string
}

var _ ports.Classifier = (*Classifier)(nil)

// New builds a classifier from configuration, preserving rule order.
func New(cfg config.ClassificationConfig) *Classifier {
	rules := make([]Rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, Rule{
			Category:      r.Category,
			URLMarkers:    append([]string(nil), r.URLMarkers...),
			TitleKeywords: append([]string(nil), r.TitleKeywords...),
		})
	}
	return &Classifier{
		defaultCategory: cfg.DefaultCategory,
		rules:           rules,
		grades:          append([]string(nil), cfg.GradeLevels...),
	}
}

// Classify resolves a category name:
//  1. the first matching rule, else the default category;
//  2. if unknown to categories, the first grade level named in the title;
//  3. if still unknown, the first category, or the default when there are none.
func (c *Classifier) Classify(link domain.ArticleLink, title string, categories domain.Taxonomy) string {
	name := c.defaultCategory
	lowerURL := strings.ToLower(link.URL)
	for _, rule := range c.rules {
		if rule.matches(lowerURL, title) {
			name = rule.Category
			break
		}
	}

	if categories.Has(name) {
		return name
	}

	for _, grade := range c.grades {
		if strings.Contains(title, grade) {
			name = grade
			break
		}
	}

	if categories.Has(name) {
		return name
	}

	if first, ok := categories.First(); ok {
		return first.Name
	}
	return c.defaultCategory
}
