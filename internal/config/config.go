package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
	"gopkg.in/yaml.v3"
)

const (
	baseURLEnv     = "ARTICLE_SEEDER_BASE_URL"
	outputEnv      = "ARTICLE_SEEDER_OUTPUT"
	logLevelEnv    = "ARTICLE_SEEDER_LOG_LEVEL"
	maxArticlesEnv = "ARTICLE_SEEDER_MAX_ARTICLES"
)

// Config holds every setting of a seeding run.
type Config struct {
	Site           SiteConfig           `yaml:"site"`
	HTTP           HTTPConfig           `yaml:"http"`
	Crawl          CrawlConfig          `yaml:"crawl"`
	Extraction     ExtractionConfig     `yaml:"extraction"`
	Taxonomy       TaxonomyConfig       `yaml:"taxonomy"`
	Classification ClassificationConfig `yaml:"classification"`
	Output         OutputConfig         `yaml:"output"`
	Logging        LoggingConfig        `yaml:"logging"`
}

// SiteConfig describes the crawled website.
type SiteConfig struct {
	Name         string   `yaml:"name"`
	BaseURL      string   `yaml:"baseUrl"`
	Domain       string   `yaml:"domain"`
	Encoding     string   `yaml:"encoding"`
	ListingPaths []string `yaml:"listingPaths"`
}

// HTTPConfig tunes the shared HTTP client.
type HTTPConfig struct {
	UserAgent    string        `yaml:"userAgent"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
}

// CrawlConfig bounds the crawl and sets courtesy pauses.
type CrawlConfig struct {
	MaxArticles     int           `yaml:"maxArticles"`
	MaxLinksPerPage int           `yaml:"maxLinksPerPage"`
	ArticlePause    time.Duration `yaml:"articlePause"`
	ListingPause    time.Duration `yaml:"listingPause"`
}

// ExtractionConfig keeps the scraping heuristics as data.
type ExtractionConfig struct {
	CategoryLinkPattern    string   `yaml:"categoryLinkPattern"`
	ExcludedCategoryLabels []string `yaml:"excludedCategoryLabels"`
	MinLinkTitleLength     int      `yaml:"minLinkTitleLength"`
	ExcludedHrefPrefixes   []string `yaml:"excludedHrefPrefixes"`
	ExcludedHrefTokens     []string `yaml:"excludedHrefTokens"`
	TitleSuffixPattern     string   `yaml:"titleSuffixPattern"`
	ContentSelectors       []string `yaml:"contentSelectors"`
	ContentStripTags       []string `yaml:"contentStripTags"`
	FallbackStripTags      []string `yaml:"fallbackStripTags"`
	MinContentLength       int      `yaml:"minContentLength"`
	MaxContentLength       int      `yaml:"maxContentLength"`
	MaxTitleLength         int      `yaml:"maxTitleLength"`
	MaxImages              int      `yaml:"maxImages"`
	ResolveAgainstPage     bool     `yaml:"resolveAgainstPage"`

	categoryLink *regexp.Regexp `yaml:"-"`
	titleSuffix  *regexp.Regexp `yaml:"-"`
}

// CategoryLinkRegexp returns the compiled category href pattern.
func (e ExtractionConfig) CategoryLinkRegexp() *regexp.Regexp {
	if e.categoryLink != nil {
		return e.categoryLink
	}
	return regexp.MustCompile(e.CategoryLinkPattern)
}

// TitleSuffixRegexp returns the compiled branding suffix pattern.
func (e ExtractionConfig) TitleSuffixRegexp() *regexp.Regexp {
	if e.titleSuffix != nil {
		return e.titleSuffix
	}
	return regexp.MustCompile(e.TitleSuffixPattern)
}

// TaxonomyConfig lists the categories always seeded.
type TaxonomyConfig struct {
	Defaults            []CategoryDefault `yaml:"defaults"`
	DescriptionTemplate string            `yaml:"descriptionTemplate"`
}

// CategoryDefault is a built-in category with its canned description.
type CategoryDefault struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ClassificationConfig drives the URL/title heuristics.
type ClassificationConfig struct {
	DefaultCategory string       `yaml:"defaultCategory"`
	Rules           []RuleConfig `yaml:"rules"`
	GradeLevels     []string     `yaml:"gradeLevels"`
}

// RuleConfig maps URL markers and title keywords to a category.
type RuleConfig struct {
	Category      string   `yaml:"category"`
	URLMarkers    []string `yaml:"urlMarkers"`
	TitleKeywords []string `yaml:"titleKeywords"`
}

// OutputConfig shapes the rendered SQL file.
type OutputConfig struct {
	Path                string `yaml:"path"`
	Database            string `yaml:"database"`
	ArticleStatus       string `yaml:"articleStatus"`
	ArticleType         string `yaml:"articleType"`
	MaxImagesPerArticle int    `yaml:"maxImagesPerArticle"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if a path is given) over the defaults and applies environment overrides.
func Load(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg := defaultConfig()
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(baseURLEnv); v != "" {
		c.Site.BaseURL = v
	}
	if v := os.Getenv(outputEnv); v != "" {
		c.Output.Path = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(maxArticlesEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("config: ignoring %s=%q: %v", maxArticlesEnv, v, err)
		} else {
			c.Crawl.MaxArticles = n
		}
	}
}

// Validate compiles patterns, derives the site domain and checks limits.
func (c *Config) Validate() error {
	base, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("site base url %q: %w", c.Site.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("site base url %q must be absolute", c.Site.BaseURL)
	}
	if c.Site.Domain == "" {
		c.Site.Domain = deriveDomain(base.Hostname())
	}
	c.Site.Domain = strings.ToLower(c.Site.Domain)
	if c.Site.Encoding == "" {
		c.Site.Encoding = "gbk"
	}

	if c.Extraction.categoryLink, err = regexp.Compile(c.Extraction.CategoryLinkPattern); err != nil {
		return fmt.Errorf("category link pattern: %w", err)
	}
	if c.Extraction.titleSuffix, err = regexp.Compile(c.Extraction.TitleSuffixPattern); err != nil {
		return fmt.Errorf("title suffix pattern: %w", err)
	}

	var errs []error
	if c.Crawl.MaxArticles < 0 {
		errs = append(errs, errors.New("crawl.maxArticles must not be negative"))
	}
	if c.Crawl.MaxLinksPerPage <= 0 {
		errs = append(errs, errors.New("crawl.maxLinksPerPage must be positive"))
	}
	if c.Extraction.MaxContentLength <= 0 || c.Extraction.MaxTitleLength <= 0 {
		errs = append(errs, errors.New("extraction length limits must be positive"))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http.timeout must be positive"))
	}
	if c.Classification.DefaultCategory == "" {
		errs = append(errs, errors.New("classification.defaultCategory is required"))
	}
	if c.Output.Path == "" {
		errs = append(errs, errors.New("output.path is required"))
	}
	return errors.Join(errs...)
}

// SiteURL returns the parsed base URL; nil when it does not parse.
func (c Config) SiteURL() *url.URL {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return nil
	}
	return u
}

// ListingURLs returns the home page followed by the configured listing pages.
func (c Config) ListingURLs() []string {
	base := strings.TrimSuffix(c.Site.BaseURL, "/")
	urls := make([]string, 0, len(c.Site.ListingPaths)+1)
	urls = append(urls, c.Site.BaseURL)
	for _, p := range c.Site.ListingPaths {
		urls = append(urls, base+"/"+strings.TrimPrefix(p, "/"))
	}
	return urls
}

func deriveDomain(host string) string {
	if net.ParseIP(host) != nil {
		return host
	}
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}

func defaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Name:         "xiaoxuewang.cn",
			BaseURL:      "http://www.xiaoxuewang.cn",
			Encoding:     "gbk",
			ListingPaths: []string{"/kc/1/yw/", "/kc/2/sx/", "/kc/3/yy/"},
		},
		HTTP: HTTPConfig{
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			Timeout:      10 * time.Second,
			MaxBodyBytes: 8 << 20,
		},
		Crawl: CrawlConfig{
			MaxArticles:     50,
			MaxLinksPerPage: 50,
			ArticlePause:    500 * time.Millisecond,
			ListingPause:    time.Second,
		},
		Extraction: ExtractionConfig{
			CategoryLinkPattern:    `kc/\d+/`,
			ExcludedCategoryLabels: []string{"课程", "首页"},
			MinLinkTitleLength:     5,
			ExcludedHrefPrefixes:   []string{"#", "javascript:"},
			ExcludedHrefTokens:     []string{"index", "login", "register"},
			TitleSuffixPattern:     `(?i)[-_].*?xiaoxuewang.*?$`,
			ContentSelectors: []string{
				"div.content",
				"div.article-content",
				"div.text",
				"div.main-content",
				"article",
				`div[class*="content"]`,
				`div[class*="article"]`,
			},
			ContentStripTags:  []string{"script", "style"},
			FallbackStripTags: []string{"script", "style", "nav", "header", "footer"},
			MinContentLength:  100,
			MaxContentLength:  5000,
			MaxTitleLength:    200,
			MaxImages:         10,
		},
		Taxonomy: TaxonomyConfig{
			Defaults: []CategoryDefault{
				{Name: "语文", Description: "小学语文相关文章"},
				{Name: "数学", Description: "小学数学相关文章"},
				{Name: "英语", Description: "小学英语相关文章"},
				{Name: "一年级", Description: "一年级相关文章"},
				{Name: "二年级", Description: "二年级相关文章"},
				{Name: "三年级", Description: "三年级相关文章"},
				{Name: "四年级", Description: "四年级相关文章"},
				{Name: "五年级", Description: "五年级相关文章"},
				{Name: "六年级", Description: "六年级相关文章"},
			},
			DescriptionTemplate: "%s相关文章",
		},
		Classification: ClassificationConfig{
			DefaultCategory: "语文",
			Rules: []RuleConfig{
				{Category: "数学", URLMarkers: []string{"sx"}, TitleKeywords: []string{"数学"}},
				{Category: "英语", URLMarkers: []string{"yy"}, TitleKeywords: []string{"英语"}},
				{Category: "语文", URLMarkers: []string{"yw"}, TitleKeywords: []string{"语文"}},
			},
			GradeLevels: []string{"一年级", "二年级", "三年级", "四年级", "五年级", "六年级"},
		},
		Output: OutputConfig{
			Path:                "database/init_data_scraped.sql",
			Database:            "article_db",
			ArticleStatus:       "PUBLISHED",
			ArticleType:         "NEWS",
			MaxImagesPerArticle: 5,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return defaultConfig()
}
