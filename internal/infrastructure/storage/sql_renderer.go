package storage

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/cespare/xxhash/v2"

	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/domain"
	"ArticleSeeder/internal/ports"
)

const (
	categoriesTable    = "categories"
	articlesTable      = "articles"
	articleImagesTable = "article_images"

	fallbackCategoryID = 1
	firstArticleID     = 1
	viewCountModulus   = 1000
)

var sqlEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
)

// EscapeString escapes backslash, single quote, newline and carriage return for a MySQL string literal.
// The replacement is a single pass, so an inserted backslash is never escaped twice.
func EscapeString(s string) string {
	return sqlEscaper.Replace(s)
}

func quoted(s string) sq.Sqlizer {
	return sq.Expr("'" + EscapeString(s) + "'")
}

func literal(v int) sq.Sqlizer {
	return sq.Expr(strconv.Itoa(v))
}

// ViewCount derives a stable pseudo-random view counter from the article source URL.
func ViewCount(sourceURL string) int {
	return int(xxhash.Sum64String(sourceURL) % viewCountModulus)
}

// SQLRenderer renders datasets as batched INSERT statements.
// Rendered ids assume empty destination tables whose auto-increment starts at 1.
type SQLRenderer struct {
	siteName      string
	database      string
	status        string
	articleType   string
	imagesPerPost int
}

var _ ports.SeedRenderer = (*SQLRenderer)(nil)

// NewSQLRenderer builds a renderer from output settings.
func NewSQLRenderer(site config.SiteConfig, cfg config.OutputConfig) *SQLRenderer {
	return &SQLRenderer{
		siteName:      site.Name,
		database:      cfg.Database,
		status:        cfg.ArticleStatus,
		articleType:   cfg.ArticleType,
		imagesPerPost: cfg.MaxImagesPerArticle,
	}
}

// Render emits the header, categories, articles and article images sections.
func (r *SQLRenderer) Render(dataset domain.Dataset) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "-- 从 %s 抓取的初始数据\n", r.siteName)
	b.WriteString("-- 前提: categories、articles、article_images 表为空, 自增 ID 从 1 开始\n\n")
	if r.database != "" {
		fmt.Fprintf(&b, "USE %s;\n\n", r.database)
	}

	b.WriteString("-- 插入分类数据\n")
	if dataset.Categories.Len() == 0 {
		b.WriteString("-- 未找到分类数据\n\n")
	} else {
		stmt, err := r.categoriesInsert(dataset.Categories)
		if err != nil {
			return "", fmt.Errorf("render categories: %w", err)
		}
		writeStatement(&b, stmt)
	}

	if len(dataset.Articles) == 0 {
		b.WriteString("-- 未找到文章数据\n")
		return b.String(), nil
	}

	b.WriteString("-- 插入文章数据\n")
	stmt, err := r.articlesInsert(dataset)
	if err != nil {
		return "", fmt.Errorf("render articles: %w", err)
	}
	writeStatement(&b, stmt)

	b.WriteString("-- 插入文章图片数据\n")
	images, rows := r.imagesInsert(dataset.Articles)
	if rows == 0 {
		b.WriteString("-- 未找到文章图片数据\n")
		return b.String(), nil
	}
	stmt, _, err = images.ToSql()
	if err != nil {
		return "", fmt.Errorf("render article images: %w", err)
	}
	writeStatement(&b, stmt)

	return b.String(), nil
}

func (r *SQLRenderer) categoriesInsert(categories domain.Taxonomy) (string, error) {
	q := sq.Insert(categoriesTable).Columns("name", "description")
	for _, c := range categories.All() {
		q = q.Values(quoted(c.Name), quoted(c.Description))
	}
	stmt, _, err := q.ToSql()
	return stmt, err
}

func (r *SQLRenderer) articlesInsert(dataset domain.Dataset) (string, error) {
	q := sq.Insert(articlesTable).
		Columns("title", "content", "cover_image", "category_id", "status", "article_type", "view_count")
	for _, a := range dataset.Articles {
		var cover sq.Sqlizer = sq.Expr("NULL")
		if a.HasCover() {
			cover = quoted(a.CoverImage)
		}
		q = q.Values(
			quoted(a.Title),
			quoted(a.Content),
			cover,
			literal(dataset.Categories.IDOf(a.CategoryName, fallbackCategoryID)),
			quoted(r.status),
			quoted(r.articleType),
			literal(ViewCount(a.URL)),
		)
	}
	stmt, _, err := q.ToSql()
	return stmt, err
}

// imagesInsert assigns article ids by position, matching the order articles were inserted.
func (r *SQLRenderer) imagesInsert(articles []domain.Article) (sq.InsertBuilder, int) {
	q := sq.Insert(articleImagesTable).Columns("article_id", "image_url")
	rows := 0
	for idx, a := range articles {
		images := a.Images
		if r.imagesPerPost > 0 && len(images) > r.imagesPerPost {
			images = images[:r.imagesPerPost]
		}
		for _, img := range images {
			q = q.Values(literal(firstArticleID+idx), quoted(img))
			rows++
		}
	}
	return q, rows
}

func writeStatement(b *strings.Builder, stmt string) {
	b.WriteString(stmt)
	b.WriteString(";\n\n")
}
