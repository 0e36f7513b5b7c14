package storage

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/domain"
)

func newTestRenderer() *SQLRenderer {
	cfg := config.Default()
	return NewSQLRenderer(cfg.Site, cfg.Output)
}

// unescape reverses EscapeString for verification.
func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func TestEscapeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `It\'s\na \\ test\r`, EscapeString("It's\na \\ test\r"))
	assert.Equal(t, `\\n`, EscapeString(`\n`))
	assert.Equal(t, `\\\'`, EscapeString(`\'`))
	assert.Empty(t, EscapeString(""))
}

func TestEscapeStringRoundTrip(t *testing.T) {
	t.Parallel()

	alphabet := []string{`\`, `'`, "\n", "\r", "a", "中", "n", "r"}
	rng := rand.New(rand.NewSource(42))
	for range 500 {
		var b strings.Builder
		for range rng.Intn(20) {
			b.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		original := b.String()
		escaped := EscapeString(original)

		assert.Equal(t, original, unescape(escaped))
		assert.NotContains(t, escaped, "\n")
		assert.NotContains(t, escaped, "\r")
	}
}

func TestViewCount(t *testing.T) {
	t.Parallel()

	u := "http://www.xiaoxuewang.cn/a/1.html"
	assert.Equal(t, ViewCount(u), ViewCount(u))
	for i := range 100 {
		v := ViewCount(fmt.Sprintf("http://www.xiaoxuewang.cn/a/%d.html", i))
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 1000)
	}
}

func TestRenderWithoutArticles(t *testing.T) {
	t.Parallel()

	ds := domain.Dataset{Categories: domain.NewTaxonomy(map[string]string{"语文": "c", "数学": "m"})}
	out, err := newTestRenderer().Render(ds)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "-- 从 xiaoxuewang.cn 抓取的初始数据\n"))
	assert.Contains(t, out, "USE article_db;\n")
	assert.True(t, strings.HasSuffix(out,
		"INSERT INTO categories (name,description) VALUES ('数学','m'),('语文','c');\n\n-- 未找到文章数据\n"))
	assert.NotContains(t, out, "INSERT INTO articles")
	assert.NotContains(t, out, "INSERT INTO article_images")
}

func TestRenderWithoutCategories(t *testing.T) {
	t.Parallel()

	out, err := newTestRenderer().Render(domain.Dataset{})
	require.NoError(t, err)
	assert.NotContains(t, out, "INSERT INTO categories")
	assert.Contains(t, out, "-- 未找到分类数据\n")
	assert.Contains(t, out, "-- 未找到文章数据\n")
}

func TestRenderArticleWithoutImages(t *testing.T) {
	t.Parallel()

	u := "http://www.xiaoxuewang.cn/a/1.html"
	ds := domain.Dataset{
		Categories: domain.NewTaxonomy(map[string]string{"数学": "m", "语文": "c"}),
		Articles: []domain.Article{{
			Title:        "老师's 课堂",
			Content:      "第一行\n第二行",
			CategoryName: "语文",
			URL:          u,
		}},
	}

	out, err := newTestRenderer().Render(ds)
	require.NoError(t, err)

	wantRow := fmt.Sprintf(`('老师\'s 课堂','第一行\n第二行',NULL,2,'PUBLISHED','NEWS',%d)`, ViewCount(u))
	assert.Contains(t, out,
		"INSERT INTO articles (title,content,cover_image,category_id,status,article_type,view_count) VALUES "+wantRow+";\n")
	assert.NotContains(t, out, "INSERT INTO article_images")
	assert.True(t, strings.HasSuffix(out, "-- 插入文章图片数据\n-- 未找到文章图片数据\n"))
}

func TestRenderArticleImages(t *testing.T) {
	t.Parallel()

	images := make([]string, 7)
	for i := range images {
		images[i] = fmt.Sprintf("http://www.xiaoxuewang.cn/img/%d.jpg", i)
	}
	ds := domain.Dataset{
		Categories: domain.NewTaxonomy(map[string]string{"数学": "m"}),
		Articles: []domain.Article{
			{Title: "甲", CoverImage: images[0], Images: images, CategoryName: "数学", URL: "u1"},
			{Title: "乙", CategoryName: "数学", URL: "u2"},
			{Title: "丙", CoverImage: "http://x/c.jpg", Images: []string{"http://x/c.jpg"}, CategoryName: "未知", URL: "u3"},
		},
	}

	out, err := newTestRenderer().Render(ds)
	require.NoError(t, err)

	assert.Contains(t, out, fmt.Sprintf("('甲','','http://www.xiaoxuewang.cn/img/0.jpg',1,'PUBLISHED','NEWS',%d)", ViewCount("u1")))
	assert.Contains(t, out, fmt.Sprintf("('丙','','http://x/c.jpg',1,'PUBLISHED','NEWS',%d)", ViewCount("u3")))

	var rows []string
	for i := range 5 {
		rows = append(rows, fmt.Sprintf("(1,'http://www.xiaoxuewang.cn/img/%d.jpg')", i))
	}
	rows = append(rows, "(3,'http://x/c.jpg')")
	assert.True(t, strings.HasSuffix(out,
		"INSERT INTO article_images (article_id,image_url) VALUES "+strings.Join(rows, ",")+";\n\n"))
	assert.NotContains(t, out, "img/5.jpg')")
}
