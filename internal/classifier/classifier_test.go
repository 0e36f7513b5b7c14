package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/domain"
)

func fullTaxonomy() domain.Taxonomy {
	descriptions := map[string]string{}
	for _, d := range config.Default().Taxonomy.Defaults {
		descriptions[d.Name] = d.Description
	}
	return domain.NewTaxonomy(descriptions)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	c := New(config.Default().Classification)
	full := fullTaxonomy()
	gradesOnly := domain.NewTaxonomy(map[string]string{"三年级": "", "五年级": ""})
	other := domain.NewTaxonomy(map[string]string{"作文": "", "阅读": ""})

	tests := []struct {
		name       string
		url        string
		title      string
		categories domain.Taxonomy
		want       string
	}{
		{"math by url", "http://www.xiaoxuewang.cn/kc/2/sx/1.html", "三年级数学练习", full, "数学"},
		{"math by title", "http://www.xiaoxuewang.cn/a/1.html", "数学口算题", full, "数学"},
		{"english by url", "http://www.xiaoxuewang.cn/kc/3/YY/1.html", "单词表", full, "英语"},
		{"chinese by title", "http://www.xiaoxuewang.cn/a/1.html", "语文阅读", full, "语文"},
		{"default subject", "http://www.xiaoxuewang.cn/a/1.html", "春游作文", full, "语文"},
		{"math outranks english", "http://www.xiaoxuewang.cn/kc/3/yy/1.html", "数学英语双语", full, "数学"},
		{"grade fallback", "http://www.xiaoxuewang.cn/sx/1.html", "五年级期末三年级复习", gradesOnly, "三年级"},
		{"first category fallback", "http://www.xiaoxuewang.cn/a/1.html", "春游", other, "作文"},
		{"empty taxonomy", "http://www.xiaoxuewang.cn/sx/1.html", "三年级", domain.Taxonomy{}, "语文"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(domain.ArticleLink{URL: tc.url, Title: tc.title}, tc.title, tc.categories)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	t.Parallel()

	c := New(config.Default().Classification)
	full := fullTaxonomy()
	link := domain.ArticleLink{URL: "http://www.xiaoxuewang.cn/kc/1/yw/9.html", Title: "一年级识字"}

	want := c.Classify(link, link.Title, full)
	for range 10 {
		assert.Equal(t, want, c.Classify(link, link.Title, full))
	}
	assert.Equal(t, 9, full.Len())
}

func TestNewCopiesRules(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Classification
	c := New(cfg)
	cfg.Rules[0].Category = "mutated"

	got := c.Classify(domain.ArticleLink{URL: "http://x.cn/sx/"}, "", fullTaxonomy())
	assert.Equal(t, "数学", got)
}
