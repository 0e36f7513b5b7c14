package domain

// UntitledArticle replaces empty titles before an article is stored.
const UntitledArticle = "未命名文章"

// ArticleLink is a candidate article discovered on a listing page.
type ArticleLink struct {
	URL   string
	Title string
}

// ArticleDetail is what a detail page yields after extraction.
type ArticleDetail struct {
	Title      string
	Content    string
	Images     []string
	CoverImage string
}

// Article is a fully extracted and classified entry ready for rendering.
type Article struct {
	Title        string
	Content      string
	CoverImage   string
	Images       []string
	CategoryName string
	URL          string
}

// HasCover reports whether a cover image was found.
func (a Article) HasCover() bool {
	return a.CoverImage != ""
}

// Dataset is the immutable result of a crawl handed to the renderer.
type Dataset struct {
	Categories Taxonomy
	Articles   []Article
}
