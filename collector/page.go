package collector

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

// PageMeta is best-effort metadata about the analyzed page.
type PageMeta struct {
	Title   string
	Excerpt string
}

// ExtractPageMeta pulls the title and excerpt out of htmlContent. Failures
// are logged and yield empty metadata.
func ExtractPageMeta(htmlContent string, pageURL *url.URL) PageMeta {
	article, err := readability.FromReader(strings.NewReader(htmlContent), pageURL)
	if err != nil {
		zap.S().Debugw("readability extraction failed", "url", pageURL.String(), "error", err)
		return PageMeta{}
	}
	return PageMeta{
		Title:   strings.TrimSpace(article.Title),
		Excerpt: strings.TrimSpace(article.Excerpt),
	}
}
