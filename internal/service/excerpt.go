package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/inkpost/internal/constants"
)

var markupTag = regexp.MustCompile(`<[^>]*>`)

// GenerateExcerpt 去除标签后截取摘要，超长时在单词边界截断并追加省略号
func GenerateExcerpt(content string) string {
	text := []rune(markupTag.ReplaceAllString(content, ""))
	limit := constants.PostExcerptMaxLength
	if len(text) <= limit {
		return string(text)
	}

	cut := limit
	for i := limit; i > 0; i-- {
		if text[i] == ' ' {
			cut = i
			break
		}
	}
	trimmed := strings.TrimRightFunc(string(text[:cut]), unicode.IsSpace)
	return trimmed + constants.PostExcerptEllipsis
}
