package scraper

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// stripTags removes markup, leaving text content.
func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// collapseSpace turns non-breaking spaces and whitespace runs into single spaces.
func collapseSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// cleanText strips markup, decodes entities and collapses whitespace.
func cleanText(s string) string {
	return collapseSpace(html.UnescapeString(stripTags(s)))
}
