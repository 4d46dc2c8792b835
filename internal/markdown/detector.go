// Package markdown tells Markdown sources apart from HTML articles so that
// only HTML reaches the translation pipeline.
package markdown

import (
	"regexp"
	"strings"
)

var (
	headerPattern    = regexp.MustCompile(`^#{1,6}\s+\S`)
	listPattern      = regexp.MustCompile(`(?m)^[\-\*]\s+\S`)
	linkPattern      = regexp.MustCompile(`\[.+?\]\(.+?\)`)
	fencePattern     = regexp.MustCompile("(?m)^```")
	htmlOpenPattern  = regexp.MustCompile(`(?i)^<(?:!doctype|html|head|body)[\s>]`)
	htmlBlockPattern = regexp.MustCompile(`(?i)<(?:article|section|div|p|h[1-6]|ul|ol|table|blockquote|pre)[\s>]`)
)

// IsMarkdownContentType checks if the Content-Type header indicates markdown.
func IsMarkdownContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/markdown") ||
		strings.HasPrefix(ct, "text/x-markdown")
}

// IsHTMLContentType checks if the Content-Type header indicates HTML or XHTML.
func IsHTMLContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml")
}

// IsMarkdownURL checks if the URL indicates a markdown file.
func IsMarkdownURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasSuffix(lower, ".md") ||
		strings.HasSuffix(lower, ".markdown")
}

// IsMarkdownContent uses heuristics to detect if content is markdown.
func IsMarkdownContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || LooksLikeHTML(trimmed) {
		return false
	}

	return headerPattern.MatchString(trimmed) ||
		listPattern.MatchString(trimmed) ||
		linkPattern.MatchString(trimmed) ||
		fencePattern.MatchString(trimmed)
}

// LooksLikeHTML reports whether content is a full HTML page or contains block-level markup.
func LooksLikeHTML(content string) bool {
	trimmed := strings.TrimSpace(content)
	return htmlOpenPattern.MatchString(trimmed) || htmlBlockPattern.MatchString(trimmed)
}

// Detect combines all detection methods to determine if content is markdown.
// Checks in order: Content-Type, URL, then content heuristics.
func Detect(url, contentType, content string) bool {
	if IsMarkdownContentType(contentType) {
		return true
	}
	if IsMarkdownURL(url) {
		return true
	}
	return IsMarkdownContent(content)
}

// IsHTML reports whether a fetched resource should be treated as an HTML article.
// An explicit HTML content type wins; otherwise markdown signals reject it and
// the body must contain HTML markup.
func IsHTML(url, contentType, content string) bool {
	if IsHTMLContentType(contentType) {
		return true
	}
	if Detect(url, contentType, content) {
		return false
	}
	return LooksLikeHTML(content)
}
