// Package htmlsanitize cleans user-submitted text before it is stored or
// rendered. Project descriptions may carry limited formatting; report
// reasons and names are treated as plain text.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows basic formatting for project descriptions.
	ugc = bluemonday.UGCPolicy()

	// strict strips every tag; used for names and report reasons.
	strict = bluemonday.StrictPolicy()
)

// Sanitize returns s with disallowed tags and attributes removed,
// keeping basic user-generated formatting (paragraphs, lists, links).
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// SanitizeToHTML sanitizes s and marks the result safe for templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// StripTags removes all markup, returning plain text.
func StripTags(s string) string {
	return strict.Sanitize(s)
}

// IsPlainText reports whether s contains no markup. A lone < or > does
// not count as markup.
func IsPlainText(s string) bool {
	lt := strings.Index(s, "<")
	if lt < 0 {
		return true
	}
	return !strings.Contains(s[lt:], ">")
}

// PlainTextToHTML escapes s and converts newlines to <br> inside a
// single paragraph.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// PrepareForDisplay renders stored text for templates: plain text is
// escaped and paragraph-wrapped, anything with markup is sanitized.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
