package htmlsanitize_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/system/htmlsanitize"
)

func TestSanitize_RemovesScript(t *testing.T) {
	got := htmlsanitize.Sanitize("<p>Hello</p><script>alert('xss')</script>")
	if got != "<p>Hello</p>" {
		t.Errorf("Sanitize: got %q", got)
	}
}

func TestSanitize_KeepsFormatting(t *testing.T) {
	in := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Sanitize(in); got != in {
		t.Errorf("Sanitize: got %q, want unchanged", got)
	}
}

func TestSanitize_RemovesEventHandlers(t *testing.T) {
	got := htmlsanitize.Sanitize(`<img src="x" onerror="alert('xss')">`)
	if strings.Contains(got, "onerror") {
		t.Errorf("Sanitize: onerror survived: %q", got)
	}
}

func TestStripTags(t *testing.T) {
	got := htmlsanitize.StripTags("<b>No chairs</b> at the <i>park</i> cleanup")
	if got != "No chairs at the park cleanup" {
		t.Errorf("StripTags: got %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"Hello, World!", true},
		{"5 < 10", true},
		{"5 > 3", true},
		{"<p>Hello</p>", false},
	}
	for _, tt := range tests {
		if got := htmlsanitize.IsPlainText(tt.in); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	got := htmlsanitize.PlainTextToHTML("Line 1\nLine 2")
	if got != "<p>Line 1<br>Line 2</p>" {
		t.Errorf("PlainTextToHTML: got %q", got)
	}
	if got := htmlsanitize.PlainTextToHTML("A & B"); got != "<p>A &amp; B</p>" {
		t.Errorf("PlainTextToHTML: got %q", got)
	}
}

func TestPrepareForDisplay(t *testing.T) {
	if got := htmlsanitize.PrepareForDisplay("plain words"); got != template.HTML("<p>plain words</p>") {
		t.Errorf("PrepareForDisplay plain: got %q", got)
	}
	if got := htmlsanitize.PrepareForDisplay("<p>Hi</p><script>x()</script>"); got != template.HTML("<p>Hi</p>") {
		t.Errorf("PrepareForDisplay html: got %q", got)
	}
}
