package sanitize_test

import (
	"strings"
	"testing"

	"github.com/dealroom-et/dealroom/internal/app/system/sanitize"
)

func TestText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"plain", "  Hello there  ", "Hello there"},
		{"ampersand survives", "Research & Development", "Research & Development"},
		{"less than survives", "a < b", "a < b"},
		{"tags stripped", "<b>Addis</b> Ababa", "Addis Ababa"},
		{"script removed", "hi<script>alert(1)</script>", "hi"},
		{"escaped script removed", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"escaped tags stripped", "&lt;b&gt;Addis&lt;/b&gt; Ababa", "Addis Ababa"},
		{"double escaped script removed", "&amp;lt;script&amp;gt;x&amp;lt;/script&amp;gt;", ""},
		{"entity in text decoded", "Fish &amp; Chips", "Fish & Chips"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitize.Text(tc.in); got != tc.want {
				t.Errorf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestText_NeverEmitsTags(t *testing.T) {
	inputs := []string{
		"&lt;img src=x onerror=alert(1)&gt;",
		"&amp;lt;a href=&amp;quot;javascript:x&amp;quot;&amp;gt;go",
		"&amp;amp;amp;amp;amp;lt;b&amp;amp;amp;amp;amp;gt;",
		"<<script>script>alert(1)<</script>/script>",
	}
	for _, in := range inputs {
		got := sanitize.Text(in)
		if strings.Contains(got, "<") && strings.Contains(got, ">") {
			t.Errorf("Text(%q) = %q, still carries markup", in, got)
		}
	}
}

func TestHTML(t *testing.T) {
	in := `<p><strong>Bold</strong> <a href="https://example.et" onclick="x()">link</a></p><script>alert(1)</script>`
	got := sanitize.HTML(in)
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Errorf("active content kept: %q", got)
	}
	if !strings.Contains(got, "<strong>Bold</strong>") {
		t.Errorf("safe markup dropped: %q", got)
	}
}

func TestStrings(t *testing.T) {
	got := sanitize.Strings([]string{" Fintech ", "", "<i></i>", "Agritech"})
	if len(got) != 2 || got[0] != "Fintech" || got[1] != "Agritech" {
		t.Errorf("Strings = %v", got)
	}
}
