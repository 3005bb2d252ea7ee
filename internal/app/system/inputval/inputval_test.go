package inputval

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"founder@startup.et", true},
		{"admin@mailserver", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{".user@example.com", false},
		{"user.@example.com", false},
		{"user..name@example.com", false},
		{"user@.example.com", false},
		{"user@example..com", false},
		{"a@b@c.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
		{"user@exam ple.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://dealroom.et", true},
		{"http://example.com/path?q=1", true},
		{"ftp://example.com", false},
		{"example.com", false},
		{"https://", false},
		{"::not a url", false},
	}
	for _, tt := range tests {
		if got := IsValidURL(tt.in); got != tt.want {
			t.Errorf("IsValidURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrors(t *testing.T) {
	e := Errors{}
	e.Required("name", "  ")
	e.MinLen("message", "short", 10, "Message must be at least 10 characters long.")
	e.MinLen("other", "exactly10!", 10, "too short")
	e.Email("email", "nope")
	e.Email("optional_email", "")
	e.MaxLen("title", strings.Repeat("x", 6), 5)
	e.Choice("kind", "planet", false)

	if !e.HasErrors() {
		t.Fatal("expected errors")
	}
	for _, f := range []string{"name", "message", "email", "title", "kind"} {
		if len(e[f]) != 1 {
			t.Errorf("field %q: got %v", f, e[f])
		}
	}
	for _, f := range []string{"other", "optional_email"} {
		if _, ok := e[f]; ok {
			t.Errorf("field %q should be valid", f)
		}
	}
	if e["title"][0] != "Ensure this field has no more than 5 characters." {
		t.Errorf("title msg = %q", e["title"][0])
	}

	other := Errors{"name": {"again"}}
	e.Merge(other)
	if len(e["name"]) != 2 {
		t.Errorf("merge: %v", e["name"])
	}
}
