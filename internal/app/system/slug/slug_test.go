package slug_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/dealroom-et/dealroom/internal/app/system/slug"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Abyssinia Tech", "abyssinia-tech"},
		{"  Café  Addis!! ", "cafe-addis"},
		{"Series A -- Report", "series-a-report"},
		{"snake_case_name", "snake_case_name"},
		{"!!!", "item"},
		{"", "item"},
	}
	for _, tc := range tests {
		if got := slug.Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := slug.Make(strings.Repeat("a", 300)); len(got) != slug.MaxLen {
		t.Errorf("long slug length = %d", len(got))
	}
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"kifiya": true, "kifiya-1": true}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	got, err := slug.Unique(context.Background(), "kifiya", exists)
	if err != nil {
		t.Fatalf("Unique: %v", err)
	}
	if got != "kifiya-2" {
		t.Errorf("Unique = %q, want kifiya-2", got)
	}

	got, _ = slug.Unique(context.Background(), "gebeya", exists)
	if got != "gebeya" {
		t.Errorf("free slug = %q, want gebeya", got)
	}
}

func TestUnique_PropagatesError(t *testing.T) {
	boom := errors.New("db down")
	_, err := slug.Unique(context.Background(), "x", func(context.Context, string) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestWithRandomSuffix(t *testing.T) {
	re := regexp.MustCompile(`^acme-[0-9a-f]{8}$`)
	a, b := slug.WithRandomSuffix("acme"), slug.WithRandomSuffix("acme")
	if !re.MatchString(a) {
		t.Errorf("unexpected format %q", a)
	}
	if a == b {
		t.Error("suffixes should differ")
	}
}
