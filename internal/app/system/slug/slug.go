// Package slug builds URL slugs and resolves collisions.
package slug

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
)

// MaxLen caps generated slugs before any collision suffix.
const MaxLen = 200

const fallback = "item"

var nonWord = regexp.MustCompile(`[^a-z0-9_]+`)

// ErrExhausted is returned when no free slug was found.
var ErrExhausted = errors.New("slug: no free slug available")

// Make lowercases s, strips diacritics and joins runs of other characters with
// a single hyphen: "Café Addis!" becomes "cafe-addis".
func Make(s string) string {
	out := nonWord.ReplaceAllString(text.Fold(s), "-")
	out = strings.Trim(out, "-_")
	if len(out) > MaxLen {
		out = strings.TrimRight(out[:MaxLen], "-_")
	}
	if out == "" {
		return fallback
	}
	return out
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns base if free, otherwise base-1, base-2, and so on.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for i := 1; i <= 1000; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", ErrExhausted
}

// WithRandomSuffix appends eight random hex characters: "acme-1f3a9c02".
func WithRandomSuffix(base string) string {
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
