package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/sanitize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// SetText copies a sanitized *src into *dst when src is present.
func SetText(dst *string, src *string) {
	if src != nil {
		*dst = sanitize.Text(*src)
	}
}

// SetDate parses *src into *dst when src is present. An empty string clears
// the date.
func SetDate(errs inputval.Errors, field string, dst **time.Time, src *string) {
	if src == nil {
		return
	}
	if *src == "" {
		*dst = nil
		return
	}
	d, err := time.Parse(DateLayout, *src)
	if err != nil {
		errs.Add(field, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		return
	}
	*dst = &d
}

// SetURL validates and copies a URL field.
func SetURL(errs inputval.Errors, field string, dst *string, src *string) {
	if src == nil {
		return
	}
	if errs.URL(field, *src) {
		*dst = *src
	}
}

// SetEmail validates and copies an email field.
func SetEmail(errs inputval.Errors, field string, dst *string, src *string) {
	if src == nil {
		return
	}
	if errs.Email(field, *src) {
		*dst = *src
	}
}

// ResolveIDs parses hex ids and checks that every one exists. It returns
// false when a validation error was recorded; err reports lookup failures.
func ResolveIDs[T any](ctx context.Context, errs inputval.Errors, field string, hex []string, load func(context.Context, []primitive.ObjectID) ([]T, error)) ([]primitive.ObjectID, bool, error) {
	ids := apiutil.ParseIDs(field, hex, errs)
	if ids == nil {
		return nil, false, nil
	}
	if len(ids) == 0 {
		return ids, true, nil
	}
	found, err := load(ctx, ids)
	if err != nil {
		return nil, false, err
	}
	uniq := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		uniq[id] = true
	}
	if len(found) != len(uniq) {
		errs.Add(field, fmt.Sprintf("Invalid pk - one or more of %d objects does not exist.", len(uniq)))
		return nil, false, nil
	}
	return ids, true, nil
}
