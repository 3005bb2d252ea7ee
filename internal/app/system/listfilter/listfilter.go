// Package listfilter turns list query parameters into Mongo filters.
package listfilter

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// All is the moderation_status value that disables the moderation filter.
const All = "all"

// Moderation is the parsed ?moderation_status parameter.
type Moderation struct {
	Status string
	All    bool
}

// ReadModeration reads ?moderation_status, falling back to def.
func ReadModeration(r *http.Request, def string) Moderation {
	v := strings.TrimSpace(query.Get(r, "moderation_status"))
	if v == "" {
		v = def
	}
	if v == All {
		return Moderation{All: true}
	}
	return Moderation{Status: v}
}

// Fixed returns a filter pinned to status, ignoring any query parameter.
func Fixed(status string) Moderation { return Moderation{Status: status} }

// Apply adds the moderation condition to f.
func (m Moderation) Apply(f bson.M) {
	if !m.All {
		f["moderation_status"] = m.Status
	}
}

// Search adds a case-insensitive substring match over fields.
func Search(f bson.M, term string, fields ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return
	}
	re := bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
	or := bson.A{}
	for _, field := range fields {
		or = append(or, bson.M{field: re})
	}
	f["$or"] = or
}

// Equal copies each named parameter, when present, into f under its field.
func Equal(r *http.Request, f bson.M, params map[string]string) {
	for param, field := range params {
		if v := strings.TrimSpace(query.Get(r, param)); v != "" {
			f[field] = v
		}
	}
}

// Ordering maps ?ordering=name or ?ordering=-name to a sort document. Only
// parameters listed in allowed are honoured; otherwise def is returned.
func Ordering(r *http.Request, allowed map[string]string, def bson.D) bson.D {
	raw := strings.TrimSpace(query.Get(r, "ordering"))
	if raw == "" {
		return def
	}
	var out bson.D
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		dir := 1
		if strings.HasPrefix(part, "-") {
			dir = -1
			part = part[1:]
		}
		if field, ok := allowed[part]; ok {
			out = append(out, bson.E{Key: field, Value: dir})
		}
	}
	if len(out) == 0 {
		return def
	}
	return append(out, bson.E{Key: "_id", Value: 1})
}

// Query is a resolved list request handed to a store.
type Query struct {
	Filter bson.M
	Sort   bson.D
	Skip   int64
	Limit  int64
}

// FindOptions converts q into driver options.
func (q Query) FindOptions() *options.FindOptions {
	o := options.Find()
	if len(q.Sort) > 0 {
		o.SetSort(q.Sort)
	}
	if q.Skip > 0 {
		o.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		o.SetLimit(q.Limit)
	}
	return o
}

// Where returns q.Filter, never nil.
func (q Query) Where() bson.M {
	if q.Filter == nil {
		return bson.M{}
	}
	return q.Filter
}
