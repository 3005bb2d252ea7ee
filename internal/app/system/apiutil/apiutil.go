// Package apiutil writes the JSON envelopes shared by every API handler.
package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxBodyBytes bounds decoded request bodies.
const MaxBodyBytes = 1 << 20

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Detail writes {"detail": msg}.
func Detail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"detail": msg})
}

func NotFound(w http.ResponseWriter) {
	Detail(w, http.StatusNotFound, "Not found.")
}

// ValidationFailed writes a 400 with field-level messages.
func ValidationFailed(w http.ResponseWriter, msg string, errs inputval.Errors) {
	if msg == "" {
		msg = "Validation failed"
	}
	JSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"message": msg,
		"errors":  errs,
	})
}

// ServerError logs err and writes a generic 500.
func ServerError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err))
	Detail(w, http.StatusInternalServerError, "A server error occurred.")
}

// Decode reads a JSON body into dst. Unknown fields are ignored.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}

// DecodeOrReject decodes the body and writes a 400 on failure.
func DecodeOrReject(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := Decode(w, r, dst); err != nil {
		Detail(w, http.StatusBadRequest, fmt.Sprintf("JSON parse error - %v", err))
		return false
	}
	return true
}

// ObjectID parses the named chi URL parameter as an ObjectID.
func ObjectID(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	return id, err == nil
}

// ParseIDs converts hex ids, reporting the first invalid one under field.
func ParseIDs(field string, hex []string, errs inputval.Errors) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(hex))
	for _, h := range hex {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			errs.Add(field, fmt.Sprintf(`Invalid pk "%s" - object does not exist.`, h))
			return nil
		}
		out = append(out, id)
	}
	return out
}

// Page is the paginated list envelope.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams reads ?page and ?page_size.
type PageParams struct {
	Page int64
	Size int64
}

func (p PageParams) Skip() int64 { return (p.Page - 1) * p.Size }

func ReadPage(r *http.Request) PageParams {
	p := PageParams{Page: 1, Size: DefaultPageSize}
	if n, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 64); err == nil && n > 0 {
		p.Size = min(n, MaxPageSize)
	}
	return p
}

// NewPage builds the envelope with absolute next/previous links.
func NewPage[T any](r *http.Request, p PageParams, total int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	out := Page[T]{Count: total, Results: results}
	if p.Page*p.Size < total {
		s := pageURL(r, p.Page+1)
		out.Next = &s
	}
	if p.Page > 1 {
		s := pageURL(r, p.Page-1)
		out.Previous = &s
	}
	return out
}

func pageURL(r *http.Request, page int64) string {
	u := url.URL{Scheme: "http", Host: r.Host, Path: r.URL.Path}
	if r.TLS != nil {
		u.Scheme = "https"
	}
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.FormatInt(page, 10))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
