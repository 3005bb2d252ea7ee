package content

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	contentstore "github.com/dealroom-et/dealroom/internal/app/store/curatedcontent"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
)

var ordering = map[string]string{
	"published_date": "published_date",
	"order":          "order",
	"title":          "title",
	"created_at":     "created_at",
}

// visible is the base filter for the caller: staff see every item, others
// only accepted ones.
func visible(r *http.Request) bson.M {
	f := bson.M{}
	if !auth.IsStaff(r) {
		listfilter.Fixed(string(models.ModerationAccepted)).Apply(f)
	}
	return f
}

// List handles GET /curated-content.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := visible(r)
	listfilter.Equal(r, f, map[string]string{"content_type": "content_type"})
	switch query.Get(r, "featured") {
	case "true", "True", "1":
		f["featured"] = true
	case "false", "False", "0":
		f["featured"] = false
	}
	listfilter.Search(f, query.Get(r, "search"), "title", "description", "content")

	q, page := shared.ListQuery(r, f, listfilter.Ordering(r, ordering, contentstore.DefaultOrder))
	rows, total, err := h.content.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list content failed", err)
		return
	}
	views, err := h.present.ContentViews(ctx, rows)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present content failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, views))
}

// Detail handles GET /curated-content/{slug}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cc, err := h.content.GetBySlug(ctx, chi.URLParam(r, "slug"), visible(r))
	if err != nil {
		shared.StoreError(w, h.Log, "load content failed", err)
		return
	}
	h.writeView(ctx, w, http.StatusOK, cc)
}

func (h *Handler) writeView(ctx context.Context, w http.ResponseWriter, status int, cc models.CuratedContent) {
	views, err := h.present.ContentViews(ctx, []models.CuratedContent{cc})
	if err != nil {
		apiutil.ServerError(w, h.Log, "present content failed", err)
		return
	}
	apiutil.JSON(w, status, views[0])
}

// Featured handles GET /curated-content/featured.
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := visible(r)
	f["featured"] = true
	rows, _, err := h.content.List(ctx, listfilter.Query{Filter: f, Sort: contentstore.DefaultOrder, Limit: FeaturedLimit})
	if err != nil {
		apiutil.ServerError(w, h.Log, "featured content failed", err)
		return
	}
	views, err := h.present.ContentViews(ctx, rows)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present content failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, views)
}

// TypeGroup is one content type within GET /curated-content/by_type.
type TypeGroup struct {
	Name    string               `json:"name"`
	Content []shared.ContentView `json:"content"`
}

// ByType handles GET /curated-content/by_type. Types without items are
// omitted.
func (h *Handler) ByType(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	out := make(map[models.ContentType]TypeGroup)
	for _, ct := range models.ContentTypes {
		f := visible(r)
		f["content_type"] = ct
		rows, _, err := h.content.List(ctx, listfilter.Query{Filter: f, Sort: contentstore.DefaultOrder, Limit: PerTypeLimit})
		if err != nil {
			apiutil.ServerError(w, h.Log, "content by type failed", err)
			return
		}
		if len(rows) == 0 {
			continue
		}
		views, err := h.present.ContentViews(ctx, rows)
		if err != nil {
			apiutil.ServerError(w, h.Log, "present content failed", err)
			return
		}
		out[ct] = TypeGroup{Name: ct.Label(), Content: views}
	}
	apiutil.JSON(w, http.StatusOK, out)
}
