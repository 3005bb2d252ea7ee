package investors

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

var byName = bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}

// List handles GET /investors. Only accepted investors are listed.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := bson.M{}
	listfilter.Fixed(string(models.ModerationAccepted)).Apply(f)
	listfilter.Equal(r, f, map[string]string{
		"investor_type": "investor_type",
		"hq_country":    "hq_country",
		"hq_city":       "hq_city",
	})
	listfilter.Search(f, query.Get(r, "search"), "name", "description")

	q, page := shared.ListQuery(r, f, byName)
	rows, total, err := h.investors.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list investors failed", err)
		return
	}
	views, err := h.present.InvestorViews(ctx, rows)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present investors failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, views))
}

// Detail handles GET /investors/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	inv, err := h.investors.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load investor failed", err)
		return
	}
	h.writeView(ctx, w, http.StatusOK, inv)
}

func (h *Handler) writeView(ctx context.Context, w http.ResponseWriter, status int, inv models.Investor) {
	views, err := h.present.InvestorViews(ctx, []models.Investor{inv})
	if err != nil {
		apiutil.ServerError(w, h.Log, "present investor failed", err)
		return
	}
	apiutil.JSON(w, status, views[0])
}

// Portfolio handles GET /investors/{id}/portfolio: the accepted companies
// whose rounds the investor joined, in list shape.
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.investors.GetByID(ctx, id); err != nil {
		shared.StoreError(w, h.Log, "load investor failed", err)
		return
	}
	companies, err := h.present.Portfolio(ctx, id)
	if err != nil {
		apiutil.ServerError(w, h.Log, "load portfolio failed", err)
		return
	}
	items, err := h.present.CompanyList(ctx, companies)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present portfolio failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, items)
}
