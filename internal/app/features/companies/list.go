package companies

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ordering = map[string]string{
	"name":                     "name",
	"founded_date":             "founded_date",
	"total_funding_raised_usd": "total_funding_raised_usd",
	"created_at":               "created_at",
}

var byName = bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}

// List handles GET /companies.
//
// Without ?moderation_status only accepted companies are listed;
// ?moderation_status=all lists every company.
// TODO(authz): decide whether moderation_status=all should require staff; the
// public behaviour is kept for existing clients.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := bson.M{}
	listfilter.ReadModeration(r, "accepted").Apply(f)
	listfilter.Equal(r, f, map[string]string{
		"status":       "status",
		"company_type": "company_type",
		"hq_country":   "hq_country",
		"hq_city":      "hq_city",
	})
	if v := query.Get(r, "industries"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apiutil.ValidationFailed(w, "Invalid filter", map[string][]string{
				"industries": {"Select a valid choice. That choice is not one of the available choices."},
			})
			return
		}
		f["industry_ids"] = id
	}
	listfilter.Search(f, query.Get(r, "search"), "name", "short_description", "description")

	q, page := shared.ListQuery(r, f, listfilter.Ordering(r, ordering, byName))
	rows, total, err := h.companies.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list companies failed", err)
		return
	}
	items, err := h.present.CompanyList(ctx, rows)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present companies failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, items))
}

// Statistics handles GET /companies/statistics. Failures are reported in the
// error field with zero figures.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	stats, err := h.metrics.CompanyStatistics(ctx)
	if err != nil {
		h.Log.Error("company statistics failed", zap.Error(err))
		stats.Error = err.Error()
	}
	apiutil.JSON(w, http.StatusOK, stats)
}
