package fundingrounds

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	fundingroundstore "github.com/dealroom-et/dealroom/internal/app/store/fundingrounds"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ordering = map[string]string{
	"announced_date":   "announced_date",
	"money_raised_usd": "money_raised_usd",
	"created_at":       "created_at",
}

var newestFirst = bson.D{{Key: "announced_date", Value: -1}, {Key: "_id", Value: -1}}

// List handles GET /funding-rounds. Rounds carry no moderation status of
// their own, so every round is listed.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := bson.M{}
	listfilter.Equal(r, f, map[string]string{"round_type": "round_type"})
	if v := query.Get(r, "company"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apiutil.ValidationFailed(w, "Invalid filter", map[string][]string{
				"company": {"Select a valid choice. That choice is not one of the available choices."},
			})
			return
		}
		f["company_id"] = id
	}
	listfilter.Search(f, query.Get(r, "search"), "notes")

	q, page := shared.ListQuery(r, f, listfilter.Ordering(r, ordering, newestFirst))
	rows, total, err := h.rounds.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list funding rounds failed", err)
		return
	}
	h.writePage(ctx, w, r, page, total, rows)
}

func (h *Handler) writePage(ctx context.Context, w http.ResponseWriter, r *http.Request, page apiutil.PageParams, total int64, rows []models.FundingRound) {
	views, err := h.present.RoundViews(ctx, rows)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present funding rounds failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, views))
}

// Detail handles GET /funding-rounds/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	fr, err := h.rounds.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load funding round failed", err)
		return
	}
	h.writeView(ctx, w, http.StatusOK, fr)
}

func (h *Handler) writeView(ctx context.Context, w http.ResponseWriter, status int, fr models.FundingRound) {
	views, err := h.present.RoundViews(ctx, []models.FundingRound{fr})
	if err != nil {
		apiutil.ServerError(w, h.Log, "present funding round failed", err)
		return
	}
	apiutil.JSON(w, status, views[0])
}

// Recent handles GET /funding-rounds/recent: the newest rounds of accepted
// companies.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, _, err := h.rounds.ListForAccepted(ctx, nil, 0, RecentLimit)
	if err != nil {
		apiutil.ServerError(w, h.Log, "recent funding rounds failed", err)
		return
	}
	views, err := h.present.RoundViews(ctx, rows)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present funding rounds failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, views)
}

// Transactions handles GET /funding-rounds/transactions: rounds of accepted
// companies, optionally narrowed by ?round_type and ?year.
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	f := bson.M{}
	if v := query.Get(r, "round_type"); v != "" {
		f["round_type"] = v
	}
	if v := query.Get(r, "year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1 {
			apiutil.ValidationFailed(w, "Invalid filter", map[string][]string{"year": {"Enter a whole number."}})
			return
		}
		f["announced_date"] = fundingroundstore.YearRange(year)
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	page := apiutil.ReadPage(r)
	rows, total, err := h.rounds.ListForAccepted(ctx, f, page.Skip(), page.Size)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list transactions failed", err)
		return
	}
	h.writePage(ctx, w, r, page, total, rows)
}
