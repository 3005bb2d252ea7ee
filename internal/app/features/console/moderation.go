package console

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dalemusser/waffle/pantry/templates"
	companystore "github.com/dealroom-et/dealroom/internal/app/store/companies"
	contentstore "github.com/dealroom-et/dealroom/internal/app/store/curatedcontent"
	ecoregstore "github.com/dealroom-et/dealroom/internal/app/store/ecoregistrations"
	industrystore "github.com/dealroom-et/dealroom/internal/app/store/industries"
	investorstore "github.com/dealroom-et/dealroom/internal/app/store/investors"
	personstore "github.com/dealroom-et/dealroom/internal/app/store/people"
	supportorgstore "github.com/dealroom-et/dealroom/internal/app/store/supportorgs"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const queuePageSize = 20

type pendingItem struct {
	ID   string
	Name string
	Slug string
}

// queue is one moderated collection as seen by the console.
type queue struct {
	Key   string
	Label string

	pending func(ctx context.Context, limit int64) ([]pendingItem, int64, error)
	set     func(ctx context.Context, id primitive.ObjectID, to models.ModerationStatus) (models.ModerationStatus, error)
}

func pendingQuery(limit int64) listfilter.Query {
	return listfilter.Query{
		Filter: bson.M{"moderation_status": models.ModerationPending},
		Sort:   bson.D{{Key: "_id", Value: -1}},
		Limit:  limit,
	}
}

// listed adapts a store List method to the queue's pending reader.
func listed[T any](list func(context.Context, listfilter.Query) ([]T, int64, error), item func(T) pendingItem) func(context.Context, int64) ([]pendingItem, int64, error) {
	return func(ctx context.Context, limit int64) ([]pendingItem, int64, error) {
		rows, total, err := list(ctx, pendingQuery(limit))
		if err != nil {
			return nil, 0, err
		}
		out := make([]pendingItem, 0, len(rows))
		for _, row := range rows {
			out = append(out, item(row))
		}
		return out, total, nil
	}
}

func moderationQueues(db *mongo.Database) []queue {
	companies := companystore.New(db)
	industries := industrystore.New(db)
	people := personstore.New(db)
	investors := investorstore.New(db)
	content := contentstore.New(db)
	builders := ecoregstore.New(db)

	qs := []queue{
		{Key: "companies", Label: "Companies", set: companies.SetModeration,
			pending: listed(companies.List, func(c models.Company) pendingItem {
				return pendingItem{ID: c.ID.Hex(), Name: c.Name, Slug: c.Slug}
			})},
		{Key: "industries", Label: "Industries", set: industries.SetModeration,
			pending: listed(industries.List, func(i models.Industry) pendingItem {
				return pendingItem{ID: i.ID.Hex(), Name: i.Name, Slug: i.Slug}
			})},
		{Key: "people", Label: "People", set: people.SetModeration,
			pending: listed(people.List, func(p models.Person) pendingItem {
				return pendingItem{ID: p.ID.Hex(), Name: p.FullName, Slug: p.Slug}
			})},
		{Key: "investors", Label: "Investors", set: investors.SetModeration,
			pending: listed(investors.List, func(i models.Investor) pendingItem {
				return pendingItem{ID: i.ID.Hex(), Name: i.Name, Slug: i.Slug}
			})},
		{Key: "curated_content", Label: "Curated content", set: content.SetModeration,
			pending: listed(content.List, func(c models.CuratedContent) pendingItem {
				return pendingItem{ID: c.ID.Hex(), Name: c.Title, Slug: c.Slug}
			})},
	}
	for _, kind := range models.SupportOrgKinds {
		orgs := supportorgstore.New(db, kind)
		qs = append(qs, queue{Key: kind.Collection(), Label: kind.Label(), set: orgs.SetModeration,
			pending: listed(orgs.List, func(o models.SupportOrg) pendingItem {
				return pendingItem{ID: o.ID.Hex(), Name: o.Name}
			})})
	}
	qs = append(qs, queue{Key: "ecosystem_builder_registrations", Label: "Ecosystem builder registrations", set: builders.SetModeration,
		pending: listed(builders.List, func(b models.EcosystemBuilderRegistration) pendingItem {
			return pendingItem{ID: b.ID.Hex(), Name: b.OrgName}
		})})
	return qs
}

func (h *Handler) queue(key string) (queue, bool) {
	for _, q := range h.queues {
		if q.Key == key {
			return q, true
		}
	}
	return queue{}, false
}

type queueVM struct {
	Key   string
	Label string
	Items []pendingItem
	Total int64
	Error bool
}

type moderationVM struct {
	baseVM
	Queues  []queueVM
	Pending int64
}

// ServeModeration handles GET /admin/moderation: the pending records of
// every moderated collection. A collection that fails to load is flagged
// and the rest of the page still renders.
func (h *Handler) ServeModeration(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	vm := moderationVM{baseVM: h.base(r, "Moderation queue")}
	for _, q := range h.queues {
		items, total, err := q.pending(ctx, queuePageSize)
		qv := queueVM{Key: q.Key, Label: q.Label, Items: items, Total: total}
		if err != nil {
			h.Log.Warn("moderation queue failed", zap.String("collection", q.Key), zap.Error(err))
			qv.Error = true
		}
		vm.Pending += total
		vm.Queues = append(vm.Queues, qv)
	}
	templates.Render(w, r, "console_moderation", vm)
}

// HandleModerate handles POST /admin/moderation/{collection}/{id} with a
// "status" form field of pending, accepted or rejected.
func (h *Handler) HandleModerate(w http.ResponseWriter, r *http.Request) {
	q, ok := h.queue(chi.URLParam(r, "collection"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	to := models.ModerationStatus(r.PostFormValue("status"))
	if !to.Valid() {
		http.Error(w, "Unknown moderation status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	before, err := q.set(ctx, id, to)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.NotFound(w, r)
			return
		}
		h.Log.Error("console moderation failed", zap.String("collection", q.Key), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.Audit.ModerationChanged(ctx, r, q.Key, id.Hex(), string(before), string(to))

	notice := q.Label + ": record marked " + to.Label() + "."
	http.Redirect(w, r, "/admin/moderation?"+url.Values{"notice": {notice}}.Encode(), http.StatusSeeOther)
}
