package industries

import (
	"context"
	"net/http"
	"sort"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var byName = bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}

// List handles GET /industries. Only accepted industries are listed.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := bson.M{}
	listfilter.Fixed(string(models.ModerationAccepted)).Apply(f)
	listfilter.Search(f, query.Get(r, "search"), "name", "description")

	q, page := shared.ListQuery(r, f, byName)
	rows, total, err := h.industries.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list industries failed", err)
		return
	}
	views, err := h.present.IndustryViews(ctx, rows)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present industries failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, views))
}

// Detail handles GET /industries/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ind, err := h.industries.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load industry failed", err)
		return
	}
	h.writeView(ctx, w, http.StatusOK, ind)
}

func (h *Handler) writeView(ctx context.Context, w http.ResponseWriter, status int, ind models.Industry) {
	views, err := h.present.IndustryViews(ctx, []models.Industry{ind})
	if err != nil {
		apiutil.ServerError(w, h.Log, "present industry failed", err)
		return
	}
	apiutil.JSON(w, status, views[0])
}

// Companies handles GET /industries/{id}/companies: the accepted companies
// tagged with the industry, in list shape.
func (h *Handler) Companies(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.industries.GetByID(ctx, id); err != nil {
		shared.StoreError(w, h.Log, "load industry failed", err)
		return
	}
	q := listfilter.Query{
		Filter: bson.M{"industry_ids": id, "moderation_status": models.ModerationAccepted},
		Sort:   byName,
	}
	rows, _, err := h.present.Companies.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list industry companies failed", err)
		return
	}
	items, err := h.present.CompanyList(ctx, rows)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present companies failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, items)
}

// SubIndustry is a child sector within a Sector.
type SubIndustry struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	CompanyCount int64              `json:"company_count"`
}

// Sector is a root industry whose company count includes its children.
type Sector struct {
	models.Industry
	CompanyCount  int64         `json:"company_count"`
	SubIndustries []SubIndustry `json:"sub_industries"`
}

// Sectors handles GET /industries/sectors: accepted root industries ordered
// by company count, largest first.
func (h *Handler) Sectors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	sectors, err := h.sectors(ctx)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list sectors failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, sectors)
}

func (h *Handler) sectors(ctx context.Context) ([]Sector, error) {
	roots, err := h.industries.Roots(ctx, models.ModerationAccepted)
	if err != nil {
		return nil, err
	}
	out := make([]Sector, 0, len(roots))
	for _, root := range roots {
		children, err := h.industries.Children(ctx, root.ID, models.ModerationAccepted)
		if err != nil {
			return nil, err
		}
		ids := []primitive.ObjectID{root.ID}
		for _, c := range children {
			ids = append(ids, c.ID)
		}
		total, err := h.present.Companies.CountInIndustries(ctx, ids, models.ModerationAccepted)
		if err != nil {
			return nil, err
		}
		counts, err := h.present.Companies.CountByIndustry(ctx, ids[1:], models.ModerationAccepted)
		if err != nil {
			return nil, err
		}
		subs := make([]SubIndustry, 0, len(children))
		for _, c := range children {
			subs = append(subs, SubIndustry{ID: c.ID, Name: c.Name, CompanyCount: counts[c.ID]})
		}
		out = append(out, Sector{Industry: root, CompanyCount: total, SubIndustries: subs})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompanyCount > out[j].CompanyCount })
	return out, nil
}
