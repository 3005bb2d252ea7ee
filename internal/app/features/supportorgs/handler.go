// Package supportorgs serves the ecosystem support organizations: hubs,
// incubators, accelerators and universities. The four kinds share one
// handler parameterised by kind.
package supportorgs

import (
	"context"
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	supportorgstore "github.com/dealroom-et/dealroom/internal/app/store/supportorgs"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	orgs *supportorgstore.Store
}

func NewHandler(db *mongo.Database, kind models.SupportOrgKind, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, orgs: supportorgstore.New(db, kind)}
}

// Routes mounts list, create and retrieve for one kind (typically at
// /api/hubs, /api/incubators, /api/accelerators or /api/universities).
func Routes(h *Handler, writes func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.With(writes).Post("/", h.Create)
	r.Get("/{id}", h.Detail)
	return r
}

// moderation is the status filter for this kind. Only universities read
// ?moderation_status (default accepted); "all" widens the filter for staff
// and matches nothing for anyone else.
func (h *Handler) moderation(r *http.Request) (listfilter.Moderation, bool) {
	if h.orgs.Kind() != models.KindUniversity {
		return listfilter.Moderation{All: true}, false
	}
	m := listfilter.ReadModeration(r, string(models.ModerationAccepted))
	if m.All && !auth.IsStaff(r) {
		m = listfilter.Fixed(listfilter.All)
	}
	return m, true
}

var byName = bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}

// List handles GET on the collection. Universities honour ?moderation_status;
// the other kinds list everything.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := bson.M{}
	if m, ok := h.moderation(r); ok {
		m.Apply(f)
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q, page := shared.ListQuery(r, f, byName)
	rows, total, err := h.orgs.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list "+string(h.orgs.Kind())+" failed", err)
		return
	}
	if rows == nil {
		rows = []models.SupportOrg{}
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, rows))
}

// Detail handles GET /{id}. Universities outside the moderation filter are
// reported as not found.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.orgs.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load "+string(h.orgs.Kind())+" failed", err)
		return
	}
	if m, filtered := h.moderation(r); filtered && !m.All && string(org.ModerationStatus) != m.Status {
		apiutil.NotFound(w)
		return
	}
	apiutil.JSON(w, http.StatusOK, org)
}

type orgInput struct {
	Name             string                  `json:"name"`
	Description      string                  `json:"description"`
	Website          string                  `json:"website"`
	City             string                  `json:"city"`
	Region           string                  `json:"region"`
	ContactEmail     string                  `json:"contact_email"`
	ContactPhone     string                  `json:"contact_phone"`
	LogoURL          string                  `json:"logo_url"`
	ModerationStatus models.ModerationStatus `json:"moderation_status"`
}

// Create handles POST on the collection.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in orgInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	errs := inputval.Errors{}
	o := models.SupportOrg{}
	shared.SetText(&o.Name, &in.Name)
	if errs.Required("name", o.Name) {
		errs.MaxLen("name", o.Name, 255)
	}
	shared.SetText(&o.Description, &in.Description)
	shared.SetText(&o.City, &in.City)
	shared.SetText(&o.Region, &in.Region)
	shared.SetText(&o.ContactPhone, &in.ContactPhone)
	shared.SetURL(errs, "website", &o.Website, &in.Website)
	shared.SetURL(errs, "logo_url", &o.LogoURL, &in.LogoURL)
	shared.SetEmail(errs, "contact_email", &o.ContactEmail, &in.ContactEmail)
	if in.ModerationStatus != "" && errs.Choice("moderation_status", string(in.ModerationStatus), in.ModerationStatus.Valid()) {
		o.ModerationStatus = in.ModerationStatus
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.orgs.Create(ctx, o)
	if err != nil {
		apiutil.ServerError(w, h.Log, "create "+string(h.orgs.Kind())+" failed", err)
		return
	}
	h.Log.Info("support organization created",
		zap.String("kind", string(h.orgs.Kind())),
		zap.String("id", created.ID.Hex()),
		zap.String("name", created.Name))
	apiutil.JSON(w, http.StatusCreated, created)
}
