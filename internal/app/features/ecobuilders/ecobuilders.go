// Package ecobuilders serves the ecosystem builder survey intake.
package ecobuilders

import (
	"context"
	"net/http"
	"slices"

	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	ecoregstore "github.com/dealroom-et/dealroom/internal/app/store/ecoregistrations"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/sanitize"
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

	regs *ecoregstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, regs: ecoregstore.New(db)}
}

// Routes mounts list, create and retrieve (typically at
// /api/ecosystem-builder-registrations).
func Routes(h *Handler, writes func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.With(writes).Post("/", h.Create)
	r.Get("/{id}", h.Detail)
	return r
}

var newestFirst = bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}}

// List handles GET: every survey record, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q, page := shared.ListQuery(r, bson.M{}, newestFirst)
	rows, total, err := h.regs.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list ecosystem builder registrations failed", err)
		return
	}
	if rows == nil {
		rows = []models.EcosystemBuilderRegistration{}
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, rows))
}

// Detail handles GET /{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec, err := h.regs.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load ecosystem builder registration failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, rec)
}

type surveyInput struct {
	OrgName             string   `json:"org_name"`
	FullNameAndPosition string   `json:"full_name_and_position"`
	OrgType             string   `json:"org_type"`
	SupportServices     []string `json:"support_services"`
	OperatingDuration   string   `json:"operating_duration"`
	NotablePrograms     string   `json:"notable_programs"`
	Collaboration       string   `json:"collaboration"`
	Region              string   `json:"region"`
	City                string   `json:"city"`
	Mobile              string   `json:"mobile"`
	Email               string   `json:"email"`
	Website             string   `json:"website"`
}

func (in surveyInput) record() (models.EcosystemBuilderRegistration, inputval.Errors) {
	errs := inputval.Errors{}
	rec := models.EcosystemBuilderRegistration{
		OrgName:             sanitize.Text(in.OrgName),
		FullNameAndPosition: sanitize.Text(in.FullNameAndPosition),
		OrgType:             in.OrgType,
		SupportServices:     sanitize.Strings(in.SupportServices),
		OperatingDuration:   sanitize.Text(in.OperatingDuration),
		NotablePrograms:     sanitize.Text(in.NotablePrograms),
		Collaboration:       sanitize.Text(in.Collaboration),
		Region:              sanitize.Text(in.Region),
		City:                sanitize.Text(in.City),
		Mobile:              sanitize.Text(in.Mobile),
		Email:               sanitize.Text(in.Email),
		Website:             sanitize.Text(in.Website),
	}
	required := []struct{ field, v string }{
		{"org_name", rec.OrgName},
		{"full_name_and_position", rec.FullNameAndPosition},
		{"org_type", rec.OrgType},
		{"operating_duration", rec.OperatingDuration},
		{"notable_programs", rec.NotablePrograms},
		{"collaboration", rec.Collaboration},
		{"region", rec.Region},
		{"city", rec.City},
		{"email", rec.Email},
	}
	for _, f := range required {
		errs.Required(f.field, f.v)
	}
	errs.MaxLen("org_name", rec.OrgName, 255)
	errs.MaxLen("full_name_and_position", rec.FullNameAndPosition, 255)
	errs.MaxLen("operating_duration", rec.OperatingDuration, 100)
	errs.MaxLen("mobile", rec.Mobile, 30)
	errs.Choice("org_type", rec.OrgType, slices.Contains(models.EcosystemBuilderOrgTypes, rec.OrgType))
	errs.Email("email", rec.Email)
	errs.URL("website", rec.Website)
	return rec, errs
}

// Create handles POST. Records are stored as pending.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in surveyInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	rec, errs := in.record()
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.regs.Create(ctx, rec)
	if err != nil {
		apiutil.ServerError(w, h.Log, "create ecosystem builder registration failed", err)
		return
	}
	h.Log.Info("ecosystem builder registered",
		zap.String("id", created.ID.Hex()),
		zap.String("org_name", created.OrgName),
		zap.String("org_type", created.OrgType))
	apiutil.JSON(w, http.StatusCreated, created)
}
