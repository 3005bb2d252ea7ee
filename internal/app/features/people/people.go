package people

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	personstore "github.com/dealroom-et/dealroom/internal/app/store/people"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var byName = bson.D{{Key: "full_name", Value: 1}, {Key: "_id", Value: 1}}

// List handles GET /people. Only accepted people are listed.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := bson.M{}
	listfilter.Fixed(string(models.ModerationAccepted)).Apply(f)
	listfilter.Search(f, query.Get(r, "search"), "full_name", "bio")

	q, page := shared.ListQuery(r, f, byName)
	rows, total, err := h.people.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list people failed", err)
		return
	}
	if rows == nil {
		rows = []models.Person{}
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, rows))
}

// Detail handles GET /people/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.people.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load person failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, p)
}

type personInput struct {
	FullName          *string                  `json:"full_name"`
	Email             *string                  `json:"email"`
	LinkedInURL       *string                  `json:"linkedin_url"`
	TwitterURL        *string                  `json:"twitter_url"`
	Bio               *string                  `json:"bio"`
	ProfilePictureURL *string                  `json:"profile_picture_url"`
	ModerationStatus  *models.ModerationStatus `json:"moderation_status"`
}

func (in personInput) apply(p *models.Person, creating bool) inputval.Errors {
	errs := inputval.Errors{}

	shared.SetText(&p.FullName, in.FullName)
	if creating || in.FullName != nil {
		if errs.Required("full_name", p.FullName) {
			errs.MaxLen("full_name", p.FullName, 255)
		}
	}
	if in.Email != nil {
		e := strings.TrimSpace(*in.Email)
		switch {
		case e == "":
			p.Email = nil
		case errs.Email("email", e):
			p.Email = &e
		}
	}
	shared.SetText(&p.Bio, in.Bio)
	shared.SetURL(errs, "linkedin_url", &p.LinkedInURL, in.LinkedInURL)
	shared.SetURL(errs, "twitter_url", &p.TwitterURL, in.TwitterURL)
	shared.SetURL(errs, "profile_picture_url", &p.ProfilePictureURL, in.ProfilePictureURL)
	if in.ModerationStatus != nil && errs.Choice("moderation_status", string(*in.ModerationStatus), in.ModerationStatus.Valid()) {
		p.ModerationStatus = *in.ModerationStatus
	}
	return errs
}

func duplicateErrors(err error) (inputval.Errors, bool) {
	if errors.Is(err, personstore.ErrDuplicateEmail) {
		return inputval.Errors{"email": {"person with this email already exists."}}, true
	}
	return nil, false
}

// Create handles POST /people.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in personInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	var p models.Person
	if errs := in.apply(&p, true); errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.people.Create(ctx, p)
	if err != nil {
		if dup, ok := duplicateErrors(err); ok {
			apiutil.ValidationFailed(w, "Invalid data", dup)
			return
		}
		apiutil.ServerError(w, h.Log, "create person failed", err)
		return
	}
	h.Log.Info("person created", zap.String("person_id", created.ID.Hex()))
	apiutil.JSON(w, http.StatusCreated, created)
}

// Update handles PUT and PATCH /people/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in personInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.people.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load person failed", err)
		return
	}
	before := p.ModerationStatus
	if errs := in.apply(&p, false); errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	updated, err := h.people.Update(ctx, id, p)
	if err != nil {
		if dup, ok := duplicateErrors(err); ok {
			apiutil.ValidationFailed(w, "Invalid data", dup)
			return
		}
		shared.StoreError(w, h.Log, "update person failed", err)
		return
	}
	if before != updated.ModerationStatus {
		h.Audit.ModerationChanged(ctx, r, "people", id.Hex(), string(before), string(updated.ModerationStatus))
	}
	apiutil.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /people/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.people.Delete(ctx, id); err != nil {
		shared.StoreError(w, h.Log, "delete person failed", err)
		return
	}
	h.Audit.RecordDeleted(ctx, r, "people", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}
