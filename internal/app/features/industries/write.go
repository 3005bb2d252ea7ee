package industries

import (
	"context"
	"errors"
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	industrystore "github.com/dealroom-et/dealroom/internal/app/store/industries"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// industryInput is the writable industry payload. An empty parent_industry
// detaches the industry from its parent.
type industryInput struct {
	Name             *string                  `json:"name"`
	Description      *string                  `json:"description"`
	ParentIndustry   *string                  `json:"parent_industry"`
	ModerationStatus *models.ModerationStatus `json:"moderation_status"`
}

func (h *Handler) apply(ctx context.Context, in industryInput, ind *models.Industry, creating bool) (inputval.Errors, error) {
	errs := inputval.Errors{}

	shared.SetText(&ind.Name, in.Name)
	if creating || in.Name != nil {
		if errs.Required("name", ind.Name) {
			errs.MaxLen("name", ind.Name, 100)
		}
	}
	shared.SetText(&ind.Description, in.Description)
	if in.ModerationStatus != nil && errs.Choice("moderation_status", string(*in.ModerationStatus), in.ModerationStatus.Valid()) {
		ind.ModerationStatus = *in.ModerationStatus
	}

	if in.ParentIndustry != nil {
		if *in.ParentIndustry == "" {
			ind.ParentID = nil
			return errs, nil
		}
		pid, err := primitive.ObjectIDFromHex(*in.ParentIndustry)
		if err != nil {
			errs.Add("parent_industry", "Invalid pk \""+*in.ParentIndustry+"\" - object does not exist.")
			return errs, nil
		}
		if pid == ind.ID {
			errs.Add("parent_industry", "An industry cannot be its own parent.")
			return errs, nil
		}
		if _, err := h.industries.GetByID(ctx, pid); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				errs.Add("parent_industry", "Invalid pk \""+*in.ParentIndustry+"\" - object does not exist.")
				return errs, nil
			}
			return nil, err
		}
		ind.ParentID = &pid
	}
	return errs, nil
}

func duplicateErrors(err error) (inputval.Errors, bool) {
	if errors.Is(err, industrystore.ErrDuplicateIndustry) {
		return inputval.Errors{"name": {"industry with this name already exists."}}, true
	}
	return nil, false
}

// Create handles POST /industries.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in industryInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var ind models.Industry
	errs, err := h.apply(ctx, in, &ind, true)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate industry failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	created, err := h.industries.Create(ctx, ind)
	if err != nil {
		if dup, ok := duplicateErrors(err); ok {
			apiutil.ValidationFailed(w, "Invalid data", dup)
			return
		}
		apiutil.ServerError(w, h.Log, "create industry failed", err)
		return
	}
	h.Log.Info("industry created", zap.String("industry_id", created.ID.Hex()), zap.String("name", created.Name))
	h.writeView(ctx, w, http.StatusCreated, created)
}

// Update handles PUT and PATCH /industries/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in industryInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ind, err := h.industries.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load industry failed", err)
		return
	}
	before := ind.ModerationStatus

	errs, err := h.apply(ctx, in, &ind, false)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate industry failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	updated, err := h.industries.Update(ctx, id, ind)
	if err != nil {
		if dup, ok := duplicateErrors(err); ok {
			apiutil.ValidationFailed(w, "Invalid data", dup)
			return
		}
		shared.StoreError(w, h.Log, "update industry failed", err)
		return
	}
	if before != updated.ModerationStatus {
		h.Audit.ModerationChanged(ctx, r, "industries", id.Hex(), string(before), string(updated.ModerationStatus))
	}
	h.writeView(ctx, w, http.StatusOK, updated)
}

// Delete handles DELETE /industries/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.industries.Delete(ctx, id); err != nil {
		shared.StoreError(w, h.Log, "delete industry failed", err)
		return
	}
	h.Audit.RecordDeleted(ctx, r, "industries", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}
