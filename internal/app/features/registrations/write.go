package registrations

import (
	"context"
	"errors"
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	"github.com/dealroom-et/dealroom/internal/app/registration"
	orgregstore "github.com/dealroom-et/dealroom/internal/app/store/orgregistrations"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Create handles POST /organization-registrations. Unlike the public signup
// it only stores the registration; promotion waits for an approve action.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in registrationInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var reg models.OrganizationRegistration
	errs, err := h.validate(ctx, in, &reg, true)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate registration failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	created, err := h.regs.Create(ctx, reg)
	if err != nil {
		if fe := orgregstore.FieldErrors(err); fe != nil {
			apiutil.ValidationFailed(w, "Invalid data", fe)
			return
		}
		apiutil.ServerError(w, h.Log, "create registration failed", err)
		return
	}
	apiutil.JSON(w, http.StatusCreated, viewOf(created))
}

// Update handles PUT and PATCH /organization-registrations/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in registrationInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reg, err := h.regs.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load registration failed", err)
		return
	}
	errs, err := h.validate(ctx, in, &reg, false)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate registration failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	updated, err := h.regs.Update(ctx, id, reg)
	if err != nil {
		if fe := orgregstore.FieldErrors(err); fe != nil {
			apiutil.ValidationFailed(w, "Invalid data", fe)
			return
		}
		shared.StoreError(w, h.Log, "update registration failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, viewOf(updated))
}

// Delete handles DELETE /organization-registrations/{id}. A company already
// promoted from the registration is kept.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.regs.Delete(ctx, id); err != nil {
		shared.StoreError(w, h.Log, "delete registration failed", err)
		return
	}
	h.Audit.RecordDeleted(ctx, r, "organization_registrations", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}

type actionResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	CompanyID   string `json:"company_id,omitempty"`
	CompanySlug string `json:"company_slug,omitempty"`
}

func quoted(name string) string { return `Organization "` + name + `"` }

// Approve handles POST /organization-registrations/{id}/approve. Approving an
// already approved registration returns the existing company.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	out, err := h.reviewer.Approve(ctx, id, auth.ReviewerName(r))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apiutil.NotFound(w)
			return
		}
		if errors.Is(err, registration.ErrPromotion) {
			h.Log.Warn("approve registration failed", zap.String("registration_id", id.Hex()), zap.Error(err))
			h.Audit.PromotionFailed(ctx, r, id.Hex(), err)
		} else {
			h.Log.Error("mark registration approved failed", zap.String("registration_id", id.Hex()), zap.Error(err))
		}
		apiutil.JSON(w, http.StatusBadRequest, actionResult{
			Message: "Error approving organization: " + err.Error(),
		})
		return
	}
	h.Audit.RegistrationApproved(ctx, r, id.Hex(), out.Company.ID.Hex(), out.Created)
	apiutil.JSON(w, http.StatusOK, actionResult{
		Success:     true,
		Message:     quoted(out.Registration.OrganizationName) + " has been approved and added to companies",
		CompanyID:   out.Company.ID.Hex(),
		CompanySlug: out.Company.Slug,
	})
}

type reasonInput struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Reject handles POST /organization-registrations/{id}/reject with an
// optional {"reason"} stored as admin notes.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	in, ok := decodeOptional(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reg, err := h.reviewer.Reject(ctx, id, auth.ReviewerName(r), in.Reason)
	if err != nil {
		shared.StoreError(w, h.Log, "reject registration failed", err)
		return
	}
	h.Audit.RegistrationRejected(ctx, r, id.Hex(), in.Reason)
	apiutil.JSON(w, http.StatusOK, actionResult{
		Success: true,
		Message: quoted(reg.OrganizationName) + " has been rejected",
	})
}

// RequestInfo handles POST /organization-registrations/{id}/request_info with
// an optional {"message"} stored as admin notes.
func (h *Handler) RequestInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	in, ok := decodeOptional(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reg, err := h.reviewer.RequestInfo(ctx, id, auth.ReviewerName(r), in.Message)
	if err != nil {
		shared.StoreError(w, h.Log, "request info failed", err)
		return
	}
	h.Audit.RegistrationInfoRequested(ctx, r, id.Hex(), in.Message)
	apiutil.JSON(w, http.StatusOK, actionResult{
		Success: true,
		Message: `Requested more information from "` + reg.OrganizationName + `"`,
	})
}

// decodeOptional reads a review body; an empty body is allowed.
func decodeOptional(w http.ResponseWriter, r *http.Request) (reasonInput, bool) {
	var in reasonInput
	if r.Body == nil || r.ContentLength == 0 {
		return in, true
	}
	return in, apiutil.DecodeOrReject(w, r, &in)
}
