package investors

import (
	"context"
	"errors"
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	investorstore "github.com/dealroom-et/dealroom/internal/app/store/investors"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.uber.org/zap"
)

type investorInput struct {
	Name               *string                  `json:"name"`
	LogoURL            *string                  `json:"logo_url"`
	Website            *string                  `json:"website"`
	Description        *string                  `json:"description"`
	InvestorType       *models.InvestorType     `json:"investor_type"`
	HQCity             *string                  `json:"hq_city"`
	HQCountry          *string                  `json:"hq_country"`
	FundingStagesFocus *string                  `json:"funding_stages_focus"`
	ContactEmail       *string                  `json:"contact_email"`
	LinkedInURL        *string                  `json:"linkedin_url"`
	ModerationStatus   *models.ModerationStatus `json:"moderation_status"`
	IndustryFocusIDs   *[]string                `json:"industry_focus_ids"`
}

func (h *Handler) apply(ctx context.Context, in investorInput, inv *models.Investor, creating bool) (inputval.Errors, error) {
	errs := inputval.Errors{}

	shared.SetText(&inv.Name, in.Name)
	if creating || in.Name != nil {
		if errs.Required("name", inv.Name) {
			errs.MaxLen("name", inv.Name, 255)
		}
	}
	if creating && in.InvestorType == nil {
		errs.Add("investor_type", "This field is required.")
	}
	if in.InvestorType != nil && errs.Choice("investor_type", string(*in.InvestorType), in.InvestorType.Valid()) {
		inv.InvestorType = *in.InvestorType
	}
	shared.SetText(&inv.Description, in.Description)
	shared.SetText(&inv.HQCity, in.HQCity)
	shared.SetText(&inv.HQCountry, in.HQCountry)
	shared.SetText(&inv.FundingStagesFocus, in.FundingStagesFocus)
	shared.SetEmail(errs, "contact_email", &inv.ContactEmail, in.ContactEmail)
	shared.SetURL(errs, "logo_url", &inv.LogoURL, in.LogoURL)
	shared.SetURL(errs, "website", &inv.Website, in.Website)
	shared.SetURL(errs, "linkedin_url", &inv.LinkedInURL, in.LinkedInURL)
	if in.ModerationStatus != nil && errs.Choice("moderation_status", string(*in.ModerationStatus), in.ModerationStatus.Valid()) {
		inv.ModerationStatus = *in.ModerationStatus
	}
	if in.IndustryFocusIDs != nil {
		ids, ok, err := shared.ResolveIDs(ctx, errs, "industry_focus_ids", *in.IndustryFocusIDs, h.present.Industries.GetByIDs)
		if err != nil {
			return nil, err
		}
		if ok {
			inv.IndustryFocusIDs = ids
		}
	}
	return errs, nil
}

func duplicateErrors(err error) (inputval.Errors, bool) {
	if errors.Is(err, investorstore.ErrDuplicateInvestor) {
		return inputval.Errors{"name": {"investor with this name already exists."}}, true
	}
	return nil, false
}

// Create handles POST /investors.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in investorInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var inv models.Investor
	errs, err := h.apply(ctx, in, &inv, true)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate investor failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	created, err := h.investors.Create(ctx, inv)
	if err != nil {
		if dup, ok := duplicateErrors(err); ok {
			apiutil.ValidationFailed(w, "Invalid data", dup)
			return
		}
		apiutil.ServerError(w, h.Log, "create investor failed", err)
		return
	}
	h.Log.Info("investor created", zap.String("investor_id", created.ID.Hex()), zap.String("name", created.Name))
	h.writeView(ctx, w, http.StatusCreated, created)
}

// Update handles PUT and PATCH /investors/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in investorInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, err := h.investors.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load investor failed", err)
		return
	}
	before := inv.ModerationStatus

	errs, err := h.apply(ctx, in, &inv, false)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate investor failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	updated, err := h.investors.Update(ctx, id, inv)
	if err != nil {
		if dup, ok := duplicateErrors(err); ok {
			apiutil.ValidationFailed(w, "Invalid data", dup)
			return
		}
		shared.StoreError(w, h.Log, "update investor failed", err)
		return
	}
	if before != updated.ModerationStatus {
		h.Audit.ModerationChanged(ctx, r, "investors", id.Hex(), string(before), string(updated.ModerationStatus))
	}
	h.writeView(ctx, w, http.StatusOK, updated)
}

// Delete handles DELETE /investors/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.investors.Delete(ctx, id); err != nil {
		shared.StoreError(w, h.Log, "delete investor failed", err)
		return
	}
	h.Audit.RecordDeleted(ctx, r, "investors", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}
