package registrations

import (
	"context"
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/registration"
	metricsstore "github.com/dealroom-et/dealroom/internal/app/store/metrics"
	orgregstore "github.com/dealroom-et/dealroom/internal/app/store/orgregistrations"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.uber.org/zap"
)

type signupResponse struct {
	Success          bool                      `json:"success"`
	Message          string                    `json:"message"`
	OrganizationID   string                    `json:"organization_id"`
	OrganizationName string                    `json:"organization_name"`
	CompanyID        *string                   `json:"company_id"`
	CompanySlug      *string                   `json:"company_slug"`
	Status           models.RegistrationStatus `json:"status"`
	Note             string                    `json:"note,omitempty"`
}

type signupRejected struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  inputval.Errors `json:"errors"`
}

func rejectSignup(w http.ResponseWriter, errs inputval.Errors) {
	apiutil.JSON(w, http.StatusBadRequest, signupRejected{Message: "Invalid data provided", Errors: errs})
}

// Signup handles POST /organization-signup. The registration is stored and
// promoted to a company straight away; when promotion fails the signup still
// succeeds and the registration waits for manual review.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in registrationInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var reg models.OrganizationRegistration
	errs, err := h.validate(ctx, in, &reg, true)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate signup failed", err)
		return
	}
	if errs.HasErrors() {
		rejectSignup(w, errs)
		return
	}

	res, err := h.reviewer.Submit(ctx, reg)
	if err != nil {
		if fe := orgregstore.FieldErrors(err); fe != nil {
			rejectSignup(w, fe)
			return
		}
		apiutil.ServerError(w, h.Log, "store signup failed", err)
		return
	}

	saved := res.Registration
	out := signupResponse{
		Success:          true,
		OrganizationID:   saved.ID.Hex(),
		OrganizationName: saved.OrganizationName,
		Status:           saved.Status,
	}
	if res.Company != nil {
		id, slug := res.Company.ID.Hex(), res.Company.Slug
		out.CompanyID, out.CompanySlug = &id, &slug
	}
	if res.PromotionErr != nil && res.Company == nil {
		h.Audit.PromotionFailed(ctx, r, saved.ID.Hex(), res.PromotionErr)
		out.Message = "Organization registration submitted successfully! (Manual approval required)"
		out.Note = registration.ManualReviewNote
	} else {
		h.Audit.RegistrationApproved(ctx, r, saved.ID.Hex(), *out.CompanyID, res.Created)
		out.Message = "Organization registered and added to companies successfully!"
	}
	h.Log.Info("organization signup",
		zap.String("registration_id", saved.ID.Hex()),
		zap.String("organization_type", string(saved.OrganizationType)),
		zap.Bool("promoted", res.Company != nil))
	apiutil.JSON(w, http.StatusCreated, out)
}

type signupStatistics struct {
	metricsstore.RegistrationStatistics
	RecentRegistrations []RegistrationView `json:"recent_registrations"`
}

// SignupStatistics handles GET /organization-signup for staff.
func (h *Handler) SignupStatistics(w http.ResponseWriter, r *http.Request) {
	if !auth.IsStaff(r) {
		apiutil.JSON(w, http.StatusForbidden, map[string]string{"error": "Permission denied"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	stats, err := h.metrics.RegistrationStatistics(ctx)
	if err != nil {
		apiutil.ServerError(w, h.Log, "registration statistics failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, signupStatistics{
		RegistrationStatistics: stats,
		RecentRegistrations:    viewsOf(stats.Recent),
	})
}
