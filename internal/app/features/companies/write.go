package companies

import (
	"context"
	"errors"
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	companystore "github.com/dealroom-et/dealroom/internal/app/store/companies"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.uber.org/zap"
)

// companyInput is the writable company payload. Absent fields keep their
// current value on update.
type companyInput struct {
	Name                  *string                  `json:"name"`
	ShortDescription      *string                  `json:"short_description"`
	Description           *string                  `json:"description"`
	Website               *string                  `json:"website"`
	LogoURL               *string                  `json:"logo_url"`
	HQCity                *string                  `json:"hq_city"`
	HQCountry             *string                  `json:"hq_country"`
	ContactEmail          *string                  `json:"contact_email"`
	PhoneNumber           *string                  `json:"phone_number"`
	FoundedDate           *string                  `json:"founded_date"`
	CompanyType           *models.CompanyType      `json:"company_type"`
	Status                *models.CompanyStatus    `json:"status"`
	EmployeeCountRange    *string                  `json:"employee_count_range"`
	TotalFundingRaisedUSD *float64                 `json:"total_funding_raised_usd"`
	LastFundingDate       *string                  `json:"last_funding_date"`
	LastFundingStage      *string                  `json:"last_funding_stage"`
	LinkedInURL           *string                  `json:"linkedin_url"`
	TwitterURL            *string                  `json:"twitter_url"`
	FacebookURL           *string                  `json:"facebook_url"`
	InstagramURL          *string                  `json:"instagram_url"`
	CrunchbaseURL         *string                  `json:"crunchbase_url"`
	AngelListURL          *string                  `json:"angellist_url"`
	ModerationStatus      *models.ModerationStatus `json:"moderation_status"`
	IndustryIDs           *[]string                `json:"industry_ids"`
	FounderIDs            *[]string                `json:"founder_ids"`
	KeyPeopleIDs          *[]string                `json:"key_people_ids"`
}

// apply validates in and copies it onto c.
func (h *Handler) apply(ctx context.Context, in companyInput, c *models.Company, creating bool) (inputval.Errors, error) {
	errs := inputval.Errors{}

	shared.SetText(&c.Name, in.Name)
	if creating || in.Name != nil {
		if errs.Required("name", c.Name) {
			errs.MaxLen("name", c.Name, 255)
		}
	}
	shared.SetText(&c.ShortDescription, in.ShortDescription)
	errs.MaxLen("short_description", c.ShortDescription, 255)
	shared.SetText(&c.Description, in.Description)
	shared.SetText(&c.HQCity, in.HQCity)
	shared.SetText(&c.HQCountry, in.HQCountry)
	shared.SetText(&c.PhoneNumber, in.PhoneNumber)
	shared.SetText(&c.EmployeeCountRange, in.EmployeeCountRange)
	shared.SetText(&c.LastFundingStage, in.LastFundingStage)
	shared.SetEmail(errs, "contact_email", &c.ContactEmail, in.ContactEmail)
	shared.SetURL(errs, "website", &c.Website, in.Website)
	shared.SetURL(errs, "logo_url", &c.LogoURL, in.LogoURL)
	shared.SetURL(errs, "linkedin_url", &c.LinkedInURL, in.LinkedInURL)
	shared.SetURL(errs, "twitter_url", &c.TwitterURL, in.TwitterURL)
	shared.SetURL(errs, "facebook_url", &c.FacebookURL, in.FacebookURL)
	shared.SetURL(errs, "instagram_url", &c.InstagramURL, in.InstagramURL)
	shared.SetURL(errs, "crunchbase_url", &c.CrunchbaseURL, in.CrunchbaseURL)
	shared.SetURL(errs, "angellist_url", &c.AngelListURL, in.AngelListURL)
	shared.SetDate(errs, "founded_date", &c.FoundedDate, in.FoundedDate)
	shared.SetDate(errs, "last_funding_date", &c.LastFundingDate, in.LastFundingDate)

	if in.CompanyType != nil && errs.Choice("company_type", string(*in.CompanyType), in.CompanyType.Valid()) {
		c.CompanyType = *in.CompanyType
	}
	if in.Status != nil && errs.Choice("status", string(*in.Status), in.Status.Valid()) {
		c.Status = *in.Status
	}
	if in.ModerationStatus != nil && errs.Choice("moderation_status", string(*in.ModerationStatus), in.ModerationStatus.Valid()) {
		c.ModerationStatus = *in.ModerationStatus
	}
	if in.TotalFundingRaisedUSD != nil {
		if *in.TotalFundingRaisedUSD < 0 {
			errs.Add("total_funding_raised_usd", "Ensure this value is greater than or equal to 0.")
		} else {
			c.TotalFundingRaisedUSD = in.TotalFundingRaisedUSD
		}
	}

	if in.IndustryIDs != nil {
		ids, ok, err := shared.ResolveIDs(ctx, errs, "industry_ids", *in.IndustryIDs, h.present.Industries.GetByIDs)
		if err != nil {
			return nil, err
		}
		if ok {
			c.IndustryIDs = ids
		}
	}
	if in.FounderIDs != nil {
		ids, ok, err := shared.ResolveIDs(ctx, errs, "founder_ids", *in.FounderIDs, h.present.People.GetByIDs)
		if err != nil {
			return nil, err
		}
		if ok {
			c.FounderIDs = ids
		}
	}
	if in.KeyPeopleIDs != nil {
		ids, ok, err := shared.ResolveIDs(ctx, errs, "key_people_ids", *in.KeyPeopleIDs, h.present.People.GetByIDs)
		if err != nil {
			return nil, err
		}
		if ok {
			c.KeyPeopleIDs = ids
		}
	}
	return errs, nil
}

func duplicateErrors(err error) (inputval.Errors, bool) {
	switch {
	case errors.Is(err, companystore.ErrDuplicateName):
		return inputval.Errors{"name": {"company with this name already exists."}}, true
	case errors.Is(err, companystore.ErrDuplicateSlug):
		return inputval.Errors{"slug": {"company with this slug already exists."}}, true
	}
	return nil, false
}

// Create handles POST /companies.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in companyInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var c models.Company
	errs, err := h.apply(ctx, in, &c, true)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate company failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}

	created, err := h.companies.Create(ctx, c)
	if err != nil {
		if dup, ok := duplicateErrors(err); ok {
			apiutil.ValidationFailed(w, "Invalid data", dup)
			return
		}
		apiutil.ServerError(w, h.Log, "create company failed", err)
		return
	}
	h.Log.Info("company created", zap.String("company_id", created.ID.Hex()), zap.String("name", created.Name))

	d, err := h.present.CompanyDetail(ctx, created)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present company failed", err)
		return
	}
	apiutil.JSON(w, http.StatusCreated, d)
}

// Update handles PUT and PATCH /companies/{id}. Both are partial updates.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in companyInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.companies.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load company failed", err)
		return
	}
	before := c.ModerationStatus

	errs, err := h.apply(ctx, in, &c, false)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate company failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}

	updated, err := h.companies.Update(ctx, id, c)
	if err != nil {
		if dup, ok := duplicateErrors(err); ok {
			apiutil.ValidationFailed(w, "Invalid data", dup)
			return
		}
		shared.StoreError(w, h.Log, "update company failed", err)
		return
	}
	if before != updated.ModerationStatus {
		h.Audit.ModerationChanged(ctx, r, "companies", id.Hex(), string(before), string(updated.ModerationStatus))
	}

	d, err := h.present.CompanyDetail(ctx, updated)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present company failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, d)
}

// Delete handles DELETE /companies/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.companies.Delete(ctx, id); err != nil {
		shared.StoreError(w, h.Log, "delete company failed", err)
		return
	}
	h.Audit.RecordDeleted(ctx, r, "companies", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}
