package submissions

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/events"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var employeeCounts = map[string]bool{
	"1": true, "2-10": true, "11-50": true, "51-200": true,
	"201-500": true, "501-1000": true, "1000+": true,
}

// View adds the parsed tag list to a submission.
type View struct {
	models.CompanySubmission
	TagList []string `json:"tag_list"`
}

func viewOf(s models.CompanySubmission) View {
	return View{CompanySubmission: s, TagList: s.TagList()}
}

type submissionInput struct {
	Name                  *string   `json:"name"`
	ShortDescription      *string   `json:"short_description"`
	Description           *string   `json:"description"`
	Website               *string   `json:"website"`
	FoundedDate           *string   `json:"founded_date"`
	CompanyType           *string   `json:"company_type"`
	Status                *string   `json:"status"`
	HQCountry             *string   `json:"hq_country"`
	HQCity                *string   `json:"hq_city"`
	HQAddress             *string   `json:"hq_address"`
	EmployeeCount         *string   `json:"employee_count"`
	TotalFundingRaisedUSD *float64  `json:"total_funding_raised_usd"`
	ContactEmail          *string   `json:"contact_email"`
	ContactPhone          *string   `json:"contact_phone"`
	LinkedInURL           *string   `json:"linkedin_url"`
	TwitterURL            *string   `json:"twitter_url"`
	FacebookURL           *string   `json:"facebook_url"`
	LogoURL               *string   `json:"logo_url"`
	IndustryIDs           *[]string `json:"industry_ids"`
	Tags                  *string   `json:"tags"`
	Notes                 *string   `json:"notes"`
}

func (h *Handler) apply(ctx context.Context, in submissionInput, s *models.CompanySubmission, creating bool) (inputval.Errors, error) {
	errs := inputval.Errors{}

	required := []struct {
		name string
		dst  *string
		src  *string
		max  int
	}{
		{"name", &s.Name, in.Name, 255},
		{"short_description", &s.ShortDescription, in.ShortDescription, 200},
		{"hq_country", &s.HQCountry, in.HQCountry, 100},
		{"hq_city", &s.HQCity, in.HQCity, 100},
	}
	for _, f := range required {
		shared.SetText(f.dst, f.src)
		if (creating || f.src != nil) && errs.Required(f.name, *f.dst) {
			errs.MaxLen(f.name, *f.dst, f.max)
		}
	}

	switch {
	case in.ContactEmail != nil:
		shared.SetEmail(errs, "contact_email", &s.ContactEmail, in.ContactEmail)
		if _, bad := errs["contact_email"]; !bad {
			errs.Required("contact_email", s.ContactEmail)
		}
	case creating:
		errs.Add("contact_email", "This field is required.")
	}

	shared.SetText(&s.Description, in.Description)
	shared.SetText(&s.HQAddress, in.HQAddress)
	shared.SetText(&s.ContactPhone, in.ContactPhone)
	errs.MaxLen("contact_phone", s.ContactPhone, 20)
	shared.SetText(&s.Tags, in.Tags)
	shared.SetText(&s.Notes, in.Notes)
	shared.SetDate(errs, "founded_date", &s.FoundedDate, in.FoundedDate)
	shared.SetURL(errs, "website", &s.Website, in.Website)
	shared.SetURL(errs, "linkedin_url", &s.LinkedInURL, in.LinkedInURL)
	shared.SetURL(errs, "twitter_url", &s.TwitterURL, in.TwitterURL)
	shared.SetURL(errs, "facebook_url", &s.FacebookURL, in.FacebookURL)
	shared.SetURL(errs, "logo_url", &s.LogoURL, in.LogoURL)

	if in.CompanyType != nil && errs.Choice("company_type", *in.CompanyType, models.CompanyType(*in.CompanyType).Valid()) {
		s.CompanyType = *in.CompanyType
	}
	switch {
	case in.Status != nil:
		if errs.Choice("status", *in.Status, models.CompanyStatus(*in.Status).Valid()) {
			s.Status = *in.Status
		}
	case creating:
		s.Status = string(models.CompanyOperating)
	}
	if in.EmployeeCount != nil && errs.Choice("employee_count", *in.EmployeeCount, employeeCounts[*in.EmployeeCount]) {
		s.EmployeeCount = *in.EmployeeCount
	}
	if in.TotalFundingRaisedUSD != nil {
		if *in.TotalFundingRaisedUSD < 0 {
			errs.Add("total_funding_raised_usd", "Ensure this value is greater than or equal to 0.")
		} else {
			s.TotalFundingRaisedUSD = in.TotalFundingRaisedUSD
		}
	}
	if in.IndustryIDs != nil {
		ids, ok, err := shared.ResolveIDs(ctx, errs, "industry_ids", *in.IndustryIDs, h.present.Industries.GetByIDs)
		if err != nil {
			return nil, err
		}
		if ok {
			s.IndustryIDs = ids
		}
	}
	return errs, nil
}

var ordering = map[string]string{
	"submitted_at": "submitted_at",
	"name":         "name",
}

var newestFirst = bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}}

// List handles GET /company-submissions. Submissions in every review state
// are listed unless moderation_status narrows them.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := bson.M{}
	listfilter.Equal(r, f, map[string]string{
		"moderation_status": "moderation_status",
		"company_type":      "company_type",
		"status":            "status",
		"hq_country":        "hq_country",
	})
	listfilter.Search(f, query.Get(r, "search"), "name", "short_description", "tags")

	q, page := shared.ListQuery(r, f, listfilter.Ordering(r, ordering, newestFirst))
	rows, total, err := h.subs.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list submissions failed", err)
		return
	}
	views := make([]View, 0, len(rows))
	for _, s := range rows {
		views = append(views, viewOf(s))
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, views))
}

// Detail handles GET /company-submissions/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	s, err := h.subs.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load submission failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, viewOf(s))
}

// Create handles POST /company-submissions. New submissions start pending.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in submissionInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var s models.CompanySubmission
	errs, err := h.apply(ctx, in, &s, true)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate submission failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	created, err := h.subs.Create(ctx, s)
	if err != nil {
		apiutil.ServerError(w, h.Log, "create submission failed", err)
		return
	}
	h.Events.Publish(ctx, events.SubmissionReceived, map[string]any{
		"submission_id": created.ID.Hex(),
		"name":          created.Name,
		"slug":          created.Slug,
	})
	h.Log.Info("company submission received",
		zap.String("submission_id", created.ID.Hex()),
		zap.String("slug", created.Slug))
	apiutil.JSON(w, http.StatusCreated, viewOf(created))
}

// Update handles PUT and PATCH /company-submissions/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in submissionInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s, err := h.subs.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load submission failed", err)
		return
	}
	errs, err := h.apply(ctx, in, &s, false)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate submission failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	updated, err := h.subs.Update(ctx, id, s)
	if err != nil {
		shared.StoreError(w, h.Log, "update submission failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, viewOf(updated))
}

// Delete handles DELETE /company-submissions/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.subs.Delete(ctx, id); err != nil {
		shared.StoreError(w, h.Log, "delete submission failed", err)
		return
	}
	h.Audit.RecordDeleted(ctx, r, "company_submissions", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.SubmissionApproved, false)
}

// Reject handles POST /company-submissions/{id}/reject; the optional
// {"reason"} becomes the rejection reason.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.SubmissionRejected, true)
}

// RequestRevision handles POST /company-submissions/{id}/request_revision;
// the optional {"reason"} tells the submitter what to change.
func (h *Handler) RequestRevision(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.SubmissionNeedsRevision, true)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, status models.SubmissionStatus, withReason bool) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in struct {
		Reason string `json:"reason"`
	}
	if r.ContentLength != 0 && !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var reason *string
	if withReason {
		reason = &in.Reason
	}
	s, err := h.subs.Review(ctx, id, status, auth.ReviewerName(r), reason)
	if err != nil {
		shared.StoreError(w, h.Log, "review submission failed", err)
		return
	}
	h.Audit.SubmissionReviewed(ctx, r, id.Hex(), string(status))
	apiutil.JSON(w, http.StatusOK, viewOf(s))
}
