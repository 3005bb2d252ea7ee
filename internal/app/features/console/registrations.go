package console

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dealroom-et/dealroom/internal/app/registration"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const reviewPageSize = 50

type statusOption struct {
	Value    string
	Label    string
	Selected bool
}

type registrationRow struct {
	ID           string
	Organization string
	Type         string
	Contact      string
	Email        string
	Country      string
	Sectors      string
	Status       string
	StatusLabel  string
	AdminNotes   string
	ReviewedBy   string
	Submitted    string
}

type registrationsVM struct {
	baseVM
	Status   string
	Statuses []statusOption
	Rows     []registrationRow
	Total    int64
}

var reviewStatuses = []models.RegistrationStatus{
	models.RegistrationPending,
	models.RegistrationNeedsInfo,
	models.RegistrationApproved,
	models.RegistrationRejected,
}

// ServeRegistrations handles GET /admin/registrations. The status filter
// defaults to pending; "all" lists every registration.
func (h *Handler) ServeRegistrations(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status == "" {
		status = string(models.RegistrationPending)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := bson.M{}
	if status != listfilter.All {
		filter["status"] = status
	}
	regs, total, err := h.regs.List(ctx, listfilter.Query{
		Filter: filter,
		Sort:   bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		Limit:  reviewPageSize,
	})
	if err != nil {
		h.Log.Error("console registrations list failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vm := registrationsVM{
		baseVM: h.base(r, "Organization registrations"),
		Status: status,
		Total:  total,
		Rows:   make([]registrationRow, 0, len(regs)),
	}
	for _, s := range reviewStatuses {
		vm.Statuses = append(vm.Statuses, statusOption{Value: string(s), Label: s.Label(), Selected: string(s) == status})
	}
	vm.Statuses = append(vm.Statuses, statusOption{Value: listfilter.All, Label: "All", Selected: status == listfilter.All})

	for _, reg := range regs {
		vm.Rows = append(vm.Rows, registrationRow{
			ID:           reg.ID.Hex(),
			Organization: reg.OrganizationName,
			Type:         reg.OrganizationType.Label(),
			Contact:      reg.FullName(),
			Email:        reg.Email,
			Country:      reg.Country,
			Sectors:      strings.Join(reg.Sectors, ", "),
			Status:       string(reg.Status),
			StatusLabel:  reg.Status.Label(),
			AdminNotes:   reg.AdminNotes,
			ReviewedBy:   reg.ReviewedBy,
			Submitted:    reg.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	templates.Render(w, r, "console_registrations", vm)
}

// HandleReview handles POST /admin/registrations/{id}/{action} for the
// approve, reject and request_info actions. The optional "text" field is
// the rejection reason or the information request.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	text := strings.TrimSpace(r.PostFormValue("text"))
	reviewer := auth.ReviewerName(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var notice string
	switch chi.URLParam(r, "action") {
	case "approve":
		out, err := h.reviewer.Approve(ctx, id, reviewer)
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			if errors.Is(err, registration.ErrPromotion) {
				h.Log.Warn("console approve failed", zap.String("registration_id", id.Hex()), zap.Error(err))
				h.Audit.PromotionFailed(ctx, r, id.Hex(), err)
			} else {
				h.Log.Error("console mark approved failed", zap.String("registration_id", id.Hex()), zap.Error(err))
			}
			notice = "Error approving organization: " + err.Error()
			break
		}
		h.Audit.RegistrationApproved(ctx, r, id.Hex(), out.Company.ID.Hex(), out.Created)
		notice = "Approved " + out.Registration.OrganizationName + " and created the company."
		if !out.Created {
			notice = "Approved " + out.Registration.OrganizationName + "; the company already existed."
		}
	case "reject":
		reg, err := h.reviewer.Reject(ctx, id, reviewer, text)
		if !h.reviewed(w, r, err) {
			return
		}
		h.Audit.RegistrationRejected(ctx, r, id.Hex(), text)
		notice = "Rejected " + reg.OrganizationName + "."
	case "request_info":
		reg, err := h.reviewer.RequestInfo(ctx, id, reviewer, text)
		if !h.reviewed(w, r, err) {
			return
		}
		h.Audit.RegistrationInfoRequested(ctx, r, id.Hex(), text)
		notice = "Requested more information from " + reg.OrganizationName + "."
	default:
		http.NotFound(w, r)
		return
	}

	back := url.Values{"notice": {notice}}
	if s := r.PostFormValue("status"); s != "" {
		back.Set("status", s)
	}
	http.Redirect(w, r, "/admin/registrations?"+back.Encode(), http.StatusSeeOther)
}

func (h *Handler) reviewed(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.NotFound(w, r)
		return false
	}
	h.Log.Error("console review failed", zap.Error(err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	return false
}
