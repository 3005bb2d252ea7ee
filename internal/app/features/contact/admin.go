package contact

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	contactstore "github.com/dealroom-et/dealroom/internal/app/store/contacts"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

var ordering = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"status":     "status",
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// AdminView is a contact as staff see it.
type AdminView struct {
	models.Contact
	RespondedByName string `json:"responded_by_name,omitempty"`
}

func adminView(c models.Contact) AdminView {
	return AdminView{Contact: c, RespondedByName: c.RespondedBy}
}

// List handles GET /contacts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := bson.M{}
	listfilter.Equal(r, f, map[string]string{"status": "status"})
	listfilter.Search(f, query.Get(r, "search"), "name", "email", "company", "message")

	q, page := shared.ListQuery(r, f, listfilter.Ordering(r, ordering, newestFirst))
	rows, total, err := h.contacts.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list contacts failed", err)
		return
	}
	views := make([]AdminView, 0, len(rows))
	for _, c := range rows {
		views = append(views, adminView(c))
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, views))
}

// Detail handles GET /contacts/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.contacts.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load contact failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, adminView(c))
}

type patchInput struct {
	Status     *models.ContactStatus `json:"status"`
	AdminNotes *string               `json:"admin_notes"`
}

// Update handles PUT and PATCH /contacts/{id}. Only status and admin notes
// are editable.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in patchInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	errs := inputval.Errors{}
	p := contactstore.Patch{AdminNotes: in.AdminNotes}
	if in.Status != nil && errs.Required("status", string(*in.Status)) &&
		errs.Choice("status", string(*in.Status), in.Status.Valid()) {
		p.Status = in.Status
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.contacts.Update(ctx, id, p)
	if err != nil {
		shared.StoreError(w, h.Log, "update contact failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, adminView(c))
}

// Delete handles DELETE /contacts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.contacts.Delete(ctx, id); err != nil {
		shared.StoreError(w, h.Log, "delete contact failed", err)
		return
	}
	h.Audit.RecordDeleted(ctx, r, "contacts", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}

type actionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MarkResolved handles POST /contacts/{id}/mark_resolved.
func (h *Handler) MarkResolved(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var by string
	if p, ok := auth.CurrentPrincipal(r); ok {
		by = p.Username
	}
	c, err := h.contacts.MarkResolved(ctx, id, by)
	if err != nil {
		shared.StoreError(w, h.Log, "resolve contact failed", err)
		return
	}
	h.Audit.ContactResolved(ctx, r, id.Hex())
	apiutil.JSON(w, http.StatusOK, actionResult{
		Success: true,
		Message: "Contact from " + c.Name + " marked as resolved",
	})
}

// AddNotes handles POST /contacts/{id}/add_notes with {"notes"}; empty notes
// are rejected.
func (h *Handler) AddNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in struct {
		Notes string `json:"notes"`
	}
	if r.ContentLength != 0 && !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if strings.TrimSpace(in.Notes) == "" {
		if _, err := h.contacts.GetByID(ctx, id); err != nil {
			shared.StoreError(w, h.Log, "load contact failed", err)
			return
		}
		apiutil.JSON(w, http.StatusBadRequest, actionResult{Message: "Notes cannot be empty"})
		return
	}
	if _, err := h.contacts.Update(ctx, id, contactstore.Patch{AdminNotes: &in.Notes}); err != nil {
		shared.StoreError(w, h.Log, "add contact notes failed", err)
		return
	}
	h.Audit.ContactNotesAdded(ctx, r, id.Hex())
	apiutil.JSON(w, http.StatusOK, actionResult{Success: true, Message: "Notes added successfully"})
}
