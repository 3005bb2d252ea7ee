package contact

import (
	"context"
	"net/http"
	"strings"

	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/events"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/sanitize"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.uber.org/zap"
)

const (
	minNameLen    = 2
	minMessageLen = 10
)

type contactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// contact validates the form and normalizes it: name and message trimmed,
// email lowercased.
func (in contactInput) contact() (models.Contact, inputval.Errors) {
	errs := inputval.Errors{}
	c := models.Contact{
		Name:    sanitize.Text(in.Name),
		Email:   strings.ToLower(sanitize.Text(in.Email)),
		Company: sanitize.Text(in.Company),
		Message: sanitize.Text(in.Message),
	}
	errs.MinLen("name", c.Name, minNameLen, "Name must be at least 2 characters long.")
	errs.MaxLen("name", c.Name, 100)
	if c.Email == "" {
		errs.Add("email", "Email is required.")
	} else {
		errs.Email("email", c.Email)
	}
	errs.MaxLen("company", c.Company, 200)
	errs.MinLen("message", c.Message, minMessageLen, "Message must be at least 10 characters long.")
	return c, errs
}

type submitResult struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ContactID string          `json:"contact_id,omitempty"`
	Errors    inputval.Errors `json:"errors,omitempty"`
}

// Submit handles POST /contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in contactInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	c, errs := in.contact()
	if errs.HasErrors() {
		apiutil.JSON(w, http.StatusBadRequest, submitResult{
			Message: "Please check your form data and try again.",
			Errors:  errs,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	saved, err := h.contacts.Create(ctx, c)
	if err != nil {
		apiutil.ServerError(w, h.Log, "store contact failed", err)
		return
	}
	h.Events.Publish(ctx, events.ContactReceived, map[string]any{
		"contact_id": saved.ID.Hex(),
		"email":      saved.Email,
		"company":    saved.Company,
	})
	h.Log.Info("contact received", zap.String("contact_id", saved.ID.Hex()))
	apiutil.JSON(w, http.StatusCreated, submitResult{
		Success:   true,
		Message:   "Thank you for your message! We will get back to you soon.",
		ContactID: saved.ID.Hex(),
	})
}
