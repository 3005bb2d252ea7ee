package registrations

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ordering = map[string]string{
	"created_at":        "created_at",
	"organization_name": "organization_name_ci",
	"status":            "status",
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// List handles GET /organization-registrations. Registrations are listed
// in every review state.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := bson.M{}
	listfilter.Equal(r, f, map[string]string{
		"status":            "status",
		"organization_type": "organization_type",
		"country":           "country",
	})
	listfilter.Search(f, query.Get(r, "search"), "organization_name", "first_name", "last_name", "email")

	q, page := shared.ListQuery(r, f, listfilter.Ordering(r, ordering, newestFirst))
	rows, total, err := h.regs.List(ctx, q)
	if err != nil {
		apiutil.ServerError(w, h.Log, "list registrations failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, apiutil.NewPage(r, page, total, viewsOf(rows)))
}

// Detail handles GET /organization-registrations/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reg, err := h.regs.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load registration failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, viewOf(reg))
}

// validate applies in to reg, then checks that email and organization name
// are not already registered by another submission.
func (h *Handler) validate(ctx context.Context, in registrationInput, reg *models.OrganizationRegistration, creating bool) (inputval.Errors, error) {
	errs := in.apply(reg, creating)
	if errs.HasErrors() {
		return errs, nil
	}
	var exclude *primitive.ObjectID
	if !creating {
		exclude = &reg.ID
	}
	return h.regs.Duplicates(ctx, reg.Email, reg.OrganizationName, exclude)
}
