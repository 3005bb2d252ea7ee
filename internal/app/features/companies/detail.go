package companies

import (
	"context"
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Detail handles GET /companies/{key}, where key is an id or a slug. Detail
// lookups ignore moderation status.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.lookup(ctx, chi.URLParam(r, "key"))
	if err != nil {
		shared.StoreError(w, h.Log, "load company failed", err)
		return
	}
	d, err := h.present.CompanyDetail(ctx, c)
	if err != nil {
		apiutil.ServerError(w, h.Log, "present company failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, d)
}

func (h *Handler) lookup(ctx context.Context, key string) (models.Company, error) {
	if id, err := primitive.ObjectIDFromHex(key); err == nil {
		return h.companies.GetByID(ctx, id)
	}
	return h.companies.GetBySlug(ctx, key)
}
