package dashboard

import (
	"context"
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Dashboard handles GET /dashboard. A failed aggregate still answers 200 with
// zero figures and the cause in the error field.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	d, err := h.metrics.Dashboard(ctx)
	if err != nil {
		h.Log.Error("dashboard aggregate failed", zap.Error(err))
		d.Error = err.Error()
	}
	apiutil.JSON(w, http.StatusOK, d)
}

// Ecosystem handles GET /ecosystem with the same degraded behaviour.
func (h *Handler) Ecosystem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	e, err := h.metrics.Ecosystem(ctx, h.now())
	if err != nil {
		h.Log.Error("ecosystem aggregate failed", zap.Error(err))
		e.Error = err.Error()
	}
	apiutil.JSON(w, http.StatusOK, e)
}
