// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
)

// Handler reports who the bearer token belongs to.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type userInfo struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	UserID          string `json:"user_id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	IsStaff         bool   `json:"is_staff"`
}

// ServeUserInfo handles GET /api/userinfo. Anonymous callers get
// is_authenticated=false rather than an error so clients can probe a token.
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		apiutil.JSON(w, http.StatusOK, userInfo{})
		return
	}
	apiutil.JSON(w, http.StatusOK, userInfo{
		IsAuthenticated: true,
		UserID:          p.UserID,
		Username:        p.Username,
		Email:           p.Email,
		IsStaff:         p.IsStaff,
	})
}
