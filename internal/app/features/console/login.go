package console

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	userstore "github.com/dealroom-et/dealroom/internal/app/store/users"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const homePath = "/admin/registrations"

type loginVM struct {
	baseVM
	Username string
	Next     string
	Error    string
}

// safeNext keeps post-login redirects inside the console.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/admin/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, `\`) {
		return next
	}
	return homePath
}

// ServeLogin handles GET /admin/login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if auth.IsStaff(r) {
		http.Redirect(w, r, homePath, http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "console_login", loginVM{
		baseVM: h.base(r, "Sign in"),
		Next:   safeNext(r.URL.Query().Get("next")),
	})
}

// HandleLogin handles POST /admin/login. Only active staff accounts may
// open a console session.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := safeNext(r.PostFormValue("next"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	fail := func(reason, message string) {
		h.Audit.LoginFailed(ctx, r, username, reason)
		w.WriteHeader(http.StatusUnauthorized)
		templates.Render(w, r, "console_login", loginVM{
			baseVM:   h.base(r, "Sign in"),
			Username: username,
			Next:     next,
			Error:    message,
		})
	}

	if username == "" || password == "" {
		fail("missing credentials", "Enter a username and password.")
		return
	}
	u, err := h.users.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, userstore.ErrInvalidCredentials) {
			fail("invalid credentials", "Please enter the correct username and password for a staff account.")
			return
		}
		h.Log.Error("console login lookup failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !u.IsStaff {
		fail("not staff", "Please enter the correct username and password for a staff account.")
		return
	}

	p := auth.Principal{UserID: u.ID.Hex(), Username: u.Username, Email: u.Email, IsStaff: true}
	if err := h.Sessions.Login(w, r, p); err != nil {
		h.Log.Error("console session save failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.Audit.LoginSucceeded(ctx, r, u.Username, true)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// HandleLogout handles POST /admin/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r); err != nil {
		h.Log.Warn("console session clear failed", zap.Error(err))
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
