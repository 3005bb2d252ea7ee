// Package console is the server-rendered admin console: staff sign in with a
// session cookie to review organization registrations, moderate directory
// records and browse the audit trail.
package console

import (
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/registration"
	"github.com/dealroom-et/dealroom/internal/app/store/audit"
	orgregstore "github.com/dealroom-et/dealroom/internal/app/store/orgregistrations"
	userstore "github.com/dealroom-et/dealroom/internal/app/store/users"
	"github.com/dealroom-et/dealroom/internal/app/system/auditlog"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Audit    *auditlog.Logger
	Sessions *auth.SessionManager

	users    *userstore.Store
	regs     *orgregstore.Store
	events   *audit.Store
	reviewer *registration.Reviewer
	queues   []queue
}

func NewHandler(db *mongo.Database, sessions *auth.SessionManager, reviewer *registration.Reviewer, audits *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Audit:    audits,
		Sessions: sessions,
		users:    userstore.New(db),
		regs:     orgregstore.New(db),
		events:   audit.New(db),
		reviewer: reviewer,
		queues:   moderationQueues(db),
	}
}

// baseVM carries the fields every console page uses.
type baseVM struct {
	Title     string
	User      string
	Notice    string
	CSRFToken string
}

func (h *Handler) base(r *http.Request, title string) baseVM {
	vm := baseVM{
		Title:     title,
		Notice:    r.URL.Query().Get("notice"),
		CSRFToken: csrf.Token(r),
	}
	if p, ok := auth.CurrentPrincipal(r); ok {
		vm.User = p.Username
	}
	return vm
}
