package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	sessUserID   = "user_id"
	sessUsername = "username"
	sessEmail    = "email"
	sessStaff    = "is_staff"
)

// SessionManager keeps the admin console login in a signed cookie.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session store for the admin console.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, errors.New("auth: session key is empty")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(sessionKey)))
	}
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/admin",
		MaxAge:   int(maxAge / time.Second),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Login records p in the session cookie.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, p Principal) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[sessUserID] = p.UserID
	sess.Values[sessUsername] = p.Username
	sess.Values[sessEmail] = p.Email
	sess.Values[sessStaff] = p.IsStaff
	return sess.Save(r, w)
}

// Logout expires the session cookie.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Load injects the session principal, if any, into the request context.
func (m *SessionManager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, m.name)
		if err != nil {
			m.log.Debug("discarding unreadable admin session", zap.Error(err))
		}
		if id, _ := sess.Values[sessUserID].(string); id != "" {
			p := Principal{UserID: id}
			p.Username, _ = sess.Values[sessUsername].(string)
			p.Email, _ = sess.Values[sessEmail].(string)
			p.IsStaff, _ = sess.Values[sessStaff].(bool)
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}
