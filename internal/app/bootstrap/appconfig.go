// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (DEALROOM_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers ports, TLS, logging, CORS and body limits; everything specific to
// the directory lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens for the JSON API
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RefreshHashKey  string // signs refresh tokens (32 or 64 bytes)
	RefreshBlockKey string // encrypts refresh tokens (16, 24 or 32 bytes)

	// Admin console session
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// Staff account created on first start when StaffPassword is set
	StaffUsername string
	StaffEmail    string
	StaffPassword string

	// Domain events; an empty URL disables publishing
	NATSURL           string
	NATSSubjectPrefix string

	// Authorization and abuse control
	EnforceStaffWrites bool
	ContactRateLimit   int // requests per RateLimitWindow per client IP; 0 disables
	SignupRateLimit    int
	LoginRateLimit     int
	RateLimitWindow    time.Duration

	// Audit destinations: "all" (db+log), "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	Timeouts timeouts.Config
}
