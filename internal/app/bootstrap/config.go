// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the directory service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: DEALROOM_MONGO_URI, DEALROOM_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "dealroom", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "jwt_secret", Default: "dev-only-jwt-secret-change-me-0123456789", Desc: "HS256 signing secret for access tokens (32+ chars in production)"},
	{Name: "access_token_ttl", Default: "60m", Desc: "Access token lifetime"},
	{Name: "refresh_token_ttl", Default: "24h", Desc: "Refresh token lifetime"},
	{Name: "refresh_hash_key", Default: "dev-only-refresh-hash-key-012345", Desc: "Refresh token signing key (32 or 64 bytes)"},
	{Name: "refresh_block_key", Default: "dev-only-refresh-block-key-01234", Desc: "Refresh token encryption key (16, 24 or 32 bytes)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Admin console session signing key (must be strong in production)"},
	{Name: "session_name", Default: "dealroom-admin", Desc: "Admin console session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Admin console session lifetime"},

	{Name: "staff_username", Default: "admin", Desc: "Username of the staff account ensured at startup"},
	{Name: "staff_email", Default: "admin@dealroom.et", Desc: "Email of the staff account ensured at startup"},
	{Name: "staff_password", Default: "", Desc: "Password for the startup staff account (blank skips creation)"},

	{Name: "nats_url", Default: "", Desc: "NATS server URL for domain events (blank disables publishing)"},
	{Name: "nats_subject_prefix", Default: "dealroom", Desc: "Prefix for published event subjects"},

	{Name: "enforce_staff_writes", Default: false, Desc: "Require staff for directory writes, moderation and review actions"},
	{Name: "contact_rate_limit", Default: 5, Desc: "Contact form submissions per window per IP (0 disables)"},
	{Name: "signup_rate_limit", Default: 5, Desc: "Organization signups per window per IP (0 disables)"},
	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts per window per IP (0 disables)"},
	{Name: "rate_limit_window", Default: "1h", Desc: "Window for the public rate limits"},

	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for connectivity checks"},
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for lists and aggregates"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for multi-collection writes"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges, in increasing precedence:
// defaults, .env and config files, DEALROOM_* environment variables and
// command-line flags.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DEALROOM", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:       appValues.String("jwt_secret"),
		AccessTokenTTL:  appValues.Duration("access_token_ttl", time.Hour),
		RefreshTokenTTL: appValues.Duration("refresh_token_ttl", 24*time.Hour),
		RefreshHashKey:  appValues.String("refresh_hash_key"),
		RefreshBlockKey: appValues.String("refresh_block_key"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		StaffUsername: appValues.String("staff_username"),
		StaffEmail:    appValues.String("staff_email"),
		StaffPassword: appValues.String("staff_password"),

		NATSURL:           appValues.String("nats_url"),
		NATSSubjectPrefix: appValues.String("nats_subject_prefix"),

		EnforceStaffWrites: appValues.Bool("enforce_staff_writes"),
		ContactRateLimit:   appValues.Int("contact_rate_limit"),
		SignupRateLimit:    appValues.Int("signup_rate_limit"),
		LoginRateLimit:     appValues.Int("login_rate_limit"),
		RateLimitWindow:    appValues.Duration("rate_limit_window", time.Hour),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		Timeouts: timeouts.Config{
			Ping:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
			Short:  appValues.Duration("timeout_short", timeouts.DefaultShort),
			Medium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
			Long:   appValues.Duration("timeout_long", timeouts.DefaultLong),
		},
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked before any connection attempt. Production
// refuses short signing secrets and a refresh lifetime that does not
// outlast the access token.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env, appCfg)
}

func validateApp(env string, appCfg AppConfig) error {
	if appCfg.AccessTokenTTL <= 0 {
		return fmt.Errorf("access_token_ttl must be positive")
	}
	if appCfg.RefreshTokenTTL <= appCfg.AccessTokenTTL {
		return fmt.Errorf("refresh_token_ttl (%s) must exceed access_token_ttl (%s)", appCfg.RefreshTokenTTL, appCfg.AccessTokenTTL)
	}
	switch n := len(appCfg.RefreshHashKey); n {
	case 32, 64:
	default:
		return fmt.Errorf("refresh_hash_key must be 32 or 64 bytes, got %d", n)
	}
	switch n := len(appCfg.RefreshBlockKey); n {
	case 16, 24, 32:
	default:
		return fmt.Errorf("refresh_block_key must be 16, 24 or 32 bytes, got %d", n)
	}
	for _, dest := range []string{appCfg.AuditLogAuth, appCfg.AuditLogAdmin} {
		switch dest {
		case "", "all", "db", "log", "off":
		default:
			return fmt.Errorf("unknown audit log destination %q", dest)
		}
	}
	if env == "prod" {
		if len(appCfg.JWTSecret) < 32 {
			return fmt.Errorf("jwt_secret must be at least 32 characters in production")
		}
		if len(appCfg.SessionKey) < 32 {
			return fmt.Errorf("session_key must be at least 32 characters in production")
		}
	}
	return nil
}
