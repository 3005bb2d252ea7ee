// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/store/audit"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Destinations for a category: "all" (Mongo + zap), "db", "log" or "off".
type Config struct {
	Auth  string
	Admin string
}

// Sink persists audit events.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger writes audit events to the audit store and to zap.
type Logger struct {
	sink   Sink
	zapLog *zap.Logger
	config Config
}

func New(sink Sink, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{sink: sink, zapLog: zapLog, config: config}
}

func (l *Logger) setting(category string) string {
	switch category {
	case audit.CategoryAuth:
		return l.config.Auth
	case audit.CategoryAdmin:
		return l.config.Admin
	}
	return "all"
}

// Log records event according to the category setting. A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	setting := l.setting(event.Category)
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.sink != nil {
		if err := l.sink.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.TargetID != "" {
		fields = append(fields,
			zap.String("target_collection", event.TargetCollection),
			zap.String("target_id", event.TargetID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// adminEvent fills the request-derived fields of an admin event.
func adminEvent(r *http.Request, eventType, collection, targetID string) audit.Event {
	return audit.Event{
		Category:         audit.CategoryAdmin,
		EventType:        eventType,
		Actor:            auth.ReviewerName(r),
		TargetCollection: collection,
		TargetID:         targetID,
		IP:               ratelimit.ClientIP(r),
		UserAgent:        r.UserAgent(),
		Success:          true,
	}
}

// --- Registration review ---

func (l *Logger) RegistrationApproved(ctx context.Context, r *http.Request, regID, companyID string, created bool) {
	e := adminEvent(r, audit.EventRegistrationApproved, "organization_registrations", regID)
	e.Details = map[string]string{"company_id": companyID}
	if created {
		e.Details["company_created"] = "true"
	}
	l.Log(ctx, e)
}

func (l *Logger) RegistrationRejected(ctx context.Context, r *http.Request, regID, reason string) {
	e := adminEvent(r, audit.EventRegistrationRejected, "organization_registrations", regID)
	e.Details = map[string]string{"reason": reason}
	l.Log(ctx, e)
}

func (l *Logger) RegistrationInfoRequested(ctx context.Context, r *http.Request, regID, message string) {
	e := adminEvent(r, audit.EventRegistrationInfoRequested, "organization_registrations", regID)
	e.Details = map[string]string{"message": message}
	l.Log(ctx, e)
}

// PromotionFailed records an approval whose company promotion did not complete.
func (l *Logger) PromotionFailed(ctx context.Context, r *http.Request, regID string, cause error) {
	e := adminEvent(r, audit.EventPromotionFailed, "organization_registrations", regID)
	e.Success = false
	e.FailureReason = cause.Error()
	l.Log(ctx, e)
}

// --- Moderation ---

func (l *Logger) ModerationChanged(ctx context.Context, r *http.Request, collection, id, from, to string) {
	e := adminEvent(r, audit.EventModerationChanged, collection, id)
	e.Details = map[string]string{"from": from, "to": to}
	l.Log(ctx, e)
}

func (l *Logger) SubmissionReviewed(ctx context.Context, r *http.Request, id, status string) {
	e := adminEvent(r, audit.EventSubmissionReviewed, "company_submissions", id)
	e.Details = map[string]string{"status": status}
	l.Log(ctx, e)
}

func (l *Logger) RecordDeleted(ctx context.Context, r *http.Request, collection, id string) {
	l.Log(ctx, adminEvent(r, audit.EventRecordDeleted, collection, id))
}

// --- Contacts ---

func (l *Logger) ContactResolved(ctx context.Context, r *http.Request, id string) {
	l.Log(ctx, adminEvent(r, audit.EventContactResolved, "contacts", id))
}

func (l *Logger) ContactNotesAdded(ctx context.Context, r *http.Request, id string) {
	l.Log(ctx, adminEvent(r, audit.EventContactNotesAdded, "contacts", id))
}

// --- Auth ---

func (l *Logger) LoginSucceeded(ctx context.Context, r *http.Request, username string, console bool) {
	eventType := audit.EventLoginSuccess
	if console {
		eventType = audit.EventAdminLogin
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: eventType,
		Actor:     username,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, username, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		Actor:         username,
		IP:            ratelimit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
	})
}

func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, username string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventUserRegistered,
		Actor:     username,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}
