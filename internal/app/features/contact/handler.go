// Package contact receives messages from the public contact form and lets
// staff triage them.
package contact

import (
	contactstore "github.com/dealroom-et/dealroom/internal/app/store/contacts"
	"github.com/dealroom-et/dealroom/internal/app/system/auditlog"
	"github.com/dealroom-et/dealroom/internal/app/system/events"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Audit  *auditlog.Logger
	Events events.Publisher

	contacts *contactstore.Store
}

func NewHandler(db *mongo.Database, pub events.Publisher, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		DB:       db,
		Log:      logger,
		Audit:    audit,
		Events:   pub,
		contacts: contactstore.New(db),
	}
}
