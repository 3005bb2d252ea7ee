// Package submissions serves public company listing submissions and their
// review actions. Submissions never create directory companies.
package submissions

import (
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	submissionstore "github.com/dealroom-et/dealroom/internal/app/store/submissions"
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

	subs    *submissionstore.Store
	present *shared.Presenter
}

func NewHandler(db *mongo.Database, pub events.Publisher, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		DB:      db,
		Log:     logger,
		Audit:   audit,
		Events:  pub,
		subs:    submissionstore.New(db),
		present: shared.NewPresenter(db),
	}
}
