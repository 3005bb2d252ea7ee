// Package fundingrounds serves funding rounds and their investor
// participations.
package fundingrounds

import (
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	fundingroundstore "github.com/dealroom-et/dealroom/internal/app/store/fundingrounds"
	"github.com/dealroom-et/dealroom/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RecentLimit caps GET /funding-rounds/recent.
const RecentLimit = 20

type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Audit *auditlog.Logger

	rounds  *fundingroundstore.Store
	present *shared.Presenter
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	p := shared.NewPresenter(db)
	return &Handler{DB: db, Log: logger, Audit: audit, rounds: p.Rounds, present: p}
}
