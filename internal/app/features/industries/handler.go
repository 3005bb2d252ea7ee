// Package industries serves the industry taxonomy API.
package industries

import (
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	industrystore "github.com/dealroom-et/dealroom/internal/app/store/industries"
	"github.com/dealroom-et/dealroom/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Audit *auditlog.Logger

	industries *industrystore.Store
	present    *shared.Presenter
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	p := shared.NewPresenter(db)
	return &Handler{
		DB:         db,
		Log:        logger,
		Audit:      audit,
		industries: p.Industries,
		present:    p,
	}
}
