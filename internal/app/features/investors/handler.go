// Package investors serves the investor directory API.
package investors

import (
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	investorstore "github.com/dealroom-et/dealroom/internal/app/store/investors"
	"github.com/dealroom-et/dealroom/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Audit *auditlog.Logger

	investors *investorstore.Store
	present   *shared.Presenter
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	p := shared.NewPresenter(db)
	return &Handler{DB: db, Log: logger, Audit: audit, investors: p.Investors, present: p}
}
