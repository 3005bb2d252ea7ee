// Package companies serves the company directory API.
package companies

import (
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	companystore "github.com/dealroom-et/dealroom/internal/app/store/companies"
	metricsstore "github.com/dealroom-et/dealroom/internal/app/store/metrics"
	"github.com/dealroom-et/dealroom/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Audit *auditlog.Logger

	companies *companystore.Store
	metrics   *metricsstore.Store
	present   *shared.Presenter
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		Audit:     audit,
		companies: companystore.New(db),
		metrics:   metricsstore.New(db),
		present:   shared.NewPresenter(db),
	}
}
