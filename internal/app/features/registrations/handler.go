// Package registrations serves organization self-registration: the public
// signup endpoint and the review API used by staff.
package registrations

import (
	"github.com/dealroom-et/dealroom/internal/app/registration"
	metricsstore "github.com/dealroom-et/dealroom/internal/app/store/metrics"
	orgregstore "github.com/dealroom-et/dealroom/internal/app/store/orgregistrations"
	"github.com/dealroom-et/dealroom/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Audit *auditlog.Logger

	regs     *orgregstore.Store
	metrics  *metricsstore.Store
	reviewer *registration.Reviewer
}

func NewHandler(db *mongo.Database, reviewer *registration.Reviewer, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Audit:    audit,
		regs:     orgregstore.New(db),
		metrics:  metricsstore.New(db),
		reviewer: reviewer,
	}
}
