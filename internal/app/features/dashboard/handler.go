// Package dashboard serves the read-only aggregate endpoints behind the
// landing page and the ecosystem overview.
package dashboard

import (
	"time"

	metricsstore "github.com/dealroom-et/dealroom/internal/app/store/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	metrics *metricsstore.Store
	now     func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		metrics: metricsstore.New(db),
		now:     time.Now,
	}
}
