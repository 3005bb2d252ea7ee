// Package content serves curated editorial content: articles, reports,
// guides and similar items surfaced outside the directory listings.
package content

import (
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	contentstore "github.com/dealroom-et/dealroom/internal/app/store/curatedcontent"
	"github.com/dealroom-et/dealroom/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	// FeaturedLimit caps GET /curated-content/featured.
	FeaturedLimit = 6
	// PerTypeLimit caps each group of GET /curated-content/by_type.
	PerTypeLimit = 8
)

type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Audit *auditlog.Logger

	content *contentstore.Store
	present *shared.Presenter
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Audit:   audit,
		content: contentstore.New(db),
		present: shared.NewPresenter(db),
	}
}
