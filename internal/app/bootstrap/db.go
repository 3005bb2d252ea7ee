// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/dealroom-et/dealroom/internal/app/system/events"
	"github.com/dealroom-et/dealroom/internal/app/system/indexes"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/app/system/txn"
	"github.com/dealroom-et/dealroom/internal/app/system/validators"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and, when configured, the NATS
// connection used for domain events. A NATS failure is logged and events
// fall back to a no-op publisher; MongoDB is required.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetAppName("dealroom").
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Tx:            txn.New(client, logger),
		Events:        events.Nop{},
	}

	if appCfg.NATSURL != "" {
		pub, err := events.Connect(appCfg.NATSURL, appCfg.NATSSubjectPrefix, logger)
		if err != nil {
			logger.Warn("nats unavailable; domain events disabled", zap.String("url", appCfg.NATSURL), zap.Error(err))
		} else {
			logger.Info("publishing domain events", zap.String("url", appCfg.NATSURL), zap.String("prefix", appCfg.NATSSubjectPrefix))
			deps.Events = pub
			deps.nats = pub
		}
	}
	return deps, nil
}

// EnsureSchema creates the collections with their validators, then the
// indexes, including the unique constraints the promotion workflow relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		logger.Warn("collection validators incomplete", zap.Error(err))
	}
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}
