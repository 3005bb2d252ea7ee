// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dealroom-et/dealroom/internal/app/system/events"
	"github.com/dealroom-et/dealroom/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and broker dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Tx runs promotion writes in a transaction when the deployment allows.
	Tx *txn.Runner

	// Events is a NATS publisher, or events.Nop when nats_url is blank.
	Events events.Publisher
	nats   *events.NATS
}
