// Package txn runs multi-document writes inside a Mongo transaction when the
// deployment supports one, and falls back to plain sequential writes on a
// standalone server.
package txn

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Runner executes a unit of work, transactionally when possible.
type Runner struct {
	client      *mongo.Client
	log         *zap.Logger
	unsupported atomic.Bool
}

func New(client *mongo.Client, log *zap.Logger) *Runner {
	return &Runner{client: client, log: log}
}

// Run calls fn inside a transaction. The ctx passed to fn carries the session
// and must be used for every write that belongs to the unit of work. Once the
// server reports transactions are unavailable, later calls skip the attempt.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.client == nil || r.unsupported.Load() {
		return fn(ctx)
	}

	sess, err := r.client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			r.markUnsupported(err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		r.markUnsupported(err)
		return fn(ctx)
	}
	return err
}

func (r *Runner) markUnsupported(err error) {
	if r.unsupported.CompareAndSwap(false, true) && r.log != nil {
		r.log.Warn("mongo transactions unavailable; running writes without a transaction", zap.Error(err))
	}
}

// IsNotSupported reports whether err means the server cannot run transactions
// (standalone mongod, or an operation illegal inside a transaction).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, IllegalOperation (legacy), OperationNotSupportedInTransaction
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	both := func(a, b string) bool {
		return strings.Contains(msg, a) && strings.Contains(msg, b)
	}
	return both("transaction", "replica set") ||
		both("transaction", "session") ||
		both("session", "not supported") ||
		both("illegal operation", "transaction")
}
