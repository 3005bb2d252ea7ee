// Package events publishes domain events to NATS so other services can react
// to registrations, promotions and contact messages.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Event subjects, appended to the configured prefix.
const (
	RegistrationSubmitted = "registrations.submitted"
	RegistrationApproved  = "registrations.approved"
	RegistrationRejected  = "registrations.rejected"
	RegistrationNeedsInfo = "registrations.needs_info"
	CompanyPromoted       = "companies.promoted"
	ContactReceived       = "contacts.received"
	SubmissionReceived    = "submissions.received"
)

// Publisher emits events. Publishing is fire-and-forget: failures are logged,
// never returned to the request path.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any)
}

// Envelope wraps every payload on the wire.
type Envelope struct {
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) {}

// NATS publishes events on a core NATS connection.
type NATS struct {
	nc     *nats.Conn
	prefix string
	log    *zap.Logger
}

// Connect dials url and returns a publisher that prefixes subjects with prefix.
func Connect(url, prefix string, log *zap.Logger) (*NATS, error) {
	nc, err := nats.Connect(url,
		nats.Name("dealroom"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error("nats error", zap.Error(err))
		}),
	)
	if err != nil {
		return nil, err
	}
	return &NATS{nc: nc, prefix: prefix, log: log}, nil
}

// Subject returns the fully qualified subject for an event name.
func (p *NATS) Subject(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + "." + name
}

func (p *NATS) Publish(_ context.Context, subject string, payload any) {
	full := p.Subject(subject)
	data, err := Encode(full, payload, time.Now().UTC())
	if err != nil {
		p.log.Error("event encode failed", zap.String("subject", full), zap.Error(err))
		return
	}
	if err := p.nc.Publish(full, data); err != nil {
		p.log.Warn("event publish failed", zap.String("subject", full), zap.Error(err))
	}
}

// Close flushes pending messages and closes the connection.
func (p *NATS) Close() error {
	if p == nil || p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}

// Encode renders the wire form of an event.
func Encode(subject string, payload any, at time.Time) ([]byte, error) {
	return json.Marshal(Envelope{Subject: subject, OccurredAt: at, Payload: payload})
}
