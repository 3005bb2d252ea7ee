// Package timeouts holds the per-operation deadlines used by handlers and
// stores. Values are process-wide and set once at startup.
package timeouts

import (
	"context"
	"sync/atomic"
	"time"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var (
	ping   atomic.Int64
	short  atomic.Int64
	medium atomic.Int64
	long   atomic.Int64
)

func init() { Reset() }

// Ping bounds connectivity checks.
func Ping() time.Duration { return time.Duration(ping.Load()) }

// Short bounds single-document reads and writes.
func Short() time.Duration { return time.Duration(short.Load()) }

// Medium bounds list queries and aggregates.
func Medium() time.Duration { return time.Duration(medium.Load()) }

// Long bounds multi-collection writes such as registration promotion.
func Long() time.Duration { return time.Duration(long.Load()) }

// Config overrides the defaults. Zero or negative fields keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

func Configure(cfg Config) {
	set := func(v *atomic.Int64, d time.Duration) {
		if d > 0 {
			v.Store(int64(d))
		}
	}
	set(&ping, cfg.Ping)
	set(&short, cfg.Short)
	set(&medium, cfg.Medium)
	set(&long, cfg.Long)
}

// Reset restores the defaults.
func Reset() {
	ping.Store(int64(DefaultPing))
	short.Store(int64(DefaultShort))
	medium.Store(int64(DefaultMedium))
	long.Store(int64(DefaultLong))
}

// Current reports the active values.
func Current() Config {
	return Config{Ping: Ping(), Short: Short(), Medium: Medium(), Long: Long()}
}

// WithTimeout derives a context bounded by d.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}
