package store

import (
	"time"

	"github.com/taskdeck/taskdeck/domain"
)

type options struct {
	latency time.Duration
	now     func() time.Time
	seeds   []domain.CreateRequest
}

// Option configures a Store at construction time.
type Option func(*options)

// WithLatency sets the simulated result-delivery latency. The default is
// zero, which keeps tests deterministic; production wiring passes the
// configured delay.
func WithLatency(d time.Duration) Option {
	return func(o *options) {
		o.latency = d
	}
}

// WithClock replaces the time source used for CreatedAt/UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithSeed pre-populates the store before it accepts operations.
func WithSeed(reqs ...domain.CreateRequest) Option {
	return func(o *options) {
		o.seeds = append(o.seeds, reqs...)
	}
}
