package usecase

import (
	"log/slog"
	"time"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/ports"
)

type options struct {
	resolver *domain.VarResolver
	store    ports.ExchangeStore
	log      *slog.Logger
	now      func() time.Time
}

// Option configures RunBatch and ValidateBatch.
type Option func(*options)

func WithVarResolver(vr *domain.VarResolver) Option {
	return func(o *options) {
		if vr != nil {
			o.resolver = vr
		}
	}
}

// WithStore persists finished runs. Without a store runs are only returned.
func WithStore(s ports.ExchangeStore) Option {
	return func(o *options) { o.store = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		resolver: domain.NewVarResolver(),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
