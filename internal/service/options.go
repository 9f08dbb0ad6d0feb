package service

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/notify"
)

// Option configures the optional collaborators shared by all services.
type Option func(*options)

type options struct {
	dispatcher      notify.Dispatcher
	logger          *slog.Logger
	observer        UseCaseObserver
	now             func() time.Time
	defaultRequired int
}

func newOptions(opts []Option) options {
	o := options{
		dispatcher:      notify.Noop{},
		logger:          slog.Default(),
		observer:        NoopUseCaseObserver{},
		now:             func() time.Time { return time.Now().UTC() },
		defaultRequired: domain.DefaultRequiredApprovals,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDispatcher sets the notification sink. Defaults to notify.Noop.
func WithDispatcher(d notify.Dispatcher) Option {
	return func(o *options) {
		if d != nil {
			o.dispatcher = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithObserver(obs UseCaseObserver) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithClock overrides the time source. Returned times are converted to UTC.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = func() time.Time { return now().UTC() }
		}
	}
}

// WithDefaultRequiredApprovals sets the quota used when a subtask is
// created without one. Non-positive values are ignored.
func WithDefaultRequiredApprovals(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.defaultRequired = n
		}
	}
}
