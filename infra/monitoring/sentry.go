package monitoring

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/fleetquote/config"
	coremon "github.com/kilianp07/fleetquote/core/monitoring"
)

// NewSentryMonitor initializes Sentry using the provided configuration and
// returns a Monitor implementation. An empty DSN disables reporting.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
		ServerName:       "fleetquote",
	})
	if err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}
	return &sentryMonitor{hub: sentry.CurrentHub()}, nil
}

type sentryMonitor struct {
	hub *sentry.Hub
}

func (s *sentryMonitor) withTags(tags map[string]string, f func(h *sentry.Hub)) {
	if len(tags) == 0 {
		f(s.hub)
		return
	}
	h := s.hub.Clone()
	h.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
	})
	f(h)
}

func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	s.withTags(tags, func(h *sentry.Hub) { h.CaptureException(err) })
}

func (s *sentryMonitor) CaptureMessage(msg string, tags map[string]string) {
	s.withTags(tags, func(h *sentry.Hub) { h.CaptureMessage(msg) })
}

func (s *sentryMonitor) Recover() {
	if r := recover(); r != nil {
		s.ReportPanic(r)
		panic(r)
	}
}

// ReportPanic sends a recovered panic value and flushes it.
func (s *sentryMonitor) ReportPanic(v any) {
	s.hub.Recover(v)
	s.hub.Flush(2 * time.Second)
}

func (s *sentryMonitor) Flush(timeout time.Duration) { s.hub.Flush(timeout) }
