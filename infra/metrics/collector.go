package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/fleetquote/core/metrics"
	"github.com/kilianp07/fleetquote/core/monitoring"
	"github.com/kilianp07/fleetquote/infra/logger"
	"github.com/kilianp07/fleetquote/internal/eventbus"
)

// BusSink publishes events on an event bus instead of recording them. Paired
// with StartEventCollector it moves slow sinks off the request path.
type BusSink struct {
	Bus eventbus.EventBus
}

func (b BusSink) RecordQuote(ev coremetrics.QuoteEvent) error {
	b.Bus.Publish(ev)
	return nil
}

func (b BusSink) RecordSelection(ev coremetrics.SelectionEvent) error {
	b.Bus.Publish(ev)
	return nil
}

func (b BusSink) RecordRejection(ev coremetrics.RejectionEvent) error {
	b.Bus.Publish(ev)
	return nil
}

// StartEventCollector subscribes to the event bus and records events in sink.
// It stops when the context is canceled or the bus is closed; the returned
// channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.QuoteSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Errorf("record %T: %v", ev, err)
					monitoring.CaptureException(err, map[string]string{"component": "metrics"})
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.QuoteSink, ev eventbus.Event) error {
	switch e := ev.(type) {
	case coremetrics.QuoteEvent:
		return sink.RecordQuote(e)
	case coremetrics.SelectionEvent:
		if r, ok := sink.(coremetrics.SelectionRecorder); ok {
			return r.RecordSelection(e)
		}
	case coremetrics.RejectionEvent:
		if r, ok := sink.(coremetrics.RejectionRecorder); ok {
			return r.RecordRejection(e)
		}
	}
	return nil
}
