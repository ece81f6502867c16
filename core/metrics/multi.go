package metrics

import "errors"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []QuoteSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...QuoteSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordQuote forwards the event to every sink and joins their errors.
func (m *MultiSink) RecordQuote(ev QuoteEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordQuote(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordSelection forwards to the sinks implementing SelectionRecorder.
func (m *MultiSink) RecordSelection(ev SelectionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(SelectionRecorder); ok {
			if err := rec.RecordSelection(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordRejection forwards to the sinks implementing RejectionRecorder.
func (m *MultiSink) RecordRejection(ev RejectionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(RejectionRecorder); ok {
			if err := rec.RecordRejection(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks holding connections.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
