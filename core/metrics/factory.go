package metrics

import "github.com/kilianp07/fleetquote/core/factory"

var sinkRegistry = factory.NewRegistry[QuoteSink]()

// RegisterQuoteSink adds a sink factory identified by name.
func RegisterQuoteSink(name string, f factory.Factory[QuoteSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink types.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewQuoteSink creates a QuoteSink from the provided configuration.
func NewQuoteSink(cfgs []factory.ModuleConfig) (QuoteSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]QuoteSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
