package metrics

import (
	"github.com/kilianp07/fleetquote/core/factory"
	coremetrics "github.com/kilianp07/fleetquote/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterQuoteSink("nop", func(map[string]any) (coremetrics.QuoteSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterQuoteSink("prometheus", func(map[string]any) (coremetrics.QuoteSink, error) {
		s, err := NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, err
		}
		return s, nil
	})

	_ = coremetrics.RegisterQuoteSink("influx", func(conf map[string]any) (coremetrics.QuoteSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
