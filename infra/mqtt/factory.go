package mqtt

import (
	"github.com/kilianp07/fleetquote/core/factory"
	coremetrics "github.com/kilianp07/fleetquote/core/metrics"
)

func init() {
	_ = coremetrics.RegisterQuoteSink("mqtt", func(conf map[string]any) (coremetrics.QuoteSink, error) {
		var cfg Config
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		p, err := NewPublisher(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}
