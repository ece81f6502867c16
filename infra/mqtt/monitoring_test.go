package mqtt

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/fleetquote/core/metrics"
	coremon "github.com/kilianp07/fleetquote/core/monitoring"
)

type recordMonitor struct {
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) CaptureMessage(string, map[string]string) {}
func (r *recordMonitor) Recover()                                 {}
func (r *recordMonitor) Flush(time.Duration)                      {}

func TestPublishErrorCaptured(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{}
	withMockClient(t, mc)
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	pub, err := NewPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1})
	require.NoError(t, err)
	mc.publishErrs = []error{fail, fail}

	err = pub.PublishQuote(coremetrics.QuoteEvent{VehicleID: "veh1", Time: time.Now()})
	require.ErrorIs(t, err, fail)
	require.Error(t, mon.err)
	assert.Equal(t, "veh1", mon.tags["vehicle_id"])
	assert.Equal(t, "mqtt", mon.tags["module"])
	assert.Equal(t, "fleetquote/quotes/veh1", mon.tags["topic"])
}
