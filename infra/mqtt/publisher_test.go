package mqtt

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/fleetquote/core/metrics"
	"github.com/kilianp07/fleetquote/core/model"
)

func TestPublisherAnnouncesOnline(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)

	pub, err := NewPublisher(Config{Broker: "tcp://localhost:1883", TopicPrefix: "acme"})
	require.NoError(t, err)

	require.Len(t, mc.published, 1)
	assert.Equal(t, "acme/status", mc.published[0].topic)
	assert.Equal(t, "online", string(mc.published[0].payload))
	assert.True(t, mc.published[0].retained)
	assert.True(t, mc.opts.WillEnabled)
	assert.Equal(t, "offline", string(mc.opts.WillPayload))

	pub.Close()
	assert.True(t, mc.disconnected)
}

func TestPublishQuotePayloadAndQoS(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)

	pub, err := NewPublisher(Config{
		Broker:    "tcp://localhost:1883",
		QoS:       map[string]byte{"quote": 1, "selection": 2},
		LWTTopic:  "custom/lwt",
		LWTQoS:    1,
		BackoffMS: 1,
	})
	require.NoError(t, err)
	mc.published = nil

	now := time.UnixMilli(1700000000123)
	var sink coremetrics.QuoteSink = pub
	require.NoError(t, sink.RecordQuote(coremetrics.QuoteEvent{
		QuoteID:       "q1",
		VehicleID:     "rabon",
		TransportType: model.TransportFTL,
		PriceToClient: 4005.27,
		Time:          now,
	}))
	require.NoError(t, pub.RecordSelection(coremetrics.SelectionEvent{VehicleID: "rabon", Suitable: 3, Time: now}))

	require.Len(t, mc.published, 2)
	assert.Equal(t, pub.QuoteTopic("rabon"), mc.published[0].topic)
	assert.Equal(t, "fleetquote/quotes/rabon", mc.published[0].topic)
	assert.Equal(t, byte(1), mc.published[0].qos)
	assert.Equal(t, "fleetquote/selections/rabon", mc.published[1].topic)
	assert.Equal(t, byte(2), mc.published[1].qos)

	var msg QuoteMessage
	require.NoError(t, json.Unmarshal(mc.published[0].payload, &msg))
	assert.Equal(t, "q1", msg.QuoteID)
	assert.Equal(t, 4005.27, msg.PriceToClient)
	assert.Equal(t, now.UnixMilli(), msg.Timestamp)
}

func TestPublishRetries(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)

	pub, err := NewPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 2, BackoffMS: 1})
	require.NoError(t, err)
	mc.published = nil
	mc.publishErrs = []error{fmt.Errorf("net fail"), nil}

	require.NoError(t, pub.PublishQuote(coremetrics.QuoteEvent{VehicleID: "van-1.5t"}))
	assert.Len(t, mc.published, 2)
}

func TestNewPublisherRequiresBroker(t *testing.T) {
	_, err := NewPublisher(Config{})
	assert.Error(t, err)
}

func TestMQTTSinkRegistered(t *testing.T) {
	assert.Contains(t, coremetrics.SinkTypes(), "mqtt")
}
