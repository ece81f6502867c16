package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremetrics "github.com/kilianp07/fleetquote/core/metrics"
	"github.com/kilianp07/fleetquote/core/model"
	"github.com/kilianp07/fleetquote/core/monitoring"
	"github.com/kilianp07/fleetquote/infra/logger"
)

// QuoteMessage is the JSON payload published for every quote.
type QuoteMessage struct {
	QuoteID        string              `json:"quote_id"`
	VehicleID      string              `json:"vehicle_id"`
	TransportType  model.TransportType `json:"transport_type"`
	ServiceLevel   model.ServiceLevel  `json:"service_level"`
	Oversize       bool                `json:"oversize"`
	MinimumApplied bool                `json:"minimum_applied"`
	DistanceKm     float64             `json:"distance_km"`
	WeightKg       float64             `json:"weight_kg"`
	PriceToClient  float64             `json:"price_to_client"`
	Timestamp      int64               `json:"timestamp"`
}

// SelectionMessage is the JSON payload published for automatic selections.
type SelectionMessage struct {
	VehicleID string  `json:"vehicle_id"`
	Oversize  bool    `json:"oversize"`
	Suitable  int     `json:"suitable"`
	WeightKg  float64 `json:"weight_kg"`
	VolumeM3  float64 `json:"volume_m3"`
	Timestamp int64   `json:"timestamp"`
}

// Publisher sends quote summaries to an MQTT broker. It implements
// metrics.QuoteSink and metrics.SelectionRecorder.
type Publisher struct {
	cli    pahoClient
	cfg    Config
	logger logger.Logger
}

// NewPublisher connects to the broker and announces the service as online
// on the LWT topic.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_publisher")
	p := &Publisher{cfg: cfg, logger: log}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if cfg.LWTTopic == "" {
			return
		}
		if token := c.Publish(cfg.LWTTopic, cfg.LWTQoS, cfg.LWTRetain, "online"); token.Wait() && token.Error() != nil {
			log.Errorf("status publish error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p.cli = c
	return p, nil
}

// QuoteTopic returns the topic quotes for vehicleID are published to.
func (p *Publisher) QuoteTopic(vehicleID string) string {
	return fmt.Sprintf("%s/quotes/%s", p.cfg.TopicPrefix, vehicleID)
}

// PublishQuote sends the quote summary, retrying with exponential backoff.
func (p *Publisher) PublishQuote(ev coremetrics.QuoteEvent) error {
	msg := QuoteMessage{
		QuoteID:        ev.QuoteID,
		VehicleID:      ev.VehicleID,
		TransportType:  ev.TransportType,
		ServiceLevel:   ev.ServiceLevel,
		Oversize:       ev.Oversize,
		MinimumApplied: ev.MinimumApplied,
		DistanceKm:     ev.DistanceKm,
		WeightKg:       ev.WeightKg,
		PriceToClient:  ev.PriceToClient,
		Timestamp:      ev.Time.UnixMilli(),
	}
	return p.publish(p.QuoteTopic(ev.VehicleID), p.cfg.qos("quote"), msg, ev.VehicleID)
}

// RecordQuote implements metrics.QuoteSink.
func (p *Publisher) RecordQuote(ev coremetrics.QuoteEvent) error { return p.PublishQuote(ev) }

// RecordSelection publishes the selected vehicle.
func (p *Publisher) RecordSelection(ev coremetrics.SelectionEvent) error {
	msg := SelectionMessage{
		VehicleID: ev.VehicleID,
		Oversize:  ev.Oversize,
		Suitable:  ev.Suitable,
		WeightKg:  ev.WeightKg,
		VolumeM3:  ev.VolumeM3,
		Timestamp: ev.Time.UnixMilli(),
	}
	topic := fmt.Sprintf("%s/selections/%s", p.cfg.TopicPrefix, ev.VehicleID)
	return p.publish(topic, p.cfg.qos("selection"), msg, ev.VehicleID)
}

func (p *Publisher) publish(topic string, qos byte, msg any, vehicleID string) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		token := p.cli.Publish(topic, qos, p.cfg.Retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Debugf("published to %s", topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.cfg.MaxRetries {
			time.Sleep(p.cfg.backoff() * time.Duration(1<<attempt))
		}
	}
	monitoring.CaptureException(publishErr, map[string]string{
		"module":     "mqtt",
		"topic":      topic,
		"vehicle_id": vehicleID,
	})
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close gracefully closes the MQTT connection.
func (p *Publisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
