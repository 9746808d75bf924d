package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/domain"
)

const EventAnalysisCompleted = "analysis.completed"

// Event is the JSON envelope published for every completed analysis.
type Event struct {
	Type     string          `json:"type"`
	SentAt   time.Time       `json:"sent_at"`
	Analysis domain.Analysis `json:"analysis"`
}

// MQTTPublisher pushes analysis events to a broker topic.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

func NewMQTTPublisher(broker, clientID, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	log.Info().Str("broker", broker).Str("topic", topic).Msg("mqtt publisher connected")
	return newMQTTPublisher(client, topic), nil
}

func newMQTTPublisher(client mqtt.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic}
}

func (p *MQTTPublisher) Name() string { return "mqtt" }

func (p *MQTTPublisher) Publish(ctx context.Context, a domain.Analysis) error {
	payload, err := json.Marshal(Event{Type: EventAnalysisCompleted, SentAt: time.Now().UTC(), Analysis: a})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	token := p.client.Publish(p.topic, 1, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish: %w", ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
