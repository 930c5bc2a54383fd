// Package mqtt publishes pet snapshots to an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/fi-collar/pet-tracker/internal/pet"
	"github.com/fi-collar/pet-tracker/internal/snapshot"
	"github.com/fi-collar/pet-tracker/internal/tracker"
	"github.com/rs/zerolog"
)

const disconnectQuiesce = 250

// publishClient is the part of paho.Client the publisher uses.
type publishClient interface {
	Publish(topic string, qos byte, retained bool, payload any) paho.Token
}

// Publisher sends location events to <prefix>/<petId>/location. It implements tracker.Sink.
type Publisher struct {
	client  publishClient
	prefix  string
	builder *snapshot.Builder
	logger  *zerolog.Logger
}

var _ tracker.Sink = (*Publisher)(nil)

// Dial connects to the broker and returns a publisher and a function that disconnects it.
func Dial(brokerURL, clientID, prefix string, builder *snapshot.Builder, logger zerolog.Logger) (*Publisher, func(), error) {
	opts := paho.NewClientOptions().AddBroker(brokerURL).SetClientID(clientID)
	opts = opts.SetOrderMatters(false).SetAutoReconnect(true).SetConnectTimeout(10 * time.Second)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("failed to connect to broker: %w", token.Error())
	}
	l := logger.With().Str("component", "mqtt").Logger()
	l.Info().Str("broker", brokerURL).Str("clientId", clientID).Msg("Connected to MQTT broker")

	return newPublisher(client, prefix, builder, &l), func() { client.Disconnect(disconnectQuiesce) }, nil
}

func newPublisher(client publishClient, prefix string, builder *snapshot.Builder, logger *zerolog.Logger) *Publisher {
	return &Publisher{
		client:  client,
		prefix:  prefix,
		builder: builder,
		logger:  logger,
	}
}

// Topic returns the location topic of a pet.
func (p *Publisher) Topic(petID string) string {
	return fmt.Sprintf("%s/%s/location", p.prefix, petID)
}

// Publish sends the location event of view. Views without a location are skipped.
func (p *Publisher) Publish(ctx context.Context, view tracker.PetView) error {
	event, err := p.builder.LocationEvent(view)
	if errors.Is(err, pet.ErrNoLocation) {
		return nil
	}
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	topic := p.Topic(view.ID)
	token := p.client.Publish(topic, 0, false, data)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.logger.Debug().Str("topic", topic).Str("eventId", event.ID).Msg("Published location")
	return nil
}
