package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"sorteo-platform-backend/internal/common/logger"
)

const (
	EventStatusChanged  = "giveaway.status.changed"
	EventWinnerSelected = "giveaway.winner.selected"
)

// GiveawayEvent is the payload published for lifecycle changes.
type GiveawayEvent struct {
	Type        string    `json:"type"`
	GiveawayID  string    `json:"giveaway_id"`
	FromStatus  string    `json:"from_status,omitempty"`
	ToStatus    string    `json:"to_status,omitempty"`
	SelectionID string    `json:"selection_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher writes giveaway events to a single topic, keyed by giveaway
// id so per-giveaway ordering is preserved.
type Publisher struct {
	writer *kafka.Writer
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
	}
}

func (p *Publisher) PublishGiveawayEvent(ctx context.Context, event GiveawayEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.GiveawayID),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when no brokers are configured and in
// tests.
type NopPublisher struct{}

func (NopPublisher) PublishGiveawayEvent(ctx context.Context, event GiveawayEvent) error {
	logger.Debug().
		Str("type", event.Type).
		Str("giveaway_id", event.GiveawayID).
		Msg("Event publishing disabled, dropping event")
	return nil
}
