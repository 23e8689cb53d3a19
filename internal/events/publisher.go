// Package events carries sync progress over Watermill topics.
package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/benx421/bank-sync/internal/models"
)

const (
	// TopicProgress receives one event per processed page.
	TopicProgress = "transaction_sync_progress"

	// TopicComplete receives exactly one event per finished run.
	TopicComplete = "transaction_sync_complete"

	metadataSetting = "setting"
	metadataStatus  = "status"
)

// NewGoChannel creates the in-process pub/sub used between the sync engine
// and its subscribers.
func NewGoChannel(buffer int64, logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: buffer},
		watermill.NewSlogLogger(logger),
	)
}

// Publisher serializes progress events onto Watermill topics.
type Publisher struct {
	pub message.Publisher
}

// NewPublisher wraps a Watermill publisher.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// PublishProgress publishes a per-page snapshot.
func (p *Publisher) PublishProgress(ctx context.Context, event models.ProgressEvent) error {
	return p.publish(ctx, TopicProgress, event)
}

// PublishComplete publishes the final summary of a run.
func (p *Publisher) PublishComplete(ctx context.Context, event models.ProgressEvent) error {
	return p.publish(ctx, TopicComplete, event)
}

func (p *Publisher) publish(ctx context.Context, topic string, event models.ProgressEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal progress event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metadataSetting, event.Setting)
	msg.Metadata.Set(metadataStatus, string(event.Status))
	msg.SetContext(ctx)

	if err := p.pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Decode parses the payload of a progress message.
func Decode(msg *message.Message) (models.ProgressEvent, error) {
	var event models.ProgressEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return models.ProgressEvent{}, fmt.Errorf("decode progress event %s: %w", msg.UUID, err)
	}
	return event, nil
}
