package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/benx421/bank-sync/internal/models"
)

// Monitor subscribes to both progress topics, logs every event and keeps the
// latest one per setting. It is a suture service.
type Monitor struct {
	sub    message.Subscriber
	logger *slog.Logger
	latest map[string]models.ProgressEvent
	mu     sync.RWMutex
}

// NewMonitor creates a Monitor reading from sub.
func NewMonitor(sub message.Subscriber, logger *slog.Logger) *Monitor {
	return &Monitor{
		sub:    sub,
		logger: logger.With("component", "progress-monitor"),
		latest: make(map[string]models.ProgressEvent),
	}
}

// Serve implements suture.Service.
func (m *Monitor) Serve(ctx context.Context) error {
	progress, err := m.sub.Subscribe(ctx, TopicProgress)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicProgress, err)
	}
	complete, err := m.sub.Subscribe(ctx, TopicComplete)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicComplete, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-progress:
			if !ok {
				return m.closed(ctx, TopicProgress)
			}
			m.handle(msg, false)
		case msg, ok := <-complete:
			if !ok {
				return m.closed(ctx, TopicComplete)
			}
			m.handle(msg, true)
		}
	}
}

// closed reports why a subscription channel ended. The channels close on
// context cancellation too.
func (m *Monitor) closed(ctx context.Context, topic string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%s subscription closed", topic)
}

// String implements fmt.Stringer for suture logs.
func (m *Monitor) String() string {
	return "progress-monitor"
}

// Latest returns the most recent event seen for setting.
func (m *Monitor) Latest(setting string) (models.ProgressEvent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	event, ok := m.latest[setting]
	return event, ok
}

func (m *Monitor) handle(msg *message.Message, final bool) {
	defer msg.Ack()

	event, err := Decode(msg)
	if err != nil {
		m.logger.Warn("dropping undecodable progress event", "error", err)
		return
	}

	m.mu.Lock()
	m.latest[event.Setting] = event
	m.mu.Unlock()

	attrs := []any{
		"setting", event.Setting,
		"status", event.Status,
		"processed", event.Processed,
		"created", event.Created,
		"errors", event.Errors,
		"progress", event.ProgressPercent,
	}
	if final {
		m.logger.Info("sync finished", append(attrs, "message", event.Message)...)
		return
	}
	m.logger.Debug("sync progress", attrs...)
}
