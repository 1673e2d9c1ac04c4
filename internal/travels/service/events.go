package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const eventChannelPrefix = "travel:events:" // Pub/Sub channel per project: travel:events:{public_id}

// CompletionEvent is published whenever recomputation flips a project's
// completion flag.
type CompletionEvent struct {
	EventID     string    `json:"event_id"`
	ProjectID   string    `json:"project_id"`
	IsCompleted bool      `json:"is_completed"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher broadcasts completion transitions to interested consumers.
type EventPublisher interface {
	PublishCompletion(ctx context.Context, ev CompletionEvent) error
}

// RedisEventPublisher publishes completion events on a per-project redis
// channel.
type RedisEventPublisher struct {
	client *redis.Client
}

func NewRedisEventPublisher(client *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{client: client}
}

func (p *RedisEventPublisher) PublishCompletion(ctx context.Context, ev CompletionEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal completion event: %w", err)
	}

	channel := eventChannelPrefix + ev.ProjectID
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish completion event: %w", err)
	}
	return nil
}
