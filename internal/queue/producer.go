package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Producer interface {
	Enqueue(ctx context.Context, task Task) (string, error)
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
}

func NewRedisProducer(client *redis.Client, stream string) Producer {
	return &redisProducer{
		client: client,
		stream: stream,
	}
}

// Enqueue adds task to the stream and returns the stream message id.
func (p *redisProducer) Enqueue(ctx context.Context, task Task) (string, error) {
	if task.Attempt <= 0 {
		task.Attempt = 1
	}

	msgID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: taskValues(task),
	}).Result()
	if err != nil {
		return "", fmt.Errorf("enqueue ticket: %w", err)
	}

	slog.InfoContext(ctx, "enqueued ticket",
		"ticket_id", task.TicketID,
		"message_id", msgID,
		"attempt", task.Attempt)
	return msgID, nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

func taskValues(task Task) map[string]any {
	values := map[string]any{
		"ticket_id":   task.TicketID,
		"subject":     task.Subject,
		"description": task.Description,
		"attempt":     task.Attempt,
	}
	if task.TraceID != "" {
		values["trace_id"] = task.TraceID
	}
	return values
}
