package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"basegraph.app/helpdesk/internal/model"
)

var ErrResultNotFound = errors.New("ticket result not found")

type ResultStatus string

const (
	ResultStatusQueued    ResultStatus = "queued"
	ResultStatusRetrying  ResultStatus = "retrying"
	ResultStatusCompleted ResultStatus = "completed"
	ResultStatusFailed    ResultStatus = "failed"
)

// TicketResult is what GET /api/v1/tickets/:id reports for an enqueued ticket.
type TicketResult struct {
	TicketID  int64              `json:"ticket_id,string"`
	Status    ResultStatus       `json:"status"`
	Ticket    *model.TicketState `json:"ticket,omitempty"`
	Error     string             `json:"error,omitempty"`
	Attempt   int                `json:"attempt"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type ResultStore interface {
	Put(ctx context.Context, result TicketResult) error
	Get(ctx context.Context, ticketID int64) (TicketResult, error)
}

type redisResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisResultStore keeps results as JSON under ticket-result:{id} for ttl.
func NewRedisResultStore(client *redis.Client, ttl time.Duration) ResultStore {
	return &redisResultStore{client: client, ttl: ttl}
}

func (s *redisResultStore) Put(ctx context.Context, result TicketResult) error {
	if result.UpdatedAt.IsZero() {
		result.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal ticket result: %w", err)
	}
	if err := s.client.Set(ctx, resultKey(result.TicketID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing ticket result: %w", err)
	}
	return nil
}

func (s *redisResultStore) Get(ctx context.Context, ticketID int64) (TicketResult, error) {
	data, err := s.client.Get(ctx, resultKey(ticketID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return TicketResult{}, ErrResultNotFound
		}
		return TicketResult{}, fmt.Errorf("loading ticket result: %w", err)
	}

	var result TicketResult
	if err := json.Unmarshal(data, &result); err != nil {
		return TicketResult{}, fmt.Errorf("unmarshal ticket result: %w", err)
	}
	return result, nil
}
