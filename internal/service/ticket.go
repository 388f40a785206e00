package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"basegraph.app/helpdesk/common/id"
	"basegraph.app/helpdesk/common/logger"
	"basegraph.app/helpdesk/internal/model"
	"basegraph.app/helpdesk/internal/queue"
)

var ErrInvalidTicket = errors.New("ticket needs a subject or a description")

// Pipeline runs one ticket to a terminal state. Satisfied by *brain.Orchestrator.
type Pipeline interface {
	ProcessTicket(ctx context.Context, ticketID int64, subject, description string) (model.TicketState, error)
}

// EscalationLister reads back the escalation log.
type EscalationLister interface {
	List(ctx context.Context, limit int) ([]model.EscalationRecord, error)
}

type TicketParams struct {
	Subject     string
	Description string
	TraceID     *string
}

type EnqueueResult struct {
	TicketID  int64
	MessageID string
}

type TicketService interface {
	// Submit processes the ticket in the request path.
	Submit(ctx context.Context, params TicketParams) (model.TicketState, error)
	// Enqueue hands the ticket to the worker and returns its assigned id.
	Enqueue(ctx context.Context, params TicketParams) (*EnqueueResult, error)
	Get(ctx context.Context, ticketID int64) (queue.TicketResult, error)
	ListEscalations(ctx context.Context, limit int) ([]model.EscalationRecord, error)
}

type ticketService struct {
	pipeline    Pipeline
	producer    queue.Producer
	results     queue.ResultStore
	escalations EscalationLister
}

func NewTicketService(pipeline Pipeline, producer queue.Producer, results queue.ResultStore, escalations EscalationLister) TicketService {
	return &ticketService{
		pipeline:    pipeline,
		producer:    producer,
		results:     results,
		escalations: escalations,
	}
}

func (s *ticketService) Submit(ctx context.Context, params TicketParams) (model.TicketState, error) {
	if err := validate(params); err != nil {
		return model.TicketState{}, err
	}

	ticketID := id.New()
	ctx = logger.WithLogFields(ctx, logger.LogFields{TicketID: &ticketID})

	ticket, err := s.pipeline.ProcessTicket(ctx, ticketID, params.Subject, params.Description)
	if err != nil {
		return model.TicketState{}, err
	}

	// Synchronous tickets are cached too so GET works for both paths.
	if putErr := s.results.Put(ctx, queue.TicketResult{
		TicketID:  ticketID,
		Status:    queue.ResultStatusCompleted,
		Ticket:    &ticket,
		Attempt:   1,
		UpdatedAt: time.Now().UTC(),
	}); putErr != nil {
		slog.WarnContext(ctx, "failed to cache ticket result", "error", putErr)
	}

	return ticket, nil
}

func (s *ticketService) Enqueue(ctx context.Context, params TicketParams) (*EnqueueResult, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	ticketID := id.New()
	ctx = logger.WithLogFields(ctx, logger.LogFields{TicketID: &ticketID})

	if err := s.results.Put(ctx, queue.TicketResult{
		TicketID:  ticketID,
		Status:    queue.ResultStatusQueued,
		Attempt:   1,
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("storing queued result: %w", err)
	}

	task := queue.Task{
		TicketID:    ticketID,
		Subject:     params.Subject,
		Description: params.Description,
		Attempt:     1,
	}
	if params.TraceID != nil {
		task.TraceID = *params.TraceID
	}

	msgID, err := s.producer.Enqueue(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("enqueueing ticket: %w", err)
	}

	slog.InfoContext(ctx, "ticket enqueued", "message_id", msgID)

	return &EnqueueResult{TicketID: ticketID, MessageID: msgID}, nil
}

func (s *ticketService) Get(ctx context.Context, ticketID int64) (queue.TicketResult, error) {
	return s.results.Get(ctx, ticketID)
}

func (s *ticketService) ListEscalations(ctx context.Context, limit int) ([]model.EscalationRecord, error) {
	records, err := s.escalations.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing escalations: %w", err)
	}
	return records, nil
}

func validate(params TicketParams) error {
	if strings.TrimSpace(params.Subject) == "" && strings.TrimSpace(params.Description) == "" {
		return ErrInvalidTicket
	}
	return nil
}
