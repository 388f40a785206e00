package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/helpdesk/internal/model"
	"basegraph.app/helpdesk/internal/queue"
)

// Processor runs a queued ticket through the pipeline and publishes the
// outcome to the result store.
type Processor struct {
	pipeline Pipeline
	results  queue.ResultStore
}

func NewProcessor(pipeline Pipeline, results queue.ResultStore) *Processor {
	return &Processor{pipeline: pipeline, results: results}
}

func (p *Processor) Process(ctx context.Context, msg queue.Message) (model.TicketState, error) {
	ticket, err := p.pipeline.ProcessTicket(ctx, msg.TicketID, msg.Subject, msg.Description)
	if err != nil {
		return model.TicketState{}, err
	}

	if putErr := p.results.Put(ctx, queue.TicketResult{
		TicketID:  msg.TicketID,
		Status:    queue.ResultStatusCompleted,
		Ticket:    &ticket,
		Attempt:   msg.Attempt,
		UpdatedAt: time.Now().UTC(),
	}); putErr != nil {
		// Not retried: the escalation record may already be written.
		slog.ErrorContext(ctx, "failed to store ticket result", "error", putErr)
	}
	return ticket, nil
}

// MarkFailed records a failed or retrying ticket. Errors are logged only.
func (p *Processor) MarkFailed(ctx context.Context, msg queue.Message, status queue.ResultStatus, cause error) {
	err := p.results.Put(ctx, queue.TicketResult{
		TicketID:  msg.TicketID,
		Status:    status,
		Error:     cause.Error(),
		Attempt:   msg.Attempt,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to store ticket result",
			"status", status,
			"error", fmt.Errorf("put %s result: %w", status, err))
	}
}
