package worker

import (
	"context"

	"basegraph.app/helpdesk/internal/model"
	"basegraph.app/helpdesk/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// Pipeline runs one ticket to a terminal state. Satisfied by *brain.Orchestrator.
type Pipeline interface {
	ProcessTicket(ctx context.Context, ticketID int64, subject, description string) (model.TicketState, error)
}

// MessageHandler processes a message and settles it (ack, requeue or DLQ).
type MessageHandler func(ctx context.Context, msg queue.Message)
