package handler_test

import (
	"context"
	"errors"

	"basegraph.app/helpdesk/internal/model"
	"basegraph.app/helpdesk/internal/queue"
	"basegraph.app/helpdesk/internal/service"
)

type mockTicketService struct {
	submitFn          func(ctx context.Context, params service.TicketParams) (model.TicketState, error)
	enqueueFn         func(ctx context.Context, params service.TicketParams) (*service.EnqueueResult, error)
	getFn             func(ctx context.Context, ticketID int64) (queue.TicketResult, error)
	listEscalationsFn func(ctx context.Context, limit int) ([]model.EscalationRecord, error)
}

func (m *mockTicketService) Submit(ctx context.Context, params service.TicketParams) (model.TicketState, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, params)
	}
	return model.TicketState{}, errors.New("mock not configured")
}

func (m *mockTicketService) Enqueue(ctx context.Context, params service.TicketParams) (*service.EnqueueResult, error) {
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, params)
	}
	return nil, errors.New("mock not configured")
}

func (m *mockTicketService) Get(ctx context.Context, ticketID int64) (queue.TicketResult, error) {
	if m.getFn != nil {
		return m.getFn(ctx, ticketID)
	}
	return queue.TicketResult{}, queue.ErrResultNotFound
}

func (m *mockTicketService) ListEscalations(ctx context.Context, limit int) ([]model.EscalationRecord, error) {
	if m.listEscalationsFn != nil {
		return m.listEscalationsFn(ctx, limit)
	}
	return nil, nil
}
