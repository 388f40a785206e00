package worker_test

import (
	"context"
	"sync"

	"basegraph.app/helpdesk/internal/model"
	"basegraph.app/helpdesk/internal/queue"
)

type mockConsumer struct {
	mu        sync.Mutex
	readFn    func(ctx context.Context) ([]queue.Message, error)
	ackFn     func(ctx context.Context, msg queue.Message) error
	acked     []queue.Message
	requeued  []queue.Message
	dead      []queue.Message
	lastError string
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	if m.readFn != nil {
		return m.readFn(ctx)
	}
	return nil, nil
}

func (m *mockConsumer) Ack(ctx context.Context, msg queue.Message) error {
	m.mu.Lock()
	m.acked = append(m.acked, msg)
	m.mu.Unlock()
	if m.ackFn != nil {
		return m.ackFn(ctx, msg)
	}
	return nil
}

func (m *mockConsumer) Requeue(_ context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeued = append(m.requeued, msg)
	m.lastError = errMsg
	return nil
}

func (m *mockConsumer) SendDLQ(_ context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dead = append(m.dead, msg)
	m.lastError = errMsg
	return nil
}

func (m *mockConsumer) ackedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.acked)
}

type mockPipeline struct {
	mu        sync.Mutex
	processFn func(ctx context.Context, ticketID int64, subject, description string) (model.TicketState, error)
	ticketIDs []int64
}

func (m *mockPipeline) ProcessTicket(ctx context.Context, ticketID int64, subject, description string) (model.TicketState, error) {
	m.mu.Lock()
	m.ticketIDs = append(m.ticketIDs, ticketID)
	m.mu.Unlock()
	if m.processFn != nil {
		return m.processFn(ctx, ticketID, subject, description)
	}
	ticket := model.NewTicketState(ticketID, subject, description)
	final := "done"
	ticket.FinalResponse = &final
	ticket.Status = model.TicketStatusFinalized
	return ticket, nil
}

type fakeResultStore struct {
	mu      sync.Mutex
	results map[int64]queue.TicketResult
	putErr  error
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{results: map[int64]queue.TicketResult{}}
}

func (f *fakeResultStore) Put(_ context.Context, result queue.TicketResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.results[result.TicketID] = result
	return nil
}

func (f *fakeResultStore) Get(_ context.Context, ticketID int64) (queue.TicketResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.results[ticketID]
	if !ok {
		return queue.TicketResult{}, queue.ErrResultNotFound
	}
	return r, nil
}
