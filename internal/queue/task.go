package queue

import "fmt"

// Task is one ticket waiting to be triaged by a worker.
type Task struct {
	TicketID    int64
	Subject     string
	Description string
	TraceID     string
	Attempt     int
}

// Message is a Task read back from the stream.
type Message struct {
	ID          string
	TicketID    int64
	Subject     string
	Description string
	Attempt     int
	TraceID     string
	LastError   string
}

func (m Message) Task() Task {
	return Task{
		TicketID:    m.TicketID,
		Subject:     m.Subject,
		Description: m.Description,
		TraceID:     m.TraceID,
		Attempt:     m.Attempt,
	}
}

func resultKey(ticketID int64) string {
	return fmt.Sprintf("ticket-result:%d", ticketID)
}
