package dto

import (
	"time"

	"basegraph.app/helpdesk/internal/model"
	"basegraph.app/helpdesk/internal/queue"
)

type CreateTicketRequest struct {
	Subject     string `json:"subject" binding:"max=1000"`
	Description string `json:"description" binding:"max=20000"`
}

type TicketResponse struct {
	ID             int64    `json:"id,string"`
	Subject        string   `json:"subject"`
	Description    string   `json:"description"`
	Category       string   `json:"category,omitempty"`
	Context        []string `json:"context,omitempty"`
	Draft          string   `json:"draft,omitempty"`
	ReviewResult   string   `json:"review_result,omitempty"`
	ReviewFeedback string   `json:"review_feedback,omitempty"`
	Attempt        int      `json:"attempt"`
	FinalResponse  string   `json:"final_response"`
	Escalated      bool     `json:"escalated"`
	Status         string   `json:"status"`
}

func ToTicketResponse(t model.TicketState) *TicketResponse {
	resp := &TicketResponse{
		ID:             t.ID,
		Subject:        t.Subject,
		Description:    t.Description,
		Category:       string(t.Category),
		Context:        t.Context,
		Draft:          t.Draft,
		ReviewResult:   string(t.ReviewResult),
		ReviewFeedback: t.ReviewFeedback,
		Attempt:        t.Attempt,
		Escalated:      t.Escalated,
		Status:         string(t.Status),
	}
	if t.FinalResponse != nil {
		resp.FinalResponse = *t.FinalResponse
	}
	return resp
}

type EnqueueTicketResponse struct {
	TicketID  int64  `json:"ticket_id,string"`
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

type TicketResultResponse struct {
	TicketID  int64           `json:"ticket_id,string"`
	Status    string          `json:"status"`
	Ticket    *TicketResponse `json:"ticket,omitempty"`
	Error     string          `json:"error,omitempty"`
	Attempt   int             `json:"attempt"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func ToTicketResultResponse(r queue.TicketResult) *TicketResultResponse {
	resp := &TicketResultResponse{
		TicketID:  r.TicketID,
		Status:    string(r.Status),
		Error:     r.Error,
		Attempt:   r.Attempt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Ticket != nil {
		resp.Ticket = ToTicketResponse(*r.Ticket)
	}
	return resp
}
