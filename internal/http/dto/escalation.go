package dto

import (
	"time"

	"basegraph.app/helpdesk/internal/model"
)

type ListEscalationsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

type EscalationResponse struct {
	TicketID         int64     `json:"ticket_id,omitempty,string"`
	Subject          string    `json:"subject"`
	Description      string    `json:"description"`
	Category         string    `json:"category,omitempty"`
	Draft            string    `json:"draft"`
	Feedback         string    `json:"feedback"`
	EscalationReason string    `json:"escalation_reason"`
	Attempt          int       `json:"attempt,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitzero"`
}

// ToEscalationResponses maps log records for the API. The CSV sink only keeps
// the five log columns, so ticket id, category, attempt and time stay empty.
func ToEscalationResponses(records []model.EscalationRecord) []EscalationResponse {
	out := make([]EscalationResponse, 0, len(records))
	for _, r := range records {
		out = append(out, EscalationResponse{
			TicketID:         r.TicketID,
			Subject:          r.Subject,
			Description:      r.Description,
			Category:         string(r.Category),
			Draft:            r.Draft,
			Feedback:         r.Feedback,
			EscalationReason: r.EscalationReason,
			Attempt:          r.Attempt,
			CreatedAt:        r.CreatedAt,
		})
	}
	return out
}
