package model

import (
	"slices"
	"strings"
	"time"
)

type Category string

const (
	CategoryBilling   Category = "billing"
	CategoryTechnical Category = "technical"
	CategorySecurity  Category = "security"
	CategoryGeneral   Category = "general"
)

// Categories lists every label the classifier may assign.
var Categories = []Category{CategoryBilling, CategoryTechnical, CategorySecurity, CategoryGeneral}

// ParseCategory normalizes a label and reports whether it is one of Categories.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, slices.Contains(Categories, c)
}

func (c Category) String() string {
	return string(c)
}

type Verdict string

const (
	VerdictUnset    Verdict = ""
	VerdictApproved Verdict = "approved"
	VerdictRejected Verdict = "rejected"
)

type TicketStatus string

const (
	TicketStatusFinalized TicketStatus = "finalized"
	TicketStatusEscalated TicketStatus = "escalated"
)

// TicketState is the record threaded through every stage of one ticket.
// Field ownership: the classifier sets Category, the retriever Context, the
// drafter Draft, the reviewer ReviewResult and ReviewFeedback; Attempt,
// FinalResponse, Escalated and Status belong to the orchestrator.
type TicketState struct {
	ID             int64        `json:"id,string"`
	Subject        string       `json:"subject"`
	Description    string       `json:"description"`
	Category       Category     `json:"category,omitempty"`
	Context        []string     `json:"context,omitempty"`
	Draft          string       `json:"draft,omitempty"`
	ReviewResult   Verdict      `json:"review_result,omitempty"`
	ReviewFeedback string       `json:"review_feedback,omitempty"`
	Attempt        int          `json:"attempt"`
	FinalResponse  *string      `json:"final_response,omitempty"`
	Escalated      bool         `json:"escalated"`
	Status         TicketStatus `json:"status,omitempty"`
}

// NewTicketState returns the initial record for an incoming ticket.
func NewTicketState(id int64, subject, description string) TicketState {
	return TicketState{
		ID:          id,
		Subject:     subject,
		Description: description,
		Attempt:     1,
	}
}

// IsTerminal reports whether the ticket reached finalized or escalated.
func (t TicketState) IsTerminal() bool {
	return t.FinalResponse != nil
}

// Query is the retrieval query for the ticket.
func (t TicketState) Query() string {
	return t.Subject + " " + t.Description
}

// EscalationRecord is one row of the escalation log.
type EscalationRecord struct {
	TicketID         int64     `json:"ticket_id,string"`
	Subject          string    `json:"subject"`
	Description      string    `json:"description"`
	Category         Category  `json:"category"`
	Draft            string    `json:"draft"`
	Feedback         string    `json:"feedback"`
	EscalationReason string    `json:"escalation_reason"`
	Attempt          int       `json:"attempt"`
	CreatedAt        time.Time `json:"created_at"`
}

// NotAvailable is written in place of an empty draft or feedback.
const NotAvailable = "N/A"

// OrNA returns s, or NotAvailable when s is empty.
func OrNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
