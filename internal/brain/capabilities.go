package brain

import (
	"context"

	"basegraph.app/helpdesk/internal/model"
)

// Classifier assigns one of model.Categories to a ticket.
type Classifier interface {
	Classify(ctx context.Context, subject, description string) (model.Category, error)
}

// Retriever returns reference snippets for a ticket, most relevant first.
type Retriever interface {
	Retrieve(ctx context.Context, category, query string) ([]string, error)
}

type DraftInput struct {
	Category    model.Category
	Context     []string
	Subject     string
	Description string
	// Attempt is 1 for the first draft. Later attempts carry the feedback
	// the previous draft was rejected with.
	Attempt        int
	ReviewFeedback string
}

// IsRevision reports whether the draft replaces a rejected one.
func (in DraftInput) IsRevision() bool {
	return in.Attempt > 1
}

// Drafter writes the customer-facing reply.
type Drafter interface {
	Draft(ctx context.Context, in DraftInput) (string, error)
}

type ReviewInput struct {
	Subject     string
	Description string
	Category    model.Category
	Draft       string
}

// Reviewer judges a draft. The raw answer is parsed by ResolveVerdict.
type Reviewer interface {
	Review(ctx context.Context, in ReviewInput) (string, error)
}

// EscalationSink durably records tickets handed to a human.
type EscalationSink interface {
	Append(ctx context.Context, rec model.EscalationRecord) error
}
