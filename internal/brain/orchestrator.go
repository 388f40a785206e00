package brain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"basegraph.app/helpdesk/common/id"
	"basegraph.app/helpdesk/common/logger"
	"basegraph.app/helpdesk/internal/model"
)

// Orchestrator drives one ticket through classify, retrieve, draft, review
// and either finalize or escalate. It keeps no state between tickets and is
// safe for concurrent use if its collaborators are.
type Orchestrator struct {
	classifier  Classifier
	retriever   Retriever
	drafter     Drafter
	reviewer    Reviewer
	escalations EscalationSink
	now         func() time.Time
}

func NewOrchestrator(
	classifier Classifier,
	retriever Retriever,
	drafter Drafter,
	reviewer Reviewer,
	escalations EscalationSink,
) *Orchestrator {
	return &Orchestrator{
		classifier:  classifier,
		retriever:   retriever,
		drafter:     drafter,
		reviewer:    reviewer,
		escalations: escalations,
		now:         time.Now,
	}
}

// Process runs a new ticket to a terminal state.
func (o *Orchestrator) Process(ctx context.Context, subject, description string) (model.TicketState, error) {
	return o.ProcessTicket(ctx, id.New(), subject, description)
}

// ProcessTicket is Process for a ticket whose id was assigned upstream.
// It returns either a terminal TicketState or a *StageFailure. Rejections and
// escalations are normal outcomes, not errors.
func (o *Orchestrator) ProcessTicket(ctx context.Context, ticketID int64, subject, description string) (model.TicketState, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		TicketID:  &ticketID,
		Component: "helpdesk.brain.orchestrator",
	})

	sc := logger.StartSpan(ctx, "brain.process")
	defer sc.End()
	ctx = sc.Context()
	sc.SetAttributes(attribute.Int64("ticket.id", ticketID))

	start := time.Now()
	ticket := model.NewTicketState(ticketID, subject, description)
	state := StateClassifying

	slog.InfoContext(ctx, "processing ticket", "subject", logger.Truncate(subject, 120))

	for step := 0; !state.IsTerminal(); step++ {
		if step >= maxSteps {
			err := fmt.Errorf("%w: stopped in %s after %d steps", ErrStepBudgetExceeded, state, step)
			sc.RecordError(err)
			return model.TicketState{}, err
		}
		if err := ctx.Err(); err != nil {
			failure := newStageFailure(stageFor(state), err)
			slog.WarnContext(ctx, "ticket processing cancelled", "state", state, "error", err)
			sc.RecordError(failure)
			return model.TicketState{}, failure
		}

		next, err := o.runStage(ctx, state, &ticket)
		if err != nil {
			slog.ErrorContext(ctx, "ticket stage failed",
				"state", state,
				"attempt", ticket.Attempt,
				"error", err)
			sc.RecordError(err)
			return model.TicketState{}, err
		}

		slog.DebugContext(ctx, "state transition", "from", state, "to", next)
		state = next
	}

	sc.SetAttributes(
		attribute.String("ticket.category", ticket.Category.String()),
		attribute.String("ticket.status", string(ticket.Status)),
		attribute.Int("ticket.attempt", ticket.Attempt),
	)
	slog.InfoContext(ctx, "ticket processed",
		"status", ticket.Status,
		"category", ticket.Category,
		"attempt", ticket.Attempt,
		"escalated", ticket.Escalated,
		"duration_ms", time.Since(start).Milliseconds())

	return ticket, nil
}

// runStage executes the work of state against t and returns the next state.
// t is only modified when the stage succeeds.
func (o *Orchestrator) runStage(ctx context.Context, state State, t *model.TicketState) (State, error) {
	stage := stageFor(state)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Attempt: logger.Ptr(t.Attempt),
		Stage:   string(stage),
	})
	if t.Category != "" {
		ctx = logger.WithLogFields(ctx, logger.LogFields{Category: logger.Ptr(t.Category.String())})
	}

	sc := logger.StartSpan(ctx, "brain."+string(stage))
	defer sc.End()
	ctx = sc.Context()
	sc.SetAttributes(attribute.Int("ticket.attempt", t.Attempt))

	var err error
	switch state {
	case StateClassifying:
		err = o.classify(ctx, t)
	case StateRetrieving:
		err = o.retrieve(ctx, t)
	case StateDrafting:
		err = o.draft(ctx, t)
	case StateReviewing:
		return o.review(ctx, t)
	case StateEscalating:
		err = o.escalate(ctx, t)
	default:
		return state, fmt.Errorf("no stage for state %q", state)
	}
	if err != nil {
		sc.RecordError(err)
		return state, err
	}
	return DecideNextState(state, t.ReviewResult, t.Attempt), nil
}

func (o *Orchestrator) classify(ctx context.Context, t *model.TicketState) error {
	label, err := o.classifier.Classify(ctx, t.Subject, t.Description)
	if err != nil {
		return newStageFailure(StageClassify, err)
	}
	category, ok := model.ParseCategory(string(label))
	if !ok {
		return newStageFailure(StageClassify, fmt.Errorf("%w: %q", ErrInvalidCategory, label))
	}
	t.Category = category

	slog.InfoContext(ctx, "ticket classified", "category", category)
	return nil
}

func (o *Orchestrator) retrieve(ctx context.Context, t *model.TicketState) error {
	snippets, err := o.retriever.Retrieve(ctx, t.Category.String(), t.Query())
	if err != nil {
		return newStageFailure(StageRetrieve, err)
	}
	if len(snippets) == 0 {
		return newStageFailure(StageRetrieve, ErrEmptyContext)
	}
	t.Context = snippets

	slog.InfoContext(ctx, "context retrieved", "snippet_count", len(snippets))
	return nil
}

func (o *Orchestrator) draft(ctx context.Context, t *model.TicketState) error {
	in := DraftInput{
		Category:    t.Category,
		Context:     t.Context,
		Subject:     t.Subject,
		Description: t.Description,
		Attempt:     t.Attempt,
	}
	if in.IsRevision() {
		in.ReviewFeedback = t.ReviewFeedback
	}

	draft, err := o.drafter.Draft(ctx, in)
	if err != nil {
		return newStageFailure(StageDraft, err)
	}
	if draft == "" {
		return newStageFailure(StageDraft, ErrEmptyDraft)
	}
	t.Draft = draft
	t.ReviewResult = model.VerdictUnset

	slog.InfoContext(ctx, "draft generated", "revision", in.IsRevision(), "draft_len", len(draft))
	return nil
}

// review is the only stage whose successor depends on its output. A
// rejection that leads to another draft bumps the attempt counter here.
func (o *Orchestrator) review(ctx context.Context, t *model.TicketState) (State, error) {
	raw, err := o.reviewer.Review(ctx, ReviewInput{
		Subject:     t.Subject,
		Description: t.Description,
		Category:    t.Category,
		Draft:       t.Draft,
	})
	if err != nil {
		return StateReviewing, newStageFailure(StageReview, err)
	}

	verdict, feedback := resolveAndLog(ctx, raw)
	t.ReviewResult = verdict
	t.ReviewFeedback = feedback

	next := DecideNextState(StateReviewing, verdict, t.Attempt)
	switch next {
	case StateFinalized:
		response := t.Draft
		t.FinalResponse = &response
		t.Status = model.TicketStatusFinalized
	case StateDrafting:
		t.Attempt++
	}

	slog.InfoContext(ctx, "draft reviewed",
		"verdict", verdict,
		"next_state", next,
		"feedback", logger.Truncate(feedback, 200))
	return next, nil
}

func (o *Orchestrator) escalate(ctx context.Context, t *model.TicketState) error {
	reason := escalationReason(t.Attempt)

	err := o.escalations.Append(ctx, model.EscalationRecord{
		TicketID:         t.ID,
		Subject:          t.Subject,
		Description:      t.Description,
		Category:         t.Category,
		Draft:            model.OrNA(t.Draft),
		Feedback:         model.OrNA(t.ReviewFeedback),
		EscalationReason: reason,
		Attempt:          t.Attempt,
		CreatedAt:        o.now().UTC(),
	})
	if err != nil {
		return newStageFailure(StageEscalate, fmt.Errorf("appending escalation record: %w", err))
	}

	response := escalationResponse(t.Attempt, reason)
	t.FinalResponse = &response
	t.Escalated = true
	t.Status = model.TicketStatusEscalated

	slog.WarnContext(ctx, "ticket escalated to human review", "reason", reason)
	return nil
}

func stageFor(state State) Stage {
	switch state {
	case StateClassifying:
		return StageClassify
	case StateRetrieving:
		return StageRetrieve
	case StateDrafting:
		return StageDraft
	case StateReviewing:
		return StageReview
	default:
		return StageEscalate
	}
}
