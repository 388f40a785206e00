package brain

import (
	"context"
	"errors"
	"fmt"

	"basegraph.app/helpdesk/common/llm"
)

// Stage names a pipeline step. Used in StageFailure and as the log "stage" field.
type Stage string

const (
	StageClassify Stage = "classify"
	StageRetrieve Stage = "retrieve"
	StageDraft    Stage = "draft"
	StageReview   Stage = "review"
	StageEscalate Stage = "escalate"
)

var (
	ErrInvalidCategory    = errors.New("classifier returned an unknown category")
	ErrEmptyContext       = errors.New("retriever returned no context")
	ErrEmptyDraft         = errors.New("drafter returned an empty draft")
	ErrStepBudgetExceeded = errors.New("workflow exceeded its step budget")
)

// StageFailure aborts processing of one ticket. No escalation record is
// written for it; retrying the whole ticket is the caller's job.
type StageFailure struct {
	Stage Stage
	Cause error
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Cause)
}

func (e *StageFailure) Unwrap() error {
	return e.Cause
}

func newStageFailure(stage Stage, cause error) *StageFailure {
	return &StageFailure{Stage: stage, Cause: cause}
}

// IsRetryable reports whether re-running the whole ticket may succeed.
// Malformed or empty stage output and caller cancellation are final.
// Provider throttling, 5xx, network errors and per-call LLM timeouts are not.
func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, llm.ErrTimeout) {
		return llm.IsRetryable(ctx, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrStepBudgetExceeded) || errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrEmptyContext) || errors.Is(err, ErrEmptyDraft) ||
		errors.Is(err, llm.ErrMalformedResponse) {
		return false
	}

	var sf *StageFailure
	if errors.As(err, &sf) && sf.Cause != nil {
		return llm.IsRetryable(ctx, sf.Cause)
	}
	return llm.IsRetryable(ctx, err)
}
