package brain

import (
	"fmt"

	"basegraph.app/helpdesk/internal/model"
)

// State is a node of the ticket workflow.
type State string

const (
	StateClassifying State = "classifying"
	StateRetrieving  State = "retrieving"
	StateDrafting    State = "drafting"
	StateReviewing   State = "reviewing"
	StateEscalating  State = "escalating"
	StateFinalized   State = "finalized"
	StateEscalated   State = "escalated"
)

// RetryLimit is the maximum number of drafts produced for one ticket.
const RetryLimit = 2

// maxSteps bounds the number of transitions of one run: classify, retrieve,
// RetryLimit draft/review rounds, escalate, and the terminal state.
const maxSteps = 2 + 2*RetryLimit + 2

func (s State) IsTerminal() bool {
	return s == StateFinalized || s == StateEscalated
}

// DecideNextState returns the state that follows current. verdict and attempt
// are only consulted when leaving StateReviewing; attempt is the draft number
// the verdict was given for. Terminal states map to themselves.
func DecideNextState(current State, verdict model.Verdict, attempt int) State {
	switch current {
	case StateClassifying:
		return StateRetrieving
	case StateRetrieving:
		return StateDrafting
	case StateDrafting:
		return StateReviewing
	case StateReviewing:
		if verdict == model.VerdictApproved {
			return StateFinalized
		}
		if attempt >= RetryLimit {
			return StateEscalating
		}
		return StateDrafting
	case StateEscalating:
		return StateEscalated
	default:
		return current
	}
}

func escalationReason(attempt int) string {
	return fmt.Sprintf("Max attempts (%d) reached without approval", attempt)
}

func escalationResponse(attempt int, reason string) string {
	return fmt.Sprintf("Ticket requires human review. Escalated after %d attempts. Reason: %s", attempt, reason)
}
