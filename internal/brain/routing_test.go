package brain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/helpdesk/internal/brain"
	"basegraph.app/helpdesk/internal/model"
)

var _ = Describe("DecideNextState", func() {
	DescribeTable("pipeline transitions",
		func(current brain.State, verdict model.Verdict, attempt int, expected brain.State) {
			Expect(brain.DecideNextState(current, verdict, attempt)).To(Equal(expected))
		},
		Entry("classifying -> retrieving", brain.StateClassifying, model.VerdictUnset, 1, brain.StateRetrieving),
		Entry("retrieving -> drafting", brain.StateRetrieving, model.VerdictUnset, 1, brain.StateDrafting),
		Entry("drafting -> reviewing", brain.StateDrafting, model.VerdictUnset, 1, brain.StateReviewing),
		Entry("approved on first attempt", brain.StateReviewing, model.VerdictApproved, 1, brain.StateFinalized),
		Entry("approved on last attempt", brain.StateReviewing, model.VerdictApproved, brain.RetryLimit, brain.StateFinalized),
		Entry("rejected below the limit", brain.StateReviewing, model.VerdictRejected, 1, brain.StateDrafting),
		Entry("rejected at the limit", brain.StateReviewing, model.VerdictRejected, brain.RetryLimit, brain.StateEscalating),
		Entry("rejected past the limit", brain.StateReviewing, model.VerdictRejected, brain.RetryLimit+1, brain.StateEscalating),
		Entry("unset verdict is not an approval", brain.StateReviewing, model.VerdictUnset, 1, brain.StateDrafting),
		Entry("escalating -> escalated", brain.StateEscalating, model.VerdictRejected, 2, brain.StateEscalated),
		Entry("finalized stays finalized", brain.StateFinalized, model.VerdictRejected, 1, brain.StateFinalized),
		Entry("escalated stays escalated", brain.StateEscalated, model.VerdictApproved, 1, brain.StateEscalated),
	)

	It("escalates iff the verdict is rejected and attempt reached the limit", func() {
		for attempt := 1; attempt <= brain.RetryLimit+2; attempt++ {
			for _, verdict := range []model.Verdict{model.VerdictApproved, model.VerdictRejected} {
				next := brain.DecideNextState(brain.StateReviewing, verdict, attempt)
				shouldEscalate := verdict == model.VerdictRejected && attempt >= brain.RetryLimit
				Expect(next == brain.StateEscalating).To(Equal(shouldEscalate),
					"verdict=%s attempt=%d next=%s", verdict, attempt, next)
			}
		}
	})

	It("reaches a terminal state from classifying under constant rejection", func() {
		state := brain.StateClassifying
		attempt := 1
		drafts := 0
		for steps := 0; !state.IsTerminal(); steps++ {
			Expect(steps).To(BeNumerically("<", 20))
			if state == brain.StateDrafting {
				drafts++
			}
			next := brain.DecideNextState(state, model.VerdictRejected, attempt)
			if state == brain.StateReviewing && next == brain.StateDrafting {
				attempt++
			}
			state = next
		}
		Expect(state).To(Equal(brain.StateEscalated))
		Expect(drafts).To(Equal(brain.RetryLimit))
	})
})
