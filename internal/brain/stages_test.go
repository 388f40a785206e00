package brain_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/helpdesk/common/llm"
	"basegraph.app/helpdesk/internal/brain"
	"basegraph.app/helpdesk/internal/model"
)

var _ = Describe("LLMClassifier", func() {
	var client *mockLLMClient

	BeforeEach(func() {
		client = &mockLLMClient{}
	})

	It("returns the lowercased category from structured output", func() {
		client.chatFn = func(_ context.Context, req llm.Request, result any) (*llm.Response, error) {
			Expect(req.SchemaName).To(Equal("ticket_classification"))
			Expect(req.Schema).NotTo(BeNil())
			Expect(req.UserPrompt).To(ContainSubstring("Double charged"))
			Expect(req.UserPrompt).To(ContainSubstring("billed twice"))
			result.(*brain.ClassificationResponse).Category = " BILLING"
			return &llm.Response{Content: `{"category":"BILLING"}`}, nil
		}

		classifier := brain.NewLLMClassifier(client, brain.LLMOptions{MaxTokens: 20, Temperature: llm.Temp(0)})
		category, err := classifier.Classify(context.Background(), "Double charged", "I was billed twice")
		Expect(err).NotTo(HaveOccurred())
		Expect(category).To(Equal(model.CategoryBilling))
		Expect(client.requests[0].MaxTokens).To(Equal(20))
		Expect(*client.requests[0].Temperature).To(BeZero())
	})

	It("wraps provider errors", func() {
		client.chatFn = func(context.Context, llm.Request, any) (*llm.Response, error) {
			return nil, llm.ErrEmptyResponse
		}

		classifier := brain.NewLLMClassifier(client, brain.LLMOptions{})
		_, err := classifier.Classify(context.Background(), "s", "d")
		Expect(err).To(MatchError(llm.ErrEmptyResponse))
	})
})

var _ = Describe("LLMDrafter", func() {
	var (
		client  *mockLLMClient
		drafter *brain.LLMDrafter
		input   brain.DraftInput
	)

	BeforeEach(func() {
		client = &mockLLMClient{
			completeFn: func(context.Context, llm.Request) (*llm.Response, error) {
				return &llm.Response{Content: "  Here is how to fix it.  \n"}, nil
			},
		}
		drafter = brain.NewLLMDrafter(client, brain.LLMOptions{})
		input = brain.DraftInput{
			Category:    model.CategoryTechnical,
			Context:     []string{"Clear the app cache.", "Update to 2.1.0."},
			Subject:     "App crashes",
			Description: "crashes on startup",
			Attempt:     1,
		}
	})

	It("writes a fresh draft on the first attempt", func() {
		draft, err := drafter.Draft(context.Background(), input)
		Expect(err).NotTo(HaveOccurred())
		Expect(draft).To(Equal("Here is how to fix it."))

		req := client.requests[0]
		Expect(req.SystemPrompt).NotTo(ContainSubstring("rejected"))
		Expect(req.UserPrompt).To(ContainSubstring("- Clear the app cache.\n- Update to 2.1.0.\n"))
		Expect(req.UserPrompt).To(ContainSubstring("technical"))
		Expect(req.UserPrompt).NotTo(ContainSubstring("Reviewer feedback"))
	})

	It("uses the improvement prompt with feedback on later attempts", func() {
		input.Attempt = 2
		input.ReviewFeedback = "REJECTED\nNo concrete steps."

		_, err := drafter.Draft(context.Background(), input)
		Expect(err).NotTo(HaveOccurred())

		req := client.requests[0]
		Expect(req.SystemPrompt).To(ContainSubstring("rejected by quality review"))
		Expect(req.UserPrompt).To(ContainSubstring("No concrete steps."))
	})

	It("falls back to a placeholder when feedback is missing", func() {
		input.Attempt = 2

		_, err := drafter.Draft(context.Background(), input)
		Expect(err).NotTo(HaveOccurred())
		Expect(client.requests[0].UserPrompt).To(ContainSubstring("No specific feedback provided"))
	})

	It("returns provider errors", func() {
		client.completeFn = func(context.Context, llm.Request) (*llm.Response, error) {
			return nil, errors.New("boom")
		}
		_, err := drafter.Draft(context.Background(), input)
		Expect(err).To(MatchError(ContainSubstring("attempt 1")))
	})
})

var _ = Describe("LLMReviewer", func() {
	It("returns the raw review text", func() {
		client := &mockLLMClient{
			completeFn: func(_ context.Context, req llm.Request) (*llm.Response, error) {
				Expect(req.UserPrompt).To(ContainSubstring("## Draft reply\nTry turning it off and on."))
				Expect(req.UserPrompt).To(ContainSubstring("security"))
				return &llm.Response{Content: "REJECTED\nToo short."}, nil
			},
		}

		reviewer := brain.NewLLMReviewer(client, brain.LLMOptions{})
		raw, err := reviewer.Review(context.Background(), brain.ReviewInput{
			Subject:     "Locked out",
			Description: "too many attempts",
			Category:    model.CategorySecurity,
			Draft:       "Try turning it off and on.",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(Equal("REJECTED\nToo short."))
		Expect(client.requests[0].SystemPrompt).To(ContainSubstring("APPROVED or REJECTED"))
	})
})

var _ = Describe("IsRetryable", func() {
	ctx := context.Background()

	It("retries transient stage failures", func() {
		err := &brain.StageFailure{Stage: brain.StageDraft, Cause: errors.New("connection refused")}
		Expect(brain.IsRetryable(ctx, err)).To(BeTrue())
	})

	It("does not retry cancellation", func() {
		err := &brain.StageFailure{Stage: brain.StageDraft, Cause: context.DeadlineExceeded}
		Expect(brain.IsRetryable(ctx, err)).To(BeFalse())
	})

	It("does not retry a step budget overrun", func() {
		Expect(brain.IsRetryable(ctx, brain.ErrStepBudgetExceeded)).To(BeFalse())
	})

	It("retries a timed out LLM call", func() {
		cause := fmt.Errorf("classifying ticket: openai chat: %w after 1m0s: %w", llm.ErrTimeout, context.DeadlineExceeded)
		err := &brain.StageFailure{Stage: brain.StageClassify, Cause: cause}
		Expect(brain.IsRetryable(ctx, err)).To(BeTrue())
	})

	DescribeTable("does not retry output that cannot improve on a rerun",
		func(err error) {
			Expect(brain.IsRetryable(ctx, err)).To(BeFalse())
		},
		Entry("undecodable classification", &brain.StageFailure{
			Stage: brain.StageClassify,
			Cause: fmt.Errorf("classifying ticket: %w: unmarshal response: invalid character 'b'", llm.ErrMalformedResponse),
		}),
		Entry("empty context", &brain.StageFailure{Stage: brain.StageRetrieve, Cause: brain.ErrEmptyContext}),
		Entry("empty draft", &brain.StageFailure{Stage: brain.StageDraft, Cause: brain.ErrEmptyDraft}),
		Entry("unknown category", &brain.StageFailure{Stage: brain.StageClassify, Cause: brain.ErrInvalidCategory}),
	)

	It("ignores nil", func() {
		Expect(brain.IsRetryable(ctx, nil)).To(BeFalse())
	})
})
