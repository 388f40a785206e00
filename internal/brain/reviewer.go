package brain

import (
	"context"
	"fmt"
	"strings"

	"basegraph.app/helpdesk/common/llm"
)

type LLMReviewer struct {
	llm  llm.Client
	opts LLMOptions
}

func NewLLMReviewer(client llm.Client, opts LLMOptions) *LLMReviewer {
	return &LLMReviewer{llm: client, opts: opts}
}

// Review returns the model's answer untouched; ResolveVerdict parses it.
func (r *LLMReviewer) Review(ctx context.Context, in ReviewInput) (string, error) {
	var sb strings.Builder
	sb.WriteString(ticketPrompt(in.Subject, in.Description))
	sb.WriteString("\n## Category\n")
	sb.WriteString(in.Category.String())
	sb.WriteString("\n\n## Draft reply\n")
	sb.WriteString(in.Draft)
	sb.WriteString("\n")

	resp, err := r.llm.Complete(ctx, llm.Request{
		SystemPrompt: reviewerSystemPrompt,
		UserPrompt:   sb.String(),
		MaxTokens:    r.opts.MaxTokens,
		Temperature:  r.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("reviewing draft: %w", err)
	}
	return resp.Content, nil
}
