package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"basegraph.app/helpdesk/common/llm"
)

type LLMDrafter struct {
	llm  llm.Client
	opts LLMOptions
}

func NewLLMDrafter(client llm.Client, opts LLMOptions) *LLMDrafter {
	return &LLMDrafter{llm: client, opts: opts}
}

func (d *LLMDrafter) Draft(ctx context.Context, in DraftInput) (string, error) {
	system := draftSystemPrompt
	if in.IsRevision() {
		system = redraftSystemPrompt
	}

	resp, err := d.llm.Complete(ctx, llm.Request{
		SystemPrompt: system,
		UserPrompt:   buildDraftPrompt(in),
		MaxTokens:    d.opts.MaxTokens,
		Temperature:  d.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("drafting response (attempt %d): %w", in.Attempt, err)
	}

	slog.DebugContext(ctx, "drafter responded",
		"model", d.llm.Model(),
		"revision", in.IsRevision(),
		"completion_tokens", resp.CompletionTokens)

	return strings.TrimSpace(resp.Content), nil
}

func buildDraftPrompt(in DraftInput) string {
	var sb strings.Builder

	if in.IsRevision() {
		feedback := strings.TrimSpace(in.ReviewFeedback)
		if feedback == "" {
			feedback = noFeedback
		}
		sb.WriteString("## Reviewer feedback on the previous reply\n")
		sb.WriteString(feedback)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Category\n")
	sb.WriteString(in.Category.String())
	sb.WriteString("\n\n## Knowledge base\n")
	for _, snippet := range in.Context {
		fmt.Fprintf(&sb, "- %s\n", snippet)
	}

	sb.WriteString("\n")
	sb.WriteString(ticketPrompt(in.Subject, in.Description))
	return sb.String()
}
