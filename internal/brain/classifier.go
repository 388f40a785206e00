package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"basegraph.app/helpdesk/common/llm"
	"basegraph.app/helpdesk/internal/model"
)

// LLMOptions tunes the generation call of one stage.
type LLMOptions struct {
	MaxTokens   int
	Temperature *float64
}

type ClassificationResponse struct {
	Category string `json:"category" jsonschema:"enum=billing,enum=technical,enum=security,enum=general" jsonschema_description:"Category of the ticket's primary concern"`
}

var classificationSchema = llm.GenerateSchema[ClassificationResponse]()

type LLMClassifier struct {
	llm  llm.Client
	opts LLMOptions
}

func NewLLMClassifier(client llm.Client, opts LLMOptions) *LLMClassifier {
	return &LLMClassifier{llm: client, opts: opts}
}

// Classify returns the lowercased label the model chose. Validating it
// against model.Categories is left to the orchestrator.
func (c *LLMClassifier) Classify(ctx context.Context, subject, description string) (model.Category, error) {
	start := time.Now()

	var resp ClassificationResponse
	llmResp, err := c.llm.Chat(ctx, llm.Request{
		SystemPrompt: classifierSystemPrompt,
		UserPrompt:   ticketPrompt(subject, description),
		SchemaName:   "ticket_classification",
		Schema:       classificationSchema,
		MaxTokens:    c.opts.MaxTokens,
		Temperature:  c.opts.Temperature,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("classifying ticket: %w", err)
	}

	category := model.Category(strings.ToLower(strings.TrimSpace(resp.Category)))

	slog.DebugContext(ctx, "classifier responded",
		"category", category,
		"model", c.llm.Model(),
		"prompt_tokens", llmResp.PromptTokens,
		"completion_tokens", llmResp.CompletionTokens,
		"latency_ms", time.Since(start).Milliseconds())

	return category, nil
}

func ticketPrompt(subject, description string) string {
	var sb strings.Builder
	sb.WriteString("## Subject\n")
	sb.WriteString(subject)
	sb.WriteString("\n\n## Description\n")
	sb.WriteString(description)
	sb.WriteString("\n")
	return sb.String()
}
