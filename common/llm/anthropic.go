package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicClient struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

func newAnthropicClient(cfg Config) *anthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-5-20250514"
	}

	return &anthropicClient{
		client:  anthropic.NewClient(opts...),
		model:   model,
		timeout: cfg.Timeout,
	}
}

func (c *anthropicClient) Complete(ctx context.Context, req Request) (*Response, error) {
	return c.send(ctx, req, req.SystemPrompt)
}

// Chat has no native schema mode on this API; the schema is appended to the
// system prompt and the first JSON object in the answer is decoded.
func (c *anthropicClient) Chat(ctx context.Context, req Request, result any) (*Response, error) {
	schema, err := json.Marshal(req.Schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	system := strings.TrimSpace(req.SystemPrompt + "\n\nRespond with a single JSON object matching this JSON schema and nothing else:\n" + string(schema))

	resp, err := c.send(ctx, req, system)
	if err != nil {
		return nil, err
	}
	if err := DecodeJSON(resp.Content, result); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *anthropicClient) Model() string {
	return c.model
}

func (c *anthropicClient) send(ctx context.Context, req Request, system string) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	callCtx, cancel := callContext(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Messages.New(callCtx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic chat: %w", timeoutError(ctx, callCtx, c.timeout, err))
	}

	slog.DebugContext(ctx, "llm chat completed",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, ErrEmptyResponse
	}

	return &Response{
		Content:          sb.String(),
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}, nil
}
