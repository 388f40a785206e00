package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// A ticket's id, category and current draft attempt flow through the context so
// every stage logs them without threading them through call signatures.
type LogFields struct {
	TicketID  *int64  // Ticket being processed
	MessageID *string // Redis stream message ID
	Category  *string // Category assigned by the classifier
	Attempt   *int    // Current draft attempt
	Stage     string  // Pipeline stage (classify, retrieve, draft, review, escalate)
	Component string  // Component name, e.g. "helpdesk.brain.orchestrator"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.TicketID != nil {
		result.TicketID = next.TicketID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.Category != nil {
		result.Category = next.Category
	}
	if next.Attempt != nil {
		result.Attempt = next.Attempt
	}
	if next.Stage != "" {
		result.Stage = next.Stage
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{TicketID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen bytes, appending "..." if truncated.
// Drafts and reviewer feedback can be long; log a prefix.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
