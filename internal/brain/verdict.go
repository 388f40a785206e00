package brain

import (
	"context"
	"log/slog"
	"strings"

	"basegraph.app/helpdesk/common/logger"
	"basegraph.app/helpdesk/internal/model"
)

const ambiguousVerdictPrefix = "REJECTED\nUnclear review response. Defaulting to rejected for safety.\n\nOriginal feedback: "

// ResolveVerdict turns the reviewer's free text into a verdict and the
// feedback handed to the next draft. Text naming neither verdict resolves to
// rejected.
func ResolveVerdict(raw string) (model.Verdict, string) {
	verdict, feedback, _ := resolveVerdict(raw)
	return verdict, feedback
}

func resolveVerdict(raw string) (verdict model.Verdict, feedback string, ambiguous bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(normalized, "approved"):
		return model.VerdictApproved, raw, false
	case strings.HasPrefix(normalized, "rejected"):
		return model.VerdictRejected, raw, false
	case strings.Contains(normalized, "approved") && !strings.Contains(normalized, "rejected"):
		return model.VerdictApproved, raw, false
	case strings.Contains(normalized, "rejected"):
		return model.VerdictRejected, raw, false
	default:
		return model.VerdictRejected, ambiguousVerdictPrefix + raw, true
	}
}

func resolveAndLog(ctx context.Context, raw string) (model.Verdict, string) {
	verdict, feedback, ambiguous := resolveVerdict(raw)
	if ambiguous {
		slog.WarnContext(ctx, "ambiguous review verdict, defaulting to rejected",
			"review", logger.Truncate(raw, 200))
	}
	return verdict, feedback
}
