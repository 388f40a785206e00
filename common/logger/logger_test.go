package logger_test

import (
	"bytes"
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/helpdesk/common/logger"
)

var _ = Describe("LogFields", func() {
	It("merges newer non-empty values over existing ones", func() {
		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			TicketID:  logger.Ptr(int64(7)),
			Component: "helpdesk.brain.orchestrator",
		})
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			Category: logger.Ptr("billing"),
			Stage:    "draft",
		})

		fields := logger.GetLogFields(ctx)
		Expect(*fields.TicketID).To(Equal(int64(7)))
		Expect(*fields.Category).To(Equal("billing"))
		Expect(fields.Stage).To(Equal("draft"))
		Expect(fields.Component).To(Equal("helpdesk.brain.orchestrator"))
	})

	It("returns empty fields for a bare context", func() {
		Expect(logger.GetLogFields(context.Background())).To(Equal(logger.LogFields{}))
	})
})

var _ = Describe("TraceHandler", func() {
	It("adds context fields to every record", func() {
		var buf bytes.Buffer
		log := slog.New(logger.NewTraceHandler(slog.NewTextHandler(&buf, nil)))

		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			TicketID: logger.Ptr(int64(42)),
			Attempt:  logger.Ptr(2),
			Stage:    "review",
		})
		log.InfoContext(ctx, "review completed")

		Expect(buf.String()).To(ContainSubstring("ticket_id=42"))
		Expect(buf.String()).To(ContainSubstring("attempt=2"))
		Expect(buf.String()).To(ContainSubstring("stage=review"))
	})
})

var _ = DescribeTable("Truncate",
	func(in string, max int, want string) {
		Expect(logger.Truncate(in, max)).To(Equal(want))
	},
	Entry("short strings are unchanged", "abc", 5, "abc"),
	Entry("exact length is unchanged", "abcde", 5, "abcde"),
	Entry("long strings get an ellipsis", "abcdefgh", 3, "abc..."),
)
