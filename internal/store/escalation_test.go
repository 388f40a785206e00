package store_test

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/helpdesk/core/config"
	"basegraph.app/helpdesk/internal/model"
	"basegraph.app/helpdesk/internal/store"
)

func record(n int) model.EscalationRecord {
	return model.EscalationRecord{
		TicketID:         int64(1000 + n),
		Subject:          fmt.Sprintf("subject %d", n),
		Description:      "line one\nline two, with comma",
		Category:         model.CategoryTechnical,
		Draft:            fmt.Sprintf("draft %d", n),
		Feedback:         "REJECTED\n\"too vague\"",
		EscalationReason: "Max attempts (2) reached without approval",
		Attempt:          2,
		CreatedAt:        time.Date(2025, 1, 1, 0, 0, n, 0, time.UTC),
	}
}

func readCSV(path string) [][]string {
	f, err := os.Open(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	Expect(err).NotTo(HaveOccurred())
	return rows
}

var _ = Describe("CSVEscalationStore", func() {
	var (
		ctx  context.Context
		path string
	)

	BeforeEach(func() {
		ctx = context.Background()
		path = filepath.Join(GinkgoT().TempDir(), "nested", "data", "escalation_log.csv")
	})

	It("creates parent directories and writes the header once", func() {
		s, err := store.NewCSVEscalationStore(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Append(ctx, record(1))).To(Succeed())

		_, err = store.NewCSVEscalationStore(path)
		Expect(err).NotTo(HaveOccurred())

		rows := readCSV(path)
		Expect(rows).To(HaveLen(2))
		Expect(rows[0]).To(Equal([]string{"Subject", "Description", "Draft", "Feedback", "Escalation_Reason"}))
		Expect(rows[1]).To(Equal([]string{
			"subject 1",
			"line one\nline two, with comma",
			"draft 1",
			"REJECTED\n\"too vague\"",
			"Max attempts (2) reached without approval",
		}))
	})

	It("writes N/A for a missing draft or feedback", func() {
		s, err := store.NewCSVEscalationStore(path)
		Expect(err).NotTo(HaveOccurred())

		rec := record(1)
		rec.Draft = ""
		rec.Feedback = ""
		Expect(s.Append(ctx, rec)).To(Succeed())

		rows := readCSV(path)
		Expect(rows[1][2]).To(Equal("N/A"))
		Expect(rows[1][3]).To(Equal("N/A"))
	})

	It("never interleaves concurrent appends", func() {
		s, err := store.NewCSVEscalationStore(path)
		Expect(err).NotTo(HaveOccurred())

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(n int) {
				defer GinkgoRecover()
				defer wg.Done()
				Expect(s.Append(ctx, record(n))).To(Succeed())
			}(i)
		}
		wg.Wait()

		rows := readCSV(path)
		Expect(rows).To(HaveLen(51))
		for _, row := range rows[1:] {
			Expect(row).To(HaveLen(5))
			Expect(row[1]).To(Equal("line one\nline two, with comma"))
		}
	})

	It("lists newest first", func() {
		s, err := store.NewCSVEscalationStore(path)
		Expect(err).NotTo(HaveOccurred())
		for i := range 3 {
			Expect(s.Append(ctx, record(i))).To(Succeed())
		}

		records, err := s.List(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))
		Expect(records[0].Subject).To(Equal("subject 2"))
		Expect(records[1].Subject).To(Equal("subject 1"))
	})

	It("lists nothing for a fresh log", func() {
		s, err := store.NewCSVEscalationStore(path)
		Expect(err).NotTo(HaveOccurred())
		records, err := s.List(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(BeEmpty())
	})
})

var _ = Describe("SQLiteEscalationStore", func() {
	var (
		ctx context.Context
		s   *store.SQLiteEscalationStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		s, err = store.NewSQLiteEscalationStore(ctx, filepath.Join(GinkgoT().TempDir(), "db", "escalations.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(s.Close)
	})

	It("round-trips records newest first", func() {
		Expect(s.Append(ctx, record(1))).To(Succeed())
		Expect(s.Append(ctx, record(2))).To(Succeed())

		records, err := s.List(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))
		Expect(records[0].TicketID).To(Equal(int64(1002)))
		Expect(records[0].Category).To(Equal(model.CategoryTechnical))
		Expect(records[0].Attempt).To(Equal(2))
		Expect(records[0].CreatedAt).To(BeTemporally("==", record(2).CreatedAt))
		Expect(records[1].Subject).To(Equal("subject 1"))
	})

	It("stores N/A for empty fields", func() {
		rec := record(1)
		rec.Draft = ""
		Expect(s.Append(ctx, rec)).To(Succeed())

		records, err := s.List(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(records[0].Draft).To(Equal("N/A"))
	})

	It("handles concurrent appends", func() {
		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func(n int) {
				defer GinkgoRecover()
				defer wg.Done()
				Expect(s.Append(ctx, record(n))).To(Succeed())
			}(i)
		}
		wg.Wait()

		records, err := s.List(ctx, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(20))
	})
})

var _ = Describe("NewEscalationStore", func() {
	It("defaults to csv", func() {
		dir := GinkgoT().TempDir()
		s, err := store.NewEscalationStore(context.Background(), config.EscalationConfig{
			CSVPath: filepath.Join(dir, "log.csv"),
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeAssignableToTypeOf(&store.CSVEscalationStore{}))
	})

	It("opens sqlite", func() {
		s, err := store.NewEscalationStore(context.Background(), config.EscalationConfig{
			Sink:       config.SinkSQLite,
			SQLitePath: filepath.Join(GinkgoT().TempDir(), "e.db"),
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(s.Close)
		Expect(s).To(BeAssignableToTypeOf(&store.SQLiteEscalationStore{}))
	})

	It("requires a database for postgres", func() {
		_, err := store.NewEscalationStore(context.Background(), config.EscalationConfig{Sink: config.SinkPostgres}, nil)
		Expect(err).To(MatchError(ContainSubstring("requires a database")))
	})

	It("rejects unknown sinks", func() {
		_, err := store.NewEscalationStore(context.Background(), config.EscalationConfig{Sink: "s3"}, nil)
		Expect(err).To(HaveOccurred())
	})
})
