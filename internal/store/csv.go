package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"basegraph.app/helpdesk/internal/model"
)

var csvHeader = []string{"Subject", "Description", "Draft", "Feedback", "Escalation_Reason"}

// CSVEscalationStore appends escalations to a CSV file. The header is written
// once when the file is created. Only the header columns are persisted.
type CSVEscalationStore struct {
	mu   sync.Mutex
	path string
}

func NewCSVEscalationStore(path string) (*CSVEscalationStore, error) {
	if path == "" {
		return nil, fmt.Errorf("csv escalation path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating escalation log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case errors.Is(err, fs.ErrExist):
		// Existing log, header already present.
	case err != nil:
		return nil, fmt.Errorf("creating escalation log: %w", err)
	default:
		line, encErr := encodeCSVRow(csvHeader)
		if encErr == nil {
			_, encErr = f.Write(line)
		}
		if closeErr := f.Close(); encErr == nil {
			encErr = closeErr
		}
		if encErr != nil {
			return nil, fmt.Errorf("writing escalation log header: %w", encErr)
		}
	}

	return &CSVEscalationStore{path: path}, nil
}

func (s *CSVEscalationStore) Append(ctx context.Context, rec model.EscalationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := encodeCSVRow([]string{
		rec.Subject,
		rec.Description,
		model.OrNA(rec.Draft),
		model.OrNA(rec.Feedback),
		rec.EscalationReason,
	})
	if err != nil {
		return fmt.Errorf("encoding escalation record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening escalation log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("appending escalation record: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("syncing escalation log: %w", err)
	}
	return f.Close()
}

func (s *CSVEscalationStore) List(ctx context.Context, limit int) ([]model.EscalationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening escalation log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	var records []model.EscalationRecord
	for first := true; ; first = false {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading escalation log: %w", err)
		}
		if first && slices.Equal(row, csvHeader) {
			continue
		}
		records = append(records, model.EscalationRecord{
			Subject:          row[0],
			Description:      row[1],
			Draft:            row[2],
			Feedback:         row[3],
			EscalationReason: row[4],
		})
	}

	slices.Reverse(records)
	return records[:min(listLimit(limit), len(records))], nil
}

func (s *CSVEscalationStore) Close() error {
	return nil
}

func encodeCSVRow(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
