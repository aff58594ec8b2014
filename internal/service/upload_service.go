package service

import (
	"bytes"
	"context"
	"io"

	"github.com/rs/zerolog/log"
	csvparse "github.com/mbradford/expense-tracker/internal/csv"
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/engine"
	"github.com/mbradford/expense-tracker/internal/repository/storage"
)

// UploadService imports statement CSV files as a batch of expenses
type UploadService struct {
	expenseService *ExpenseService
	archiver       storage.StatementArchiver // nil disables archiving
}

// NewUploadService creates a new UploadService. archiver may be nil when no
// archive bucket is configured.
func NewUploadService(expenseService *ExpenseService, archiver storage.StatementArchiver) *UploadService {
	return &UploadService{expenseService: expenseService, archiver: archiver}
}

// UploadSummary reports what a statement import did
type UploadSummary struct {
	Processed   int      `json:"processed"`
	Historical  int      `json:"historical"`
	Label       int      `json:"label"`
	Unknown     int      `json:"unknown"`
	NeedsReview int      `json:"needsReview"`
	Errors      []string `json:"errors"`
	ArchiveKey  string   `json:"archiveKey,omitempty"`
}

// ProcessStatement parses a statement file and creates one expense per valid
// row. The engine snapshot is built once for the whole batch, so rows inside
// the batch do not see each other as history. Row failures land in the
// summary rather than aborting the import.
func (s *UploadService) ProcessStatement(ctx context.Context, filename string, r io.Reader) (*UploadSummary, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	expenses, rowErrors, err := csvparse.ParseStatement(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	summary := &UploadSummary{Errors: []string{}}
	for _, rowErr := range rowErrors {
		summary.Errors = append(summary.Errors, rowErr.Error())
	}

	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, filename, bytes.NewReader(raw))
		if err != nil {
			// The import matters more than the archive copy
			log.Warn().Err(err).Str("filename", filename).Msg("statement archive failed")
		} else {
			summary.ArchiveKey = key
		}
	}

	if len(expenses) == 0 {
		return summary, nil
	}

	snap, err := s.expenseService.snapshot(ctx, oldest(expenses))
	if err != nil {
		return nil, err
	}

	for _, expense := range expenses {
		created, decision, err := s.expenseService.createWithSnapshot(ctx, expense, snap)
		if err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			continue
		}
		summary.Processed++
		if created.NeedsReview {
			summary.NeedsReview++
		}
		switch decision.Outcome {
		case engine.OutcomeHistorical:
			summary.Historical++
		case engine.OutcomeLabel:
			summary.Label++
		default:
			summary.Unknown++
		}
	}

	log.Info().
		Str("filename", filename).
		Int("processed", summary.Processed).
		Int("needs_review", summary.NeedsReview).
		Int("errors", len(summary.Errors)).
		Msg("statement import finished")
	return summary, nil
}

// oldest returns the earliest-dated expense so one history snapshot can
// cover the whole batch.
func oldest(expenses []*domain.Expense) *domain.Expense {
	earliest := expenses[0]
	for _, expense := range expenses[1:] {
		if expense.Date.Before(earliest.Date) {
			earliest = expense
		}
	}
	return earliest
}
