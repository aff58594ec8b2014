package service

import (
	"context"
	"strings"
	"testing"

	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/testutil"
)

const uploadHeader = "Date,Description,Card Member,Amount,Account #,Extended Details,Appears On Your Statement As,Address,City/State,Zip Code,Country,Reference,Category\n"

func newUploadFixture(t *testing.T) (*UploadService, *ExpenseService, *testutil.MockStatementArchiver) {
	t.Helper()
	expenseSvc, _, _ := newExpenseFixture(t)
	archiver := testutil.NewMockStatementArchiver()
	return NewUploadService(expenseSvc, archiver), expenseSvc, archiver
}

func TestProcessStatement(t *testing.T) {
	uploadSvc, expenseSvc, archiver := newUploadFixture(t)
	ctx := context.Background()

	input := uploadHeader +
		"15/08/2026,APPLE.COM/BILL SYDNEY,JOHN SMITH,12.99,,,,,,,,,\n" +
		"16/08/2026,COUNTDOWN AUCKLAND,JANE SMITH,54.30,,,,,,,,,\n" +
		"17/08/2026,MINI SMILES DENTIST,JOHN SMITH,80.00,,,,,,,,,\n" +
		"bad-date,BROKEN ROW,JOHN SMITH,1.00,,,,,,,,,\n"

	summary, err := uploadSvc.ProcessStatement(ctx, "statement.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ProcessStatement: %v", err)
	}

	if summary.Processed != 3 {
		t.Errorf("processed = %d, want 3", summary.Processed)
	}
	if summary.Label != 2 {
		t.Errorf("label = %d, want 2", summary.Label)
	}
	if summary.Unknown != 1 {
		t.Errorf("unknown = %d, want 1", summary.Unknown)
	}
	if summary.NeedsReview != 1 {
		t.Errorf("needs review = %d, want 1", summary.NeedsReview)
	}
	if len(summary.Errors) != 1 {
		t.Errorf("errors = %v, want the one bad row", summary.Errors)
	}
	if summary.ArchiveKey == "" {
		t.Error("expected the statement to be archived")
	}
	if len(archiver.Files) != 1 {
		t.Errorf("archived files = %d, want 1", len(archiver.Files))
	}

	expenses, err := expenseSvc.GetExpenses(ctx, domain.ExpenseFilter{})
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 3 {
		t.Errorf("stored expenses = %d, want 3", len(expenses))
	}
}

func TestProcessStatementWithoutArchiver(t *testing.T) {
	expenseSvc, _, _ := newExpenseFixture(t)
	uploadSvc := NewUploadService(expenseSvc, nil)

	input := uploadHeader + "15/08/2026,APPLE.COM/BILL SYDNEY,JOHN SMITH,12.99,,,,,,,,,\n"
	summary, err := uploadSvc.ProcessStatement(context.Background(), "statement.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ProcessStatement: %v", err)
	}
	if summary.ArchiveKey != "" {
		t.Errorf("archive key = %q, want empty without an archiver", summary.ArchiveKey)
	}
	if summary.Processed != 1 {
		t.Errorf("processed = %d", summary.Processed)
	}
}

func TestProcessStatementArchiveFailureIsNotFatal(t *testing.T) {
	uploadSvc, _, archiver := newUploadFixture(t)
	archiver.Err = context.DeadlineExceeded

	input := uploadHeader + "15/08/2026,APPLE.COM/BILL SYDNEY,JOHN SMITH,12.99,,,,,,,,,\n"
	summary, err := uploadSvc.ProcessStatement(context.Background(), "statement.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ProcessStatement: %v", err)
	}
	if summary.Processed != 1 {
		t.Errorf("processed = %d, import must survive archive failure", summary.Processed)
	}
	if summary.ArchiveKey != "" {
		t.Errorf("archive key should be empty on failure, got %q", summary.ArchiveKey)
	}
}

func TestProcessStatementEmptyFile(t *testing.T) {
	uploadSvc, _, _ := newUploadFixture(t)

	if _, err := uploadSvc.ProcessStatement(context.Background(), "empty.csv", strings.NewReader("")); err == nil {
		t.Error("empty statement should be rejected")
	}
}
