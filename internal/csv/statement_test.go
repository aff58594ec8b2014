package csv

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/mbradford/expense-tracker/internal/domain"
)

const statementHeader = "Date,Description,Card Member,Amount,Account #,Extended Details,Appears On Your Statement As,Address,City/State,Zip Code,Country,Reference,Category\n"

func TestParseStatement(t *testing.T) {
	input := statementHeader +
		`15/08/2026,APPLE.COM/BILL SYDNEY,JOHN SMITH,"$12.99",-12345,Subscription,APPLE.COM/BILL,1 Infinite Loop,SYDNEY NSW,2000,AUSTRALIA,REF001,Entertainment` + "\n" +
		`16/08/2026,COUNTDOWN AUCKLAND,JANE SMITH,"1,234.56",-12345,,,,,,,REF002,` + "\n"

	expenses, rowErrors, err := ParseStatement(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseStatement returned error: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrors)
	}
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}

	first := expenses[0]
	if first.Description != "APPLE.COM/BILL SYDNEY" {
		t.Errorf("description = %q", first.Description)
	}
	if first.CardMember != "JOHN SMITH" {
		t.Errorf("card member = %q", first.CardMember)
	}
	if !first.Amount.Equal(decimal.RequireFromString("12.99")) {
		t.Errorf("amount = %s", first.Amount)
	}
	if first.Date.Day() != 15 || first.Date.Month() != 8 || first.Date.Year() != 2026 {
		t.Errorf("date = %s, expected 15 Aug 2026", first.Date)
	}
	if first.Reference == nil || *first.Reference != "REF001" {
		t.Errorf("reference = %v", first.Reference)
	}
	if first.CategoryHint == nil {
		t.Error("category hint should be an empty list, not nil")
	}

	second := expenses[1]
	if !second.Amount.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("amount with separators = %s", second.Amount)
	}
	if second.ExtendedDetails != nil {
		t.Errorf("blank extended details should be nil, got %v", *second.ExtendedDetails)
	}
}

func TestParseStatementCollectsRowErrors(t *testing.T) {
	input := statementHeader +
		"15/08/2026,APPLE.COM/BILL,JOHN SMITH,12.99,,,,,,,,,\n" +
		"not-a-date,COUNTDOWN,JANE SMITH,5.00,,,,,,,,,\n" +
		"16/08/2026,,JANE SMITH,5.00,,,,,,,,,\n" +
		"17/08/2026,UBER TRIP,JOHN SMITH,abc,,,,,,,,,\n"

	expenses, rowErrors, err := ParseStatement(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseStatement returned error: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected 1 good expense, got %d", len(expenses))
	}
	if len(rowErrors) != 3 {
		t.Fatalf("expected 3 row errors, got %d: %v", len(rowErrors), rowErrors)
	}
	if rowErrors[0].Row != 2 {
		t.Errorf("first error row = %d, expected 2", rowErrors[0].Row)
	}
	if !errors.Is(rowErrors[1], domain.ErrDescriptionRequired) {
		t.Errorf("expected description error, got %v", rowErrors[1])
	}
}

func TestParseStatementRejectsBadFiles(t *testing.T) {
	if _, _, err := ParseStatement(strings.NewReader("")); err == nil {
		t.Error("empty file should be rejected")
	}

	big := statementHeader + strings.Repeat("x", MaxStatementSize)
	if _, _, err := ParseStatement(strings.NewReader(big)); err == nil {
		t.Error("oversized file should be rejected")
	}

	if _, _, err := ParseStatement(strings.NewReader(statementHeader + "\xff\xfe")); err == nil {
		t.Error("non UTF-8 file should be rejected")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12.99", "12.99", false},
		{"$12.99", "12.99", false},
		{"$1,234.56", "1234.56", false},
		{"-45.00", "-45", false},
		{" 7.50 ", "7.5", false},
		{"", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
