// Package csv parses card statement exports into expenses. The layout is
// the Amex CSV export: dates are DD/MM/YYYY and amounts may carry currency
// symbols and thousands separators.
package csv

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/mbradford/expense-tracker/internal/domain"
)

const (
	// MaxStatementSize caps uploads; statements are small, anything bigger
	// is almost certainly the wrong file.
	MaxStatementSize = 500 * 1024

	dateLayout = "02/01/2006"
)

// ErrInvalidStatement marks file-level rejections: empty, oversized,
// non-UTF-8 or unparseable uploads.
var ErrInvalidStatement = errors.New("invalid statement file")

// StatementRow mirrors one line of the statement export
type StatementRow struct {
	Date                 string `csv:"Date"`
	Description          string `csv:"Description"`
	CardMember           string `csv:"Card Member"`
	Amount               string `csv:"Amount"`
	AccountNumber        string `csv:"Account #"`
	ExtendedDetails      string `csv:"Extended Details"`
	AppearsOnStatementAs string `csv:"Appears On Your Statement As"`
	Address              string `csv:"Address"`
	CityState            string `csv:"City/State"`
	ZipCode              string `csv:"Zip Code"`
	Country              string `csv:"Country"`
	Reference            string `csv:"Reference"`
	Category             string `csv:"Category"`
}

// RowError reports a row that could not be converted. Row numbers are
// 1-based data rows, so row 1 is the first line after the header.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseStatement reads a statement export and converts each data row into an
// expense. Conversion failures are collected per row rather than aborting the
// whole file; the caller decides how to report them.
func ParseStatement(r io.Reader) ([]*domain.Expense, []*RowError, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxStatementSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read statement: %w", err)
	}
	if err := validateStatement(data); err != nil {
		return nil, nil, err
	}

	var rows []*StatementRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidStatement, err)
	}

	var (
		expenses  []*domain.Expense
		rowErrors []*RowError
	)
	for i, row := range rows {
		expense, err := row.ToExpense()
		if err != nil {
			rowErrors = append(rowErrors, &RowError{Row: i + 1, Err: err})
			continue
		}
		expenses = append(expenses, expense)
	}
	return expenses, rowErrors, nil
}

func validateStatement(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidStatement)
	}
	if len(data) > MaxStatementSize {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidStatement, MaxStatementSize)
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: file is not valid UTF-8", ErrInvalidStatement)
	}
	return nil
}

// ToExpense converts a raw row into a domain expense. Statement fields that
// are blank stay nil so they are omitted from stored items.
func (row *StatementRow) ToExpense() (*domain.Expense, error) {
	description := strings.TrimSpace(row.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	cardMember := strings.TrimSpace(row.CardMember)
	if cardMember == "" {
		return nil, domain.ErrCardMemberRequired
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(row.Date))
	if err != nil {
		return nil, fmt.Errorf("bad date %q: expected DD/MM/YYYY", row.Date)
	}

	amount, err := ParseAmount(row.Amount)
	if err != nil {
		return nil, err
	}

	return &domain.Expense{
		Date:                 date,
		Description:          description,
		CardMember:           cardMember,
		Amount:               amount,
		AccountNumber:        optional(row.AccountNumber),
		ExtendedDetails:      optional(row.ExtendedDetails),
		AppearsOnStatementAs: optional(row.AppearsOnStatementAs),
		Address:              optional(row.Address),
		CityState:            optional(row.CityState),
		ZipCode:              optional(row.ZipCode),
		Country:              optional(row.Country),
		Reference:            optional(row.Reference),
		CategoryHint:         []string{},
	}, nil
}

// ParseAmount reads a statement amount, tolerating currency symbols and
// thousands separators ("$1,234.56" and "1234.56" both parse).
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad amount %q: %w", raw, err)
	}
	return amount, nil
}

func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
