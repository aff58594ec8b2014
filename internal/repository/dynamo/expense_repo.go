package dynamo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/mbradford/expense-tracker/internal/domain"
)

// prefixScanLimit caps how many expenses a prefix search will consider.
// Prefix resolution is a CLI convenience, not an exhaustive index.
const prefixScanLimit = 1000

// ExpenseRepository implements domain.ExpenseRepository using DynamoDB
type ExpenseRepository struct {
	client *dynamodb.Client
	table  string
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(client *dynamodb.Client, table string) *ExpenseRepository {
	return &ExpenseRepository{client: client, table: table}
}

// Amounts are stored as decimal strings so DynamoDB number coercion can
// never change what the statement said.
type expenseItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`

	ID          string `dynamodbav:"id"`
	Date        string `dynamodbav:"date"`
	Description string `dynamodbav:"description"`
	CardMember  string `dynamodbav:"card_member"`
	Amount      string `dynamodbav:"amount"`

	AccountNumber        *string `dynamodbav:"account_number,omitempty"`
	AccountID            *string `dynamodbav:"account_id,omitempty"`
	ExtendedDetails      *string `dynamodbav:"extended_details,omitempty"`
	AppearsOnStatementAs *string `dynamodbav:"appears_on_statement_as,omitempty"`
	Address              *string `dynamodbav:"address,omitempty"`
	CityState            *string `dynamodbav:"city_state,omitempty"`
	ZipCode              *string `dynamodbav:"zip_code,omitempty"`
	Country              *string `dynamodbav:"country,omitempty"`
	Reference            *string `dynamodbav:"reference,omitempty"`

	Category           string   `dynamodbav:"category"`
	CategoryHint       []string `dynamodbav:"category_hint"`
	NeedsReview        bool     `dynamodbav:"needs_review"`
	AssignedCardMember string   `dynamodbav:"assigned_card_member"`
	AutoCategorized    bool     `dynamodbav:"auto_categorized"`

	CreatedAt string `dynamodbav:"created_at"`
}

func fromDomain(e *domain.Expense) expenseItem {
	hint := e.CategoryHint
	if hint == nil {
		hint = []string{}
	}
	return expenseItem{
		PK:                   expenseKey(e.ID),
		SK:                   expenseKey(e.ID),
		EntityType:           entityExpense,
		ID:                   e.ID,
		Date:                 e.Date.Format(time.RFC3339Nano),
		Description:          e.Description,
		CardMember:           e.CardMember,
		Amount:               e.Amount.String(),
		AccountNumber:        e.AccountNumber,
		AccountID:            e.AccountID,
		ExtendedDetails:      e.ExtendedDetails,
		AppearsOnStatementAs: e.AppearsOnStatementAs,
		Address:              e.Address,
		CityState:            e.CityState,
		ZipCode:              e.ZipCode,
		Country:              e.Country,
		Reference:            e.Reference,
		Category:             e.Category,
		CategoryHint:         hint,
		NeedsReview:          e.NeedsReview,
		AssignedCardMember:   e.AssignedCardMember,
		AutoCategorized:      e.AutoCategorized,
		CreatedAt:            e.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (i expenseItem) toDomain() (*domain.Expense, error) {
	date, err := time.Parse(time.RFC3339Nano, i.Date)
	if err != nil {
		return nil, fmt.Errorf("expense %s: bad date: %w", i.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("expense %s: bad created_at: %w", i.ID, err)
	}
	amount, err := decimal.NewFromString(i.Amount)
	if err != nil {
		return nil, fmt.Errorf("expense %s: bad amount %q: %w", i.ID, i.Amount, err)
	}
	hint := i.CategoryHint
	if hint == nil {
		hint = []string{}
	}
	return &domain.Expense{
		ID:                   i.ID,
		Date:                 date,
		Description:          i.Description,
		CardMember:           i.CardMember,
		Amount:               amount,
		AccountNumber:        i.AccountNumber,
		AccountID:            i.AccountID,
		ExtendedDetails:      i.ExtendedDetails,
		AppearsOnStatementAs: i.AppearsOnStatementAs,
		Address:              i.Address,
		CityState:            i.CityState,
		ZipCode:              i.ZipCode,
		Country:              i.Country,
		Reference:            i.Reference,
		Category:             i.Category,
		CategoryHint:         hint,
		NeedsReview:          i.NeedsReview,
		AssignedCardMember:   i.AssignedCardMember,
		AutoCategorized:      i.AutoCategorized,
		CreatedAt:            createdAt,
	}, nil
}

// Create stores an expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	expense.CreatedAt = time.Now().UTC()
	if expense.CategoryHint == nil {
		expense.CategoryHint = []string{}
	}

	item, err := attributevalue.MarshalMap(fromDomain(expense))
	if err != nil {
		return nil, err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return expense, nil
}

// GetByID retrieves an expense by its full id
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: expenseKey(id)},
			"SK": &types.AttributeValueMemberS{Value: expenseKey(id)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrExpenseNotFound
	}

	var item expenseItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}

// SearchByIDPrefix returns expenses whose id starts with prefix, newest first
func (r *ExpenseRepository) SearchByIDPrefix(ctx context.Context, prefix string) ([]*domain.Expense, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("EntityType = :t AND begins_with(id, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":      &types.AttributeValueMemberS{Value: entityExpense},
			":prefix": &types.AttributeValueMemberS{Value: prefix},
		},
		Limit: aws.Int32(prefixScanLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("search expenses: %w", err)
	}

	expenses, err := r.unmarshalAll(out.Items)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(expenses)
	return expenses, nil
}

// List returns filtered expenses, newest first. Date, account, category and
// review filters push down into the scan; the card member filter compares
// normalized forms so it runs in memory.
func (r *ExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	exprs := []string{"EntityType = :t"}
	values := map[string]types.AttributeValue{
		":t": &types.AttributeValueMemberS{Value: entityExpense},
	}
	// "date" is a DynamoDB reserved word
	names := map[string]string{}

	if filter.StartDate != nil {
		exprs = append(exprs, "#d >= :start")
		names["#d"] = "date"
		values[":start"] = &types.AttributeValueMemberS{Value: filter.StartDate.Format(time.RFC3339Nano)}
	}
	if filter.EndDate != nil {
		exprs = append(exprs, "#d <= :end")
		names["#d"] = "date"
		values[":end"] = &types.AttributeValueMemberS{Value: filter.EndDate.Format(time.RFC3339Nano)}
	}
	if filter.AccountID != "" {
		exprs = append(exprs, "account_id = :account")
		values[":account"] = &types.AttributeValueMemberS{Value: filter.AccountID}
	}
	if filter.Category != "" {
		exprs = append(exprs, "category = :category")
		values[":category"] = &types.AttributeValueMemberS{Value: filter.Category}
	}
	if filter.NeedsReview != nil {
		exprs = append(exprs, "needs_review = :review")
		values[":review"] = &types.AttributeValueMemberBOOL{Value: *filter.NeedsReview}
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          aws.String(strings.Join(exprs, " AND ")),
		ExpressionAttributeValues: values,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	var expenses []*domain.Expense
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list expenses: %w", err)
		}
		batch, err := r.unmarshalAll(page.Items)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, batch...)
	}

	if filter.AssignedCardMember != "" {
		want := normalizeMember(filter.AssignedCardMember)
		filtered := expenses[:0]
		for _, e := range expenses {
			if normalizeMember(e.AssignedCardMember) == want {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}

	sortNewestFirst(expenses)
	if expenses == nil {
		expenses = []*domain.Expense{}
	}
	return expenses, nil
}

// ListCategorizedSince returns categorized expenses dated on or after since.
// Rows whose stored amount no longer parses are logged and skipped so one bad
// record cannot block categorization.
func (r *ExpenseRepository) ListCategorizedSince(ctx context.Context, since time.Time) ([]*domain.Expense, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("EntityType = :t AND #d >= :since AND category <> :empty AND category <> :unknown"),
		ExpressionAttributeNames: map[string]string{
			"#d": "date",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":       &types.AttributeValueMemberS{Value: entityExpense},
			":since":   &types.AttributeValueMemberS{Value: since.Format(time.RFC3339Nano)},
			":empty":   &types.AttributeValueMemberS{Value: ""},
			":unknown": &types.AttributeValueMemberS{Value: domain.UnknownCategoryName},
		},
	}

	var expenses []*domain.Expense
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list categorized expenses: %w", err)
		}
		for _, raw := range page.Items {
			var item expenseItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, err
			}
			expense, err := item.toDomain()
			if err != nil {
				log.Warn().Err(err).Str("expense_id", item.ID).Msg("skipping unreadable expense in history")
				continue
			}
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

// UpdateCategorization applies the full categorization result in a single
// UpdateItem so readers never see a partially derived expense.
func (r *ExpenseRepository) UpdateCategorization(ctx context.Context, id string, update domain.CategorizationUpdate) (*domain.Expense, error) {
	hint := update.CategoryHint
	if hint == nil {
		hint = []string{}
	}
	hintAttr, err := attributevalue.Marshal(hint)
	if err != nil {
		return nil, err
	}

	sets := []string{
		"category = :category",
		"category_hint = :hint",
		"needs_review = :review",
		"assigned_card_member = :member",
	}
	values := map[string]types.AttributeValue{
		":category": &types.AttributeValueMemberS{Value: update.Category},
		":hint":     hintAttr,
		":review":   &types.AttributeValueMemberBOOL{Value: update.NeedsReview},
		":member":   &types.AttributeValueMemberS{Value: update.AssignedCardMember},
	}
	if update.AccountID != nil {
		sets = append(sets, "account_id = :account")
		values[":account"] = &types.AttributeValueMemberS{Value: *update.AccountID}
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: expenseKey(id)},
			"SK": &types.AttributeValueMemberS{Value: expenseKey(id)},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("update expense categorization: %w", err)
	}

	var item expenseItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: expenseKey(id)},
			"SK": &types.AttributeValueMemberS{Value: expenseKey(id)},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if out.Attributes == nil {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) unmarshalAll(items []map[string]types.AttributeValue) ([]*domain.Expense, error) {
	expenses := make([]*domain.Expense, 0, len(items))
	for _, raw := range items {
		var item expenseItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, err
		}
		expense, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

func sortNewestFirst(expenses []*domain.Expense) {
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.After(expenses[j].Date) })
}

func normalizeMember(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
