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
	"github.com/mbradford/expense-tracker/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using DynamoDB
type CategoryRepository struct {
	client *dynamodb.Client
	table  string
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(client *dynamodb.Client, table string) *CategoryRepository {
	return &CategoryRepository{client: client, table: table}
}

type categoryItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"EntityType"`
	Name       string   `dynamodbav:"name"`
	Labels     []string `dynamodbav:"labels"`
	AccountID  string   `dynamodbav:"account_id"`
	CardName   string   `dynamodbav:"card_name"`
	Active     bool     `dynamodbav:"active"`
	CreatedAt  string   `dynamodbav:"created_at"`
}

func (i categoryItem) toDomain() (*domain.Category, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("category %s: bad created_at: %w", i.Name, err)
	}
	labels := i.Labels
	if labels == nil {
		labels = []string{}
	}
	return &domain.Category{
		Name:      i.Name,
		Labels:    labels,
		AccountID: i.AccountID,
		CardName:  i.CardName,
		Active:    i.Active,
		CreatedAt: createdAt,
	}, nil
}

// Create stores a category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	category.CreatedAt = time.Now().UTC()
	if category.Labels == nil {
		category.Labels = []string{}
	}

	item, err := attributevalue.MarshalMap(categoryItem{
		PK:         categoryKey(category.Name),
		SK:         categoryKey(category.Name),
		EntityType: entityCategory,
		Name:       category.Name,
		Labels:     category.Labels,
		AccountID:  category.AccountID,
		CardName:   category.CardName,
		Active:     category.Active,
		CreatedAt:  category.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// GetByName retrieves a category by name
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: categoryKey(name)},
			"SK": &types.AttributeValueMemberS{Value: categoryKey(name)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrCategoryNotFound
	}

	var item categoryItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}

// List returns categories in creation order, the order the engine relies on
// for deterministic tie-breaking, optionally filtered by account id.
func (r *CategoryRepository) List(ctx context.Context, accountID string) ([]*domain.Category, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("EntityType = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: entityCategory},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make([]*domain.Category, 0, len(out.Items))
	for _, raw := range out.Items {
		var item categoryItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, err
		}
		category, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		if accountID == "" || category.AccountID == accountID {
			categories = append(categories, category)
		}
	}

	sort.Slice(categories, func(i, j int) bool { return categories[i].CreatedAt.Before(categories[j].CreatedAt) })
	return categories, nil
}

// Update mutates labels and/or the active flag, the only mutable fields
func (r *CategoryRepository) Update(ctx context.Context, name string, update domain.CategoryUpdate) (*domain.Category, error) {
	var sets []string
	values := map[string]types.AttributeValue{}

	if update.Labels != nil {
		labelsAttr, err := attributevalue.Marshal(*update.Labels)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "labels = :labels")
		values[":labels"] = labelsAttr
	}
	if update.Active != nil {
		sets = append(sets, "active = :active")
		values[":active"] = &types.AttributeValueMemberBOOL{Value: *update.Active}
	}
	if len(sets) == 0 {
		return r.GetByName(ctx, name)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: categoryKey(name)},
			"SK": &types.AttributeValueMemberS{Value: categoryKey(name)},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	var item categoryItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}
