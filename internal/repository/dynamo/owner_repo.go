package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mbradford/expense-tracker/internal/domain"
)

// OwnerRepository implements domain.OwnerRepository using DynamoDB
type OwnerRepository struct {
	client *dynamodb.Client
	table  string
}

// NewOwnerRepository creates a new OwnerRepository
func NewOwnerRepository(client *dynamodb.Client, table string) *OwnerRepository {
	return &OwnerRepository{client: client, table: table}
}

type ownerItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Name       string `dynamodbav:"name"`
	CardName   string `dynamodbav:"card_name"`
	CreatedAt  string `dynamodbav:"created_at"`
}

func (i ownerItem) toDomain() (*domain.Owner, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("owner %s: bad created_at: %w", i.Name, err)
	}
	return &domain.Owner{Name: i.Name, CardName: i.CardName, CreatedAt: createdAt}, nil
}

// Create stores an owner; owners are immutable, so an existing key is a
// conflict rather than an upsert.
func (r *OwnerRepository) Create(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	owner.CreatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(ownerItem{
		PK:         ownerKey(owner.Name),
		SK:         ownerKey(owner.Name),
		EntityType: entityOwner,
		Name:       owner.Name,
		CardName:   owner.CardName,
		CreatedAt:  owner.CreatedAt.Format(time.RFC3339Nano),
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
			return nil, domain.ErrOwnerAlreadyExists
		}
		return nil, fmt.Errorf("create owner: %w", err)
	}
	return owner, nil
}

// GetByName retrieves an owner by name
func (r *OwnerRepository) GetByName(ctx context.Context, name string) (*domain.Owner, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerKey(name)},
			"SK": &types.AttributeValueMemberS{Value: ownerKey(name)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrOwnerNotFound
	}

	var item ownerItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}

// List returns all owners in creation order
func (r *OwnerRepository) List(ctx context.Context) ([]*domain.Owner, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("EntityType = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: entityOwner},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	owners := make([]*domain.Owner, 0, len(out.Items))
	for _, raw := range out.Items {
		var item ownerItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, err
		}
		owner, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}

	sort.Slice(owners, func(i, j int) bool { return owners[i].CreatedAt.Before(owners[j].CreatedAt) })
	return owners, nil
}
