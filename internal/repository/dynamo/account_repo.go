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

// AccountRepository implements domain.AccountRepository using DynamoDB
type AccountRepository struct {
	client *dynamodb.Client
	table  string
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(client *dynamodb.Client, table string) *AccountRepository {
	return &AccountRepository{client: client, table: table}
}

type accountItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	EntityType  string `dynamodbav:"EntityType"`
	AccountName string `dynamodbav:"account_name"`
	BankName    string `dynamodbav:"bank_name"`
	OwnerName   string `dynamodbav:"owner_name"`
	CardMember  string `dynamodbav:"card_member"`
	Active      bool   `dynamodbav:"active"`
	CreatedAt   string `dynamodbav:"created_at"`
	GSI1PK      string `dynamodbav:"GSI1PK"`
	GSI1SK      string `dynamodbav:"GSI1SK"`
}

func (i accountItem) toDomain() (*domain.Account, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("account %s: bad created_at: %w", i.AccountName, err)
	}
	return &domain.Account{
		AccountName: i.AccountName,
		BankName:    i.BankName,
		OwnerName:   i.OwnerName,
		CardMember:  i.CardMember,
		Active:      i.Active,
		CreatedAt:   createdAt,
	}, nil
}

// Create stores an account keyed by account and owner name. The GSI keys
// support listing a single owner's accounts without a scan.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	account.CreatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(accountItem{
		PK:          accountKey(account.AccountName, account.OwnerName),
		SK:          accountKey(account.AccountName, account.OwnerName),
		EntityType:  entityAccount,
		AccountName: account.AccountName,
		BankName:    account.BankName,
		OwnerName:   account.OwnerName,
		CardMember:  account.CardMember,
		Active:      account.Active,
		CreatedAt:   account.CreatedAt.Format(time.RFC3339Nano),
		GSI1PK:      ownerKey(account.OwnerName),
		GSI1SK:      "ACCOUNT#" + account.AccountName,
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
			return nil, domain.ErrAccountAlreadyExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// GetByID retrieves an account by its derived id ("account owner")
func (r *AccountRepository) GetByID(ctx context.Context, accountID string) (*domain.Account, error) {
	accountName, ownerName, err := domain.SplitAccountID(accountID)
	if err != nil {
		return nil, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountKey(accountName, ownerName)},
			"SK": &types.AttributeValueMemberS{Value: accountKey(accountName, ownerName)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrAccountNotFound
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}

// List returns accounts in creation order, optionally filtered by owner
func (r *AccountRepository) List(ctx context.Context, ownerName string) ([]*domain.Account, error) {
	var items []map[string]types.AttributeValue

	if ownerName != "" {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.table),
			IndexName:              aws.String(AccountsByOwnerIndex),
			KeyConditionExpression: aws.String("GSI1PK = :pk AND begins_with(GSI1SK, :sk)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: ownerKey(ownerName)},
				":sk": &types.AttributeValueMemberS{Value: "ACCOUNT#"},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("list accounts by owner: %w", err)
		}
		items = out.Items
	} else {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.table),
			FilterExpression: aws.String("EntityType = :t"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":t": &types.AttributeValueMemberS{Value: entityAccount},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		items = out.Items
	}

	accounts := make([]*domain.Account, 0, len(items))
	for _, raw := range items {
		var item accountItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, err
		}
		account, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].CreatedAt.Before(accounts[j].CreatedAt) })
	return accounts, nil
}

// SetActive flips the only mutable account field
func (r *AccountRepository) SetActive(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
	accountName, ownerName, err := domain.SplitAccountID(accountID)
	if err != nil {
		return nil, err
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountKey(accountName, ownerName)},
			"SK": &types.AttributeValueMemberS{Value: accountKey(accountName, ownerName)},
		},
		UpdateExpression:    aws.String("SET active = :active"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: active},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}
