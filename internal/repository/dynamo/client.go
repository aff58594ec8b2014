// Package dynamo implements the domain repositories on a DynamoDB
// single-table layout: every entity lives in one table under a typed
// PK/SK pair (OWNER#, ACCOUNT#, CATEGORY#, EXPENSE#) with an EntityType
// attribute for scans and a GSI for accounts-by-owner lookups.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	cfg "github.com/mbradford/expense-tracker/internal/config"
)

const (
	entityOwner    = "Owner"
	entityAccount  = "Account"
	entityCategory = "Category"
	entityExpense  = "Expense"

	// AccountsByOwnerIndex lets account listings by owner avoid a full scan.
	AccountsByOwnerIndex = "GSI1"
)

func ownerKey(name string) string          { return "OWNER#" + name }
func accountKey(account, owner string) string { return "ACCOUNT#" + account + "#" + owner }
func categoryKey(name string) string       { return "CATEGORY#" + name }
func expenseKey(id string) string          { return "EXPENSE#" + id }

// NewClient builds a DynamoDB client from configuration, with an optional
// endpoint override for DynamoDB Local.
func NewClient(ctx context.Context, dbcfg cfg.DynamoDBConfig) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(dbcfg.Region),
	}

	// Add credentials if provided
	if dbcfg.AccessKeyID != "" && dbcfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				dbcfg.AccessKeyID,
				dbcfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if dbcfg.Endpoint != "" {
		return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(dbcfg.Endpoint)
		}), nil
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}

// Ping verifies the table exists and is reachable.
func Ping(ctx context.Context, client *dynamodb.Client, table string) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(table),
	})
	if err != nil {
		return fmt.Errorf("failed to describe table %s: %w", table, err)
	}
	return nil
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
