package credential

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBConfig addresses the table holding credentials.
type DynamoDBConfig struct {
	Table    string
	Region   string
	Endpoint string // optional, e.g. DynamoDB Local
}

// DynamoDBStore keeps the credential as one item keyed by account name.
type DynamoDBStore struct {
	client  *dynamodb.Client
	table   string
	account string
}

// Compile-time check to ensure DynamoDBStore implements Store
var _ Store = (*DynamoDBStore)(nil)

// NewDynamoDBStore loads the default AWS configuration and returns a store for the
// given account.
func NewDynamoDBStore(ctx context.Context, cfg DynamoDBConfig, account string) (*DynamoDBStore, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("table cannot be empty")
	}
	if account == "" {
		return nil, fmt.Errorf("account cannot be empty")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(cfg.Endpoint))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &DynamoDBStore{
		client:  dynamodb.NewFromConfig(awsCfg),
		table:   cfg.Table,
		account: account,
	}, nil
}

func (s *DynamoDBStore) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "CREDENTIAL#" + s.account},
	}
}

// Read fetches the credential item. A missing item is ErrNotFound.
func (s *DynamoDBStore) Read(ctx context.Context) (string, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &s.table,
		Key:            s.key(),
		ConsistentRead: boolPtr(true),
	})
	if err != nil {
		return "", fmt.Errorf("GetItem: %w", err)
	}
	if out.Item == nil {
		return "", fmt.Errorf("account %s: %w", s.account, ErrNotFound)
	}

	attr, ok := out.Item["credential"].(*types.AttributeValueMemberS)
	if !ok || attr.Value == "" {
		return "", fmt.Errorf("empty credential for account %s", s.account)
	}
	return attr.Value, nil
}

// Write replaces the credential item.
func (s *DynamoDBStore) Write(ctx context.Context, credential string) error {
	if credential == "" {
		return fmt.Errorf("refusing to store empty credential")
	}

	item := s.key()
	item["credential"] = &types.AttributeValueMemberS{Value: credential}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
