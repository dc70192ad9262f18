package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoAPI is the subset of the DynamoDB client the backend needs.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoBackend stores records in a table keyed by `key` (S) with the JSON in `value` (S).
type DynamoBackend struct {
	client DynamoAPI
	table  string
}

type ddbRecord struct {
	Key   string `dynamodbav:"key"`
	Value string `dynamodbav:"value"`
}

func NewDynamoBackend(client DynamoAPI, table string) *DynamoBackend {
	return &DynamoBackend{client: client, table: table}
}

func (d *DynamoBackend) Get(ctx context.Context, key string) (string, bool, error) {
	k, err := attributevalue.MarshalMap(map[string]string{"key": key})
	if err != nil {
		return "", false, fmt.Errorf("marshal key: %w", err)
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &d.table, Key: k})
	if err != nil {
		return "", false, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return "", false, nil
	}
	var rec ddbRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return "", false, fmt.Errorf("unmarshal item: %w", err)
	}
	return rec.Value, true, nil
}

func (d *DynamoBackend) Set(ctx context.Context, key, value string) error {
	item, err := attributevalue.MarshalMap(ddbRecord{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoBackend) Close() error { return nil }
