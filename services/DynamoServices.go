package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DynamoAPI is the subset of *dynamodb.Client used by DynamoService
type DynamoAPI interface {
	dynamodb.QueryAPIClient
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type DynamoService struct {
	Client DynamoAPI
	Log    *zap.Logger
}

// LoadAWSConfig loads the shared AWS configuration for the given region
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient(cfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}

// IndexQuery describes a query against a Global Secondary Index
type IndexQuery struct {
	TableName                 string
	IndexName                 string
	KeyConditionExpression    string
	FilterExpression          string // optional, applied server side after the key condition
	ExpressionAttributeValues map[string]types.AttributeValue
	ExpressionAttributeNames  map[string]string
}

// QueryAllWithIndex queries a GSI and follows LastEvaluatedKey until every page is read
func (ds *DynamoService) QueryAllWithIndex(ctx context.Context, q IndexQuery) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(q.TableName),
		IndexName:                 aws.String(q.IndexName),
		KeyConditionExpression:    aws.String(q.KeyConditionExpression),
		ExpressionAttributeValues: q.ExpressionAttributeValues,
	}
	if len(q.ExpressionAttributeNames) > 0 {
		input.ExpressionAttributeNames = q.ExpressionAttributeNames
	}
	if q.FilterExpression != "" {
		input.FilterExpression = aws.String(q.FilterExpression)
	}

	var items []map[string]types.AttributeValue
	pages := 0
	paginator := dynamodb.NewQueryPaginator(ds.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			ds.logger().Error("query failed",
				zap.String("table", q.TableName),
				zap.String("index", q.IndexName),
				zap.Error(err))
			return nil, fmt.Errorf("failed to query GSI '%s': %w", q.IndexName, err)
		}
		pages++
		items = append(items, page.Items...)
	}

	ds.logger().Debug("query successful",
		zap.String("index", q.IndexName),
		zap.Int("pages", pages),
		zap.Int("items", len(items)))
	return items, nil
}

// PutItem marshals item and writes it to tableName
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      marshaledItem,
	})
	if err != nil {
		ds.logger().Error("put item failed", zap.String("table", tableName), zap.Error(err))
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// GetItem retrieves an item from DynamoDB, ErrItemNotFound if the key is absent
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}

	if output.Item == nil {
		return nil, ErrItemNotFound
	}

	return output.Item, nil
}

func (ds *DynamoService) logger() *zap.Logger {
	if ds.Log == nil {
		return zap.NewNop()
	}
	return ds.Log
}
