package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"coolbooks_server/models"
)

// ListingStore is the owner- and type-indexed listing storage
type ListingStore interface {
	// QueryByOwner returns every listing owned by ownerID
	QueryByOwner(ctx context.Context, ownerID string) ([]models.Listing, error)
	// QueryByType returns listings of bookType whose owner is not excludeOwnerID.
	// The exclusion is applied by the store, not by the caller.
	QueryByType(ctx context.Context, bookType, excludeOwnerID string) ([]models.Listing, error)
	PutListing(ctx context.Context, listing models.Listing) error
}

// DynamoListingStore keeps listings in a single table with two GSIs
type DynamoListingStore struct {
	Dynamo     *DynamoService
	Table      string
	OwnerIndex string
	TypeIndex  string
}

func NewDynamoListingStore(dynamo *DynamoService, table, ownerIndex, typeIndex string) *DynamoListingStore {
	return &DynamoListingStore{
		Dynamo:     dynamo,
		Table:      table,
		OwnerIndex: ownerIndex,
		TypeIndex:  typeIndex,
	}
}

func (s *DynamoListingStore) QueryByOwner(ctx context.Context, ownerID string) ([]models.Listing, error) {
	items, err := s.Dynamo.QueryAllWithIndex(ctx, IndexQuery{
		TableName:              s.Table,
		IndexName:              s.OwnerIndex,
		KeyConditionExpression: "#user_id = :user_id",
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberS{Value: ownerID},
		},
		ExpressionAttributeNames: map[string]string{
			"#user_id": models.AttrUserID,
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalListings(items)
}

func (s *DynamoListingStore) QueryByType(ctx context.Context, bookType, excludeOwnerID string) ([]models.Listing, error) {
	items, err := s.Dynamo.QueryAllWithIndex(ctx, IndexQuery{
		TableName:              s.Table,
		IndexName:              s.TypeIndex,
		KeyConditionExpression: "#type = :type",
		FilterExpression:       "#user_id <> :user_id",
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":type":    &types.AttributeValueMemberS{Value: bookType},
			":user_id": &types.AttributeValueMemberS{Value: excludeOwnerID},
		},
		ExpressionAttributeNames: map[string]string{
			"#type":    models.AttrType,
			"#user_id": models.AttrUserID,
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalListings(items)
}

func (s *DynamoListingStore) PutListing(ctx context.Context, listing models.Listing) error {
	return s.Dynamo.PutItem(ctx, s.Table, listing)
}

func unmarshalListings(items []map[string]types.AttributeValue) ([]models.Listing, error) {
	listings := make([]models.Listing, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &listings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listings: %w", err)
	}
	return listings, nil
}
