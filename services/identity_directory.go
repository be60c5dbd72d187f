package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"coolbooks_server/models"
)

// ProfileDirectory resolves a user id to the public profile shown with listings.
// Unknown users yield ErrProfileNotFound.
type ProfileDirectory interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// CognitoAPI is the subset of the Cognito user pool client used here
type CognitoAPI interface {
	AdminGetUser(ctx context.Context, params *cognitoidentityprovider.AdminGetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminGetUserOutput, error)
}

// CognitoDirectory reads the "name" attribute of users in a Cognito user pool
type CognitoDirectory struct {
	Client     CognitoAPI
	UserPoolID string
}

func NewCognitoDirectory(cfg aws.Config, userPoolID string) *CognitoDirectory {
	return &CognitoDirectory{
		Client:     cognitoidentityprovider.NewFromConfig(cfg),
		UserPoolID: userPoolID,
	}
}

func (d *CognitoDirectory) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	out, err := d.Client.AdminGetUser(ctx, &cognitoidentityprovider.AdminGetUserInput{
		UserPoolId: aws.String(d.UserPoolID),
		Username:   aws.String(userID),
	})
	if err != nil {
		var notFound *cognitotypes.UserNotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get cognito user %s: %w", userID, err)
	}

	// A user without a name attribute still resolves, to an empty profile.
	profile := &models.Profile{}
	for _, attr := range out.UserAttributes {
		if aws.ToString(attr.Name) == "name" {
			profile.Name = aws.ToString(attr.Value)
		}
	}
	return profile, nil
}

// DynamoProfileDirectory reads profiles from the user profiles table
type DynamoProfileDirectory struct {
	Dynamo *DynamoService
	Table  string
}

func NewDynamoProfileDirectory(dynamo *DynamoService, table string) *DynamoProfileDirectory {
	return &DynamoProfileDirectory{Dynamo: dynamo, Table: table}
}

func (d *DynamoProfileDirectory) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	key := map[string]types.AttributeValue{
		models.AttrProfileKey: &types.AttributeValueMemberS{Value: userID},
	}

	item, err := d.Dynamo.GetItem(ctx, d.Table, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
	}
	return &profile, nil
}
