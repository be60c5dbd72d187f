package models

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TypeTags is a list of book types. Older records and clients send a single
// string instead of a list, both forms are accepted.
type TypeTags []string

// UnmarshalJSON accepts a string, an array of strings or null
func (t *TypeTags) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = fromSingle(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("desire_type must be a string or an array of strings: %w", err)
	}
	*t = many
	return nil
}

// UnmarshalDynamoDBAttributeValue accepts S, SS, L (of S) and NULL attributes
func (t *TypeTags) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		*t = fromSingle(v.Value)
	case *types.AttributeValueMemberSS:
		*t = append(TypeTags(nil), v.Value...)
	case *types.AttributeValueMemberL:
		tags := make(TypeTags, 0, len(v.Value))
		for _, item := range v.Value {
			s, ok := item.(*types.AttributeValueMemberS)
			if !ok {
				return fmt.Errorf("desire_type list holds %T, expected string", item)
			}
			tags = append(tags, s.Value)
		}
		*t = tags
	case *types.AttributeValueMemberNULL:
		*t = nil
	default:
		return fmt.Errorf("unsupported desire_type attribute %T", av)
	}
	return nil
}

func fromSingle(s string) TypeTags {
	if s == "" {
		return nil
	}
	return TypeTags{s}
}
