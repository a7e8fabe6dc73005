package dynamodb

import (
	"fmt"
	"time"

	"docstore-backend/domain/document"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	attrID      = "id"
	attrMessage = "message"
)

// item is the stored shape of a document.
type item struct {
	ID                string     `dynamodbav:"id"`
	Message           string     `dynamodbav:"message"`
	CreationTimestamp *time.Time `dynamodbav:"creationTimestamp,omitempty"`
}

func toItem(r document.Record) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(item{
		ID:                r.ID,
		Message:           r.Message,
		CreationTimestamp: r.CreationTimestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document %s: %w", r.ID, err)
	}
	return av, nil
}

func fromItem(av map[string]types.AttributeValue) (document.Record, error) {
	var it item
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return document.Record{}, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return document.Record{
		ID:                it.ID,
		Message:           it.Message,
		CreationTimestamp: it.CreationTimestamp,
	}, nil
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID: &types.AttributeValueMemberS{Value: id},
	}
}
