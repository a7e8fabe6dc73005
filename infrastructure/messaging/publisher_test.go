package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"docstore-backend/domain/document"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockEventBridge struct {
	mock.Mock
}

func (m *mockEventBridge) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventbridge.PutEventsOutput), args.Error(1)
}

func TestEventBridgePublisher_Publish(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	event := document.NewUpsertedEvent("doc-1", true, at)

	t.Run("Should send one entry describing the change", func(t *testing.T) {
		client := new(mockEventBridge)
		var sent *eventbridge.PutEventsInput
		client.On("PutEvents", ctx, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).(*eventbridge.PutEventsInput) }).
			Return(&eventbridge.PutEventsOutput{}, nil)

		err := NewEventBridgePublisher(client, "docstore-bus", nil, zap.NewNop()).Publish(ctx, event)

		require.NoError(t, err)
		require.Len(t, sent.Entries, 1)
		entry := sent.Entries[0]
		assert.Equal(t, "docstore-bus", aws.ToString(entry.EventBusName))
		assert.Equal(t, DefaultSource, aws.ToString(entry.Source))
		assert.Equal(t, document.EventTypeUpserted, aws.ToString(entry.DetailType))
		assert.Equal(t, []string{"doc-1"}, entry.Resources)

		var detail document.ChangeEvent
		require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
		assert.Equal(t, "doc-1", detail.DocumentID)
		assert.True(t, detail.Created)
	})

	t.Run("Should default the bus name", func(t *testing.T) {
		client := new(mockEventBridge)
		client.On("PutEvents", ctx, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
			return aws.ToString(in.Entries[0].EventBusName) == "default"
		})).Return(&eventbridge.PutEventsOutput{}, nil)

		require.NoError(t, NewEventBridgePublisher(client, "", nil, zap.NewNop()).Publish(ctx, event))
		client.AssertExpectations(t)
	})

	t.Run("Should fail when the call fails", func(t *testing.T) {
		client := new(mockEventBridge)
		client.On("PutEvents", ctx, mock.Anything).Return(nil, errors.New("throttled"))

		err := NewEventBridgePublisher(client, "bus", nil, zap.NewNop()).Publish(ctx, event)
		assert.ErrorContains(t, err, "throttled")
	})

	t.Run("Should fail when an entry is rejected", func(t *testing.T) {
		client := new(mockEventBridge)
		client.On("PutEvents", ctx, mock.Anything).Return(&eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
		}, nil)

		err := NewEventBridgePublisher(client, "bus", nil, zap.NewNop()).Publish(ctx, event)
		assert.ErrorContains(t, err, "1 events failed")
	})
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), document.NewDeletedEvent("x", time.Now())))
}
