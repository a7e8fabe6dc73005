package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"docstore-backend/application/commands"
	"docstore-backend/application/ports"
	"docstore-backend/domain/document"
	apperrors "docstore-backend/pkg/errors"
	"docstore-backend/tests/fixtures"
	"docstore-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var upsertNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestUpsertHandler(opener ports.ClientOpener, publisher ports.ChangePublisher) *UpsertDocumentHandler {
	h := NewUpsertDocumentHandler(opener, publisher, zap.NewNop())
	h.now = func() time.Time { return upsertNow }
	h.newID = func() string { return "generated-id" }
	return h
}

func TestUpsertDocumentHandler_Handle_GeneratesIDWhenMissing(t *testing.T) {
	// Arrange
	ctx := context.Background()
	opener := new(mocks.MockClientOpener)
	client := new(mocks.MockDocumentClient)
	publisher := new(mocks.MockChangePublisher)

	expected := document.Record{ID: "generated-id", Message: "hello", CreationTimestamp: &upsertNow}
	opener.On("Open", ctx).Return(client, nil)
	client.On("Upsert", ctx, expected).Return(ports.ItemResponse{StatusCode: http.StatusOK, Resource: &expected}, nil)
	client.On("Close").Return(nil)
	publisher.On("Publish", ctx, document.NewUpsertedEvent("generated-id", false, upsertNow)).Return(nil)

	handler := newTestUpsertHandler(opener, publisher)

	// Act
	result, err := handler.Handle(ctx, commands.UpsertDocumentCommand{Payload: []byte(`{"message":"hello"}`)})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Stored)
	assert.Equal(t, "generated-id", result.Record.ID)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, UpsertSuccessPrefix+`{"id":"generated-id","message":"hello","creationTimestamp":"2024-06-01T12:00:00Z"}`, result.Message)
	opener.AssertExpectations(t)
	client.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUpsertDocumentHandler_Handle_FirstWriteIsNotAcknowledged(t *testing.T) {
	ctx := context.Background()
	opener := new(mocks.MockClientOpener)
	client := new(mocks.MockDocumentClient)
	publisher := new(mocks.MockChangePublisher)

	stored := document.Record{ID: "new-id", Message: "hello", CreationTimestamp: &upsertNow}
	opener.On("Open", ctx).Return(client, nil)
	client.On("Upsert", ctx, stored).Return(ports.ItemResponse{StatusCode: http.StatusCreated, Resource: &stored}, nil)
	client.On("Close").Return(nil)
	publisher.On("Publish", ctx, document.NewUpsertedEvent("new-id", true, upsertNow)).Return(nil)

	result, err := newTestUpsertHandler(opener, publisher).Handle(ctx, commands.UpsertDocumentCommand{
		Payload: []byte(`{"id":"new-id","message":"hello"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, result.StatusCode)
	assert.False(t, result.Stored)
	assert.Empty(t, result.Message)
	client.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUpsertDocumentHandler_Handle_PreservesCallerID(t *testing.T) {
	ctx := context.Background()
	opener := new(mocks.MockClientOpener)
	client := new(mocks.MockDocumentClient)

	opener.On("Open", ctx).Return(client, nil)
	client.On("Upsert", ctx, mock.MatchedBy(func(r document.Record) bool {
		return r.ID == "caller-id"
	})).Return(ports.ItemResponse{StatusCode: http.StatusOK}, nil)
	client.On("Close").Return(nil)

	handler := newTestUpsertHandler(opener, nil)

	result, err := handler.Handle(ctx, commands.UpsertDocumentCommand{
		Payload: fixtures.NewRecordBuilder().WithID("caller-id").JSON(),
	})

	require.NoError(t, err)
	assert.Equal(t, "caller-id", result.Record.ID)
	assert.True(t, strings.HasPrefix(result.Message, UpsertSuccessPrefix))
	client.AssertExpectations(t)
}

func TestUpsertDocumentHandler_Handle_TimestampRule(t *testing.T) {
	supplied := time.Date(2019, 5, 5, 5, 5, 5, 0, time.UTC)

	tests := []struct {
		name     string
		payload  []byte
		expected *time.Time
	}{
		{
			name:     "absent timestamp is stamped with now",
			payload:  []byte(`{"id":"a","message":"m"}`),
			expected: &upsertNow,
		},
		{
			name:     "zone-less default timestamp stays at the sentinel",
			payload:  []byte(`{"id":"a","message":"m","creationTimestamp":"0001-01-01T00:00:00"}`),
			expected: &time.Time{},
		},
		{
			name:     "zero timestamp stays at the sentinel",
			payload:  []byte(`{"id":"a","message":"m","creationTimestamp":"0001-01-01T00:00:00Z"}`),
			expected: &time.Time{},
		},
		{
			name:     "non-default timestamp is overwritten with now",
			payload:  fixtures.NewRecordBuilder().WithID("a").WithCreationTimestamp(supplied).JSON(),
			expected: &upsertNow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			opener := new(mocks.MockClientOpener)
			client := new(mocks.MockDocumentClient)

			var sent document.Record
			opener.On("Open", ctx).Return(client, nil)
			client.On("Upsert", ctx, mock.AnythingOfType("document.Record")).
				Run(func(args mock.Arguments) { sent = args.Get(1).(document.Record) }).
				Return(ports.ItemResponse{StatusCode: http.StatusOK}, nil)
			client.On("Close").Return(nil)

			_, err := newTestUpsertHandler(opener, nil).Handle(ctx, commands.UpsertDocumentCommand{Payload: tt.payload})

			require.NoError(t, err)
			require.NotNil(t, sent.CreationTimestamp)
			assert.True(t, tt.expected.Equal(*sent.CreationTimestamp))
		})
	}
}

func TestUpsertDocumentHandler_Handle_UnacknowledgedStatus(t *testing.T) {
	ctx := context.Background()
	opener := new(mocks.MockClientOpener)
	client := new(mocks.MockDocumentClient)
	publisher := new(mocks.MockChangePublisher)

	opener.On("Open", ctx).Return(client, nil)
	client.On("Upsert", ctx, mock.Anything).Return(ports.ItemResponse{StatusCode: http.StatusTooManyRequests}, nil)
	client.On("Close").Return(nil)

	result, err := newTestUpsertHandler(opener, publisher).Handle(ctx, commands.UpsertDocumentCommand{Payload: []byte(`{"message":"m"}`)})

	require.NoError(t, err)
	assert.False(t, result.Stored)
	assert.Empty(t, result.Message)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestUpsertDocumentHandler_Handle_MalformedPayloadSkipsStore(t *testing.T) {
	opener := new(mocks.MockClientOpener)

	result, err := newTestUpsertHandler(opener, nil).Handle(context.Background(), commands.UpsertDocumentCommand{Payload: []byte("not json")})

	assert.Nil(t, result)
	assert.True(t, apperrors.IsValidation(err))
	opener.AssertNotCalled(t, "Open", mock.Anything)
}

func TestUpsertDocumentHandler_Handle_StoreErrorStillClosesClient(t *testing.T) {
	ctx := context.Background()
	opener := new(mocks.MockClientOpener)
	client := new(mocks.MockDocumentClient)

	opener.On("Open", ctx).Return(client, nil)
	client.On("Upsert", ctx, mock.Anything).Return(ports.ItemResponse{}, errors.New("throttled"))
	client.On("Close").Return(nil)

	result, err := newTestUpsertHandler(opener, nil).Handle(ctx, commands.UpsertDocumentCommand{Payload: []byte(`{"message":"m"}`)})

	assert.Nil(t, result)
	assert.True(t, apperrors.IsInternal(err))
	assert.Contains(t, err.Error(), "throttled")
	client.AssertCalled(t, "Close")
}

func TestUpsertDocumentHandler_Handle_PublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	opener := new(mocks.MockClientOpener)
	client := new(mocks.MockDocumentClient)
	publisher := new(mocks.MockChangePublisher)

	opener.On("Open", ctx).Return(client, nil)
	client.On("Upsert", ctx, mock.Anything).Return(ports.ItemResponse{StatusCode: http.StatusOK}, nil)
	client.On("Close").Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(errors.New("bus down"))

	result, err := newTestUpsertHandler(opener, publisher).Handle(ctx, commands.UpsertDocumentCommand{Payload: []byte(`{"id":"x"}`)})

	require.NoError(t, err)
	assert.True(t, result.Stored)
	publisher.AssertExpectations(t)
}
