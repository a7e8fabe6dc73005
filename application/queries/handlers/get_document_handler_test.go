package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"docstore-backend/application/ports"
	"docstore-backend/application/queries"
	apperrors "docstore-backend/pkg/errors"
	"docstore-backend/tests/fixtures"
	"docstore-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetDocumentHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	opener := new(mocks.MockClientOpener)
	client := new(mocks.MockDocumentClient)

	stored := fixtures.NewRecordBuilder().
		WithID("doc-1").
		WithMessage("stored message").
		WithCreationTimestamp(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)).
		Build()

	opener.On("Open", ctx).Return(client, nil)
	client.On("Read", ctx, "doc-1", "doc-1").Return(ports.ItemResponse{StatusCode: http.StatusOK, Resource: &stored}, nil)
	client.On("Close").Return(nil)

	handler := NewGetDocumentHandler(opener, zap.NewNop())

	// Act
	result, err := handler.Handle(ctx, queries.GetDocumentQuery{ID: "doc-1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, stored, *result)
	opener.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestGetDocumentHandler_Handle_NotFound(t *testing.T) {
	ctx := context.Background()
	opener := new(mocks.MockClientOpener)
	client := new(mocks.MockDocumentClient)

	opener.On("Open", ctx).Return(client, nil)
	client.On("Read", ctx, "missing", "missing").Return(ports.ItemResponse{StatusCode: http.StatusNotFound}, nil)
	client.On("Close").Return(nil)

	result, err := NewGetDocumentHandler(opener, zap.NewNop()).Handle(ctx, queries.GetDocumentQuery{ID: "missing"})

	assert.Nil(t, result)
	assert.True(t, apperrors.IsNotFound(err))
	client.AssertExpectations(t)
}

func TestGetDocumentHandler_Handle_MissingID(t *testing.T) {
	opener := new(mocks.MockClientOpener)

	result, err := NewGetDocumentHandler(opener, zap.NewNop()).Handle(context.Background(), queries.GetDocumentQuery{})

	assert.Nil(t, result)
	assert.True(t, apperrors.IsValidation(err))
	opener.AssertNotCalled(t, "Open", mock.Anything)
}

func TestGetDocumentHandler_Handle_StoreError(t *testing.T) {
	ctx := context.Background()
	opener := new(mocks.MockClientOpener)
	client := new(mocks.MockDocumentClient)

	opener.On("Open", ctx).Return(client, nil)
	client.On("Read", ctx, "doc-1", "doc-1").Return(ports.ItemResponse{}, apperrors.NewUnavailable("table missing", errors.New("ResourceNotFoundException")))
	client.On("Close").Return(nil)

	result, err := NewGetDocumentHandler(opener, zap.NewNop()).Handle(ctx, queries.GetDocumentQuery{ID: "doc-1"})

	assert.Nil(t, result)
	assert.True(t, apperrors.IsUnavailable(err))
	client.AssertCalled(t, "Close")
}
