package handlers

import (
	"context"
	"net/http"
	"time"

	"docstore-backend/application/commands"
	"docstore-backend/application/ports"
	"docstore-backend/application/services"
	"docstore-backend/domain/document"
	apperrors "docstore-backend/pkg/errors"

	"go.uber.org/zap"
)

// DeleteSuccessMessage is the body returned when the store removed a document.
const DeleteSuccessMessage = "Delete successful"

// DeleteDocumentResult describes the outcome of a delete
type DeleteDocumentResult struct {
	StatusCode int
	Deleted    bool
	Message    string
}

// DeleteDocumentHandler removes a document keyed by id. The id is also the
// partition key.
type DeleteDocumentHandler struct {
	opener    ports.ClientOpener
	publisher ports.ChangePublisher
	logger    *zap.Logger
	now       document.Clock
}

// NewDeleteDocumentHandler creates a new delete handler
func NewDeleteDocumentHandler(
	opener ports.ClientOpener,
	publisher ports.ChangePublisher,
	logger *zap.Logger,
) *DeleteDocumentHandler {
	return &DeleteDocumentHandler{
		opener:    opener,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Handle issues the point delete. Only 204 No Content counts as deleted; any
// other status still succeeds with an empty message.
func (h *DeleteDocumentHandler) Handle(ctx context.Context, cmd commands.DeleteDocumentCommand) (*DeleteDocumentResult, error) {
	h.logger.Info("Delete document started", zap.String("documentID", cmd.ID))

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &DeleteDocumentResult{}
	err := services.WithClient(ctx, h.opener, h.logger, func(client ports.DocumentClient) error {
		resp, err := client.Delete(ctx, cmd.ID, cmd.ID)
		if err != nil {
			return apperrors.Wrap(err, "failed to delete document")
		}
		result.StatusCode = resp.StatusCode
		return nil
	})
	if err != nil {
		h.logger.Error("Delete document failed",
			zap.String("documentID", cmd.ID),
			zap.Error(err),
		)
		return nil, err
	}

	if result.StatusCode != http.StatusNoContent {
		// TODO: decide with API consumers whether a missing document should surface as 404.
		h.logger.Warn("Delete document returned unexpected status",
			zap.String("documentID", cmd.ID),
			zap.Int("statusCode", result.StatusCode),
		)
		return result, nil
	}

	result.Deleted = true
	result.Message = DeleteSuccessMessage
	h.logger.Info("Delete document succeeded", zap.String("documentID", cmd.ID))
	services.NotifyChange(ctx, h.publisher, h.logger, document.NewDeletedEvent(cmd.ID, h.now()))

	return result, nil
}
