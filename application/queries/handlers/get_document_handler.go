package handlers

import (
	"context"
	"net/http"

	"docstore-backend/application/ports"
	"docstore-backend/application/queries"
	"docstore-backend/application/services"
	"docstore-backend/domain/document"
	apperrors "docstore-backend/pkg/errors"

	"go.uber.org/zap"
)

// GetDocumentHandler reads a single document by id
type GetDocumentHandler struct {
	opener ports.ClientOpener
	logger *zap.Logger
}

// NewGetDocumentHandler creates a new get document handler
func NewGetDocumentHandler(opener ports.ClientOpener, logger *zap.Logger) *GetDocumentHandler {
	return &GetDocumentHandler{
		opener: opener,
		logger: logger,
	}
}

// Handle returns the stored document. Any store status other than 200 is
// reported as not found.
func (h *GetDocumentHandler) Handle(ctx context.Context, query queries.GetDocumentQuery) (*document.Record, error) {
	h.logger.Info("Get document started", zap.String("documentID", query.ID))

	if err := query.Validate(); err != nil {
		return nil, err
	}

	var resp ports.ItemResponse
	err := services.WithClient(ctx, h.opener, h.logger, func(client ports.DocumentClient) error {
		var err error
		resp, err = client.Read(ctx, query.ID, query.ID)
		if err != nil {
			return apperrors.Wrap(err, "failed to read document")
		}
		return nil
	})
	if err != nil {
		h.logger.Error("Get document failed",
			zap.String("documentID", query.ID),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.StatusCode != http.StatusOK || resp.Resource == nil {
		h.logger.Info("Document not found",
			zap.String("documentID", query.ID),
			zap.Int("statusCode", resp.StatusCode),
		)
		return nil, apperrors.NewNotFound("document not found")
	}

	return resp.Resource, nil
}
