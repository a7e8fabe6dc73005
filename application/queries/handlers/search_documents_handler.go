package handlers

import (
	"context"

	"docstore-backend/application/ports"
	"docstore-backend/application/queries"
	"docstore-backend/application/services"
	"docstore-backend/domain/document"
	apperrors "docstore-backend/pkg/errors"

	"go.uber.org/zap"
)

// SearchDocumentsHandler runs the message substring search
type SearchDocumentsHandler struct {
	opener ports.ClientOpener
	logger *zap.Logger
	// partitionKey scopes the search; empty means every partition.
	partitionKey string
}

// NewSearchDocumentsHandler creates a new search handler
func NewSearchDocumentsHandler(opener ports.ClientOpener, partitionKey string, logger *zap.Logger) *SearchDocumentsHandler {
	return &SearchDocumentsHandler{
		opener:       opener,
		logger:       logger,
		partitionKey: partitionKey,
	}
}

// Handle returns every document whose message contains the query text. The
// result is never nil.
func (h *SearchDocumentsHandler) Handle(ctx context.Context, query queries.SearchDocumentsQuery) ([]document.Record, error) {
	h.logger.Info("Search documents started",
		zap.String("message", query.Message),
		zap.String("partitionKey", h.partitionKey),
	)

	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := ports.MessageFilter{
		Substring:    query.Message,
		PartitionKey: h.partitionKey,
	}

	var records []document.Record
	err := services.WithClient(ctx, h.opener, h.logger, func(client ports.DocumentClient) error {
		var err error
		records, err = client.Query(ctx, filter)
		if err != nil {
			return apperrors.Wrap(err, "failed to query documents")
		}
		return nil
	})
	if err != nil {
		h.logger.Error("Search documents failed",
			zap.String("message", query.Message),
			zap.Error(err),
		)
		return nil, err
	}

	if records == nil {
		records = []document.Record{}
	}

	h.logger.Info("Search documents completed", zap.Int("count", len(records)))
	return records, nil
}
