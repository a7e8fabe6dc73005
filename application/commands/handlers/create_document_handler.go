package handlers

import (
	"context"
	"time"

	"docstore-backend/application/commands"
	"docstore-backend/domain/document"
	apperrors "docstore-backend/pkg/errors"

	"go.uber.org/zap"
)

// CreateDocumentHandler stamps a new identity onto the posted document and
// echoes it back.
//
// The document is NOT written to the store. Callers that need persistence use
// the upsert path; this handler keeps the historical echo-only contract.
type CreateDocumentHandler struct {
	logger *zap.Logger
	now    document.Clock
	newID  document.IDGenerator
}

// NewCreateDocumentHandler creates a new create handler
func NewCreateDocumentHandler(logger *zap.Logger) *CreateDocumentHandler {
	return &CreateDocumentHandler{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  document.NewID,
	}
}

// Handle parses the payload and assigns a fresh id and creation time
func (h *CreateDocumentHandler) Handle(ctx context.Context, cmd commands.CreateDocumentCommand) (*document.Record, error) {
	h.logger.Info("Create document started", zap.Int("payloadBytes", len(cmd.Payload)))

	var record document.Record
	if err := record.Populate(cmd.Payload); err != nil {
		h.logger.Warn("Create document rejected payload", zap.Error(err))
		return nil, apperrors.NewValidationWithCause("invalid document payload", err)
	}

	record.StampNew(h.now, h.newID)

	h.logger.Info("Create document stamped new identity",
		zap.String("documentID", record.ID),
	)

	return &record, nil
}
