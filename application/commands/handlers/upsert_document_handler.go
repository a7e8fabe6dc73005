package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"docstore-backend/application/commands"
	"docstore-backend/application/ports"
	"docstore-backend/application/services"
	"docstore-backend/domain/document"
	apperrors "docstore-backend/pkg/errors"

	"go.uber.org/zap"
)

// UpsertSuccessPrefix starts the text body returned after a successful upsert.
const UpsertSuccessPrefix = "Upsert successful, resource:"

// UpsertDocumentResult describes the outcome of an upsert
type UpsertDocumentResult struct {
	Record     document.Record
	StatusCode int
	// Stored is set only when the store reported 200 for the write.
	Stored bool
	// Message is empty unless Stored.
	Message string
}

// UpsertDocumentHandler creates or fully replaces a document keyed by id
type UpsertDocumentHandler struct {
	opener    ports.ClientOpener
	publisher ports.ChangePublisher
	logger    *zap.Logger
	now       document.Clock
	newID     document.IDGenerator
}

// NewUpsertDocumentHandler creates a new upsert handler
func NewUpsertDocumentHandler(
	opener ports.ClientOpener,
	publisher ports.ChangePublisher,
	logger *zap.Logger,
) *UpsertDocumentHandler {
	return &UpsertDocumentHandler{
		opener:    opener,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     document.NewID,
	}
}

// Handle reconciles identity and timestamp, then issues one upsert call
func (h *UpsertDocumentHandler) Handle(ctx context.Context, cmd commands.UpsertDocumentCommand) (*UpsertDocumentResult, error) {
	h.logger.Info("Upsert document started", zap.Int("payloadBytes", len(cmd.Payload)))

	var record document.Record
	if err := record.Populate(cmd.Payload); err != nil {
		h.logger.Warn("Upsert document rejected payload", zap.Error(err))
		return nil, apperrors.NewValidationWithCause("invalid document payload", err)
	}

	record.ReconcileForUpsert(h.now, h.newID)

	result := &UpsertDocumentResult{Record: record}
	err := services.WithClient(ctx, h.opener, h.logger, func(client ports.DocumentClient) error {
		resp, err := client.Upsert(ctx, record)
		if err != nil {
			return apperrors.Wrap(err, "failed to upsert document")
		}
		result.StatusCode = resp.StatusCode
		if resp.Resource != nil {
			result.Record = *resp.Resource
		}
		return nil
	})
	if err != nil {
		h.logger.Error("Upsert document failed",
			zap.String("documentID", record.ID),
			zap.Error(err),
		)
		return nil, err
	}

	written := result.StatusCode == http.StatusOK || result.StatusCode == http.StatusCreated
	if !written {
		h.logger.Warn("Upsert document not acknowledged",
			zap.String("documentID", record.ID),
			zap.Int("statusCode", result.StatusCode),
		)
		return result, nil
	}

	created := result.StatusCode == http.StatusCreated
	services.NotifyChange(ctx, h.publisher, h.logger, document.NewUpsertedEvent(result.Record.ID, created, h.now()))

	// Only a replace (200) is acknowledged to the caller. A first write
	// (201) reaches the store but answers with an empty body.
	if created {
		h.logger.Info("Upsert document created without acknowledgement",
			zap.String("documentID", result.Record.ID),
		)
		return result, nil
	}

	body, err := json.Marshal(result.Record)
	if err != nil {
		return nil, apperrors.NewInternal("failed to serialize stored document", err)
	}
	result.Stored = true
	result.Message = UpsertSuccessPrefix + string(body)

	h.logger.Info("Upsert document succeeded", zap.String("documentID", result.Record.ID))

	return result, nil
}
