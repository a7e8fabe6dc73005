package services

import (
	"context"

	"docstore-backend/application/ports"
	"docstore-backend/domain/document"

	"go.uber.org/zap"
)

// NotifyChange publishes event when a publisher is configured. Publishing is
// best effort: the write already succeeded, so failures are only logged.
func NotifyChange(ctx context.Context, publisher ports.ChangePublisher, logger *zap.Logger, event document.ChangeEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish change event",
			zap.String("eventType", event.Type),
			zap.String("documentID", event.DocumentID),
			zap.Error(err),
		)
	}
}
