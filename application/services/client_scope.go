package services

import (
	"context"

	"docstore-backend/application/ports"
	apperrors "docstore-backend/pkg/errors"

	"go.uber.org/zap"
)

// WithClient opens a document store client, runs fn with it and closes it on
// every exit path. Close failures are logged and never mask fn's result.
func WithClient(ctx context.Context, opener ports.ClientOpener, logger *zap.Logger, fn func(ports.DocumentClient) error) error {
	client, err := opener.Open(ctx)
	if err != nil {
		return apperrors.Wrap(err, "failed to open document store client")
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("Failed to close document store client", zap.Error(cerr))
		}
	}()

	return fn(client)
}
