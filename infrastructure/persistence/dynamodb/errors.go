package dynamodb

import (
	"errors"
	"fmt"

	apperrors "docstore-backend/pkg/errors"

	"github.com/aws/smithy-go"
)

// classify turns SDK failures into application errors.
func classify(operation, table string, err error) error {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return apperrors.NewInternal(fmt.Sprintf("%s on %s failed", operation, table), err)
	}

	switch ae.ErrorCode() {
	case "ResourceNotFoundException":
		return apperrors.NewUnavailable(fmt.Sprintf("table %s not found", table), err)
	case "ProvisionedThroughputExceededException", "RequestLimitExceeded", "ThrottlingException":
		return apperrors.NewUnavailable(fmt.Sprintf("%s on %s throttled", operation, table), err)
	default:
		return apperrors.NewInternal(fmt.Sprintf("%s on %s failed: %s", operation, table, ae.ErrorCode()), err)
	}
}
