package queries

import (
	apperrors "docstore-backend/pkg/errors"
	"docstore-backend/pkg/utils"
)

// GetDocumentQuery reads one document by identifier.
type GetDocumentQuery struct {
	ID string `validate:"required"`
}

// Validate checks that an identifier was supplied
func (q GetDocumentQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return apperrors.NewValidationWithCause("invalid get document query", err)
	}
	return nil
}
