package queries

import (
	apperrors "docstore-backend/pkg/errors"
	"docstore-backend/pkg/utils"
)

// SearchDocumentsQuery finds documents whose message contains Message.
type SearchDocumentsQuery struct {
	Message string `validate:"required"`
}

// Validate checks that a search term was supplied
func (q SearchDocumentsQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return apperrors.NewValidationWithCause("invalid search query", err)
	}
	return nil
}
