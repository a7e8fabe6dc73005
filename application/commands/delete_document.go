package commands

import (
	apperrors "docstore-backend/pkg/errors"
	"docstore-backend/pkg/utils"
)

// DeleteDocumentCommand removes a document by identifier.
type DeleteDocumentCommand struct {
	ID string `validate:"required"`
}

// Validate checks that an identifier was supplied
func (c DeleteDocumentCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return apperrors.NewValidationWithCause("invalid delete command", err)
	}
	return nil
}
