// Package handlers contains the HTTP handlers of the REST API.
package handlers

import (
	"io"
	"net/http"

	"docstore-backend/application/commands"
	cmdhandlers "docstore-backend/application/commands/handlers"
	"docstore-backend/application/queries"
	queryhandlers "docstore-backend/application/queries/handlers"
	apperrors "docstore-backend/pkg/errors"

	"go.uber.org/zap"
)

// maxBodyBytes bounds document payloads read from requests.
const maxBodyBytes = 1 << 20

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	create *cmdhandlers.CreateDocumentHandler
	upsert *cmdhandlers.UpsertDocumentHandler
	delete *cmdhandlers.DeleteDocumentHandler
	get    *queryhandlers.GetDocumentHandler
	search *queryhandlers.SearchDocumentsHandler
	logger *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	create *cmdhandlers.CreateDocumentHandler,
	upsert *cmdhandlers.UpsertDocumentHandler,
	deleteHandler *cmdhandlers.DeleteDocumentHandler,
	get *queryhandlers.GetDocumentHandler,
	search *queryhandlers.SearchDocumentsHandler,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		create: create,
		upsert: upsert,
		delete: deleteHandler,
		get:    get,
		search: search,
		logger: logger,
	}
}

// Create handles POST /api/Create. The stamped record is returned but not stored.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Function Create has started running")

	payload, err := readBody(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	record, err := h.create.Handle(r.Context(), commands.CreateDocumentCommand{Payload: payload})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, record)
}

// Upsert handles POST /api/Upsert
func (h *DocumentHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Function Upsert has started running")

	payload, err := readBody(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	result, err := h.upsert.Handle(r.Context(), commands.UpsertDocumentCommand{Payload: payload})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if !result.Stored {
		w.WriteHeader(http.StatusOK)
		return
	}
	respondText(w, h.logger, http.StatusOK, result.Message)
}

// Delete handles DELETE /api/Delete?id=
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Function Delete has started running")

	result, err := h.delete.Handle(r.Context(), commands.DeleteDocumentCommand{ID: r.URL.Query().Get("id")})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if !result.Deleted {
		w.WriteHeader(http.StatusOK)
		return
	}
	respondText(w, h.logger, http.StatusOK, result.Message)
}

// QueryByID handles GET /api/QueryById?id=
func (h *DocumentHandler) QueryByID(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Function QueryById has started running")

	record, err := h.get.Handle(r.Context(), queries.GetDocumentQuery{ID: r.URL.Query().Get("id")})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, record)
}

// QueryByMessage handles GET /api/QueryByMessage?message=
func (h *DocumentHandler) QueryByMessage(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Function QueryByMessage has started running")

	records, err := h.search.Handle(r.Context(), queries.SearchDocumentsQuery{Message: r.URL.Query().Get("message")})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, records)
}

func readBody(r *http.Request) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewValidationWithCause("failed to read request body", err)
	}
	return payload, nil
}
