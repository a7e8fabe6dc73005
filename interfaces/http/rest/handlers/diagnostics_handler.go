package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "docstore-backend/pkg/errors"

	"go.uber.org/zap"
)

// PingResponse is the fixed body of the ping endpoint.
const PingResponse = "Just return"

const (
	echoNoName   = "This HTTP triggered function executed successfully. Pass a name in the query string or in the request body."
	echoWithName = "You submitted name: %s. This HTTP triggered function executed successfully."
)

// DiagnosticsHandler serves connectivity checks that never touch the store.
type DiagnosticsHandler struct {
	logger *zap.Logger
}

// NewDiagnosticsHandler creates a new diagnostics handler
func NewDiagnosticsHandler(logger *zap.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{logger: logger}
}

// Ping handles GET /api/JustReturnTest
func (h *DiagnosticsHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("JustReturnTest processed a request")
	respondText(w, h.logger, http.StatusOK, PingResponse)
}

type echoRequest struct {
	Name *string `json:"name"`
}

// Echo handles GET and POST /api/Test. The name comes from the query string,
// falling back to a JSON body.
func (h *DiagnosticsHandler) Echo(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Test processed a request")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, r, h.logger, apperrors.NewValidationWithCause("failed to read request body", err))
		return
	}

	var req echoRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			respondError(w, r, h.logger, apperrors.NewValidationWithCause("malformed request body", err))
			return
		}
	}

	var name string
	if query := r.URL.Query(); query.Has("name") {
		name = query.Get("name")
	} else if req.Name != nil {
		name = *req.Name
	}

	if name == "" {
		respondText(w, h.logger, http.StatusOK, echoNoName)
		return
	}
	respondText(w, h.logger, http.StatusOK, fmt.Sprintf(echoWithName, name))
}
