package handlers

import (
	"encoding/json"
	"net/http"

	"docstore-backend/interfaces/http/rest/middleware"
	apperrors "docstore-backend/pkg/errors"

	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondText(w http.ResponseWriter, logger *zap.Logger, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}

// respondError answers with a bare status code. Clients only ever see the
// code; details stay in the logs.
func respondError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := statusFor(err)
	if errType := apperrors.TypeOf(err); errType == apperrors.ErrorTypeInternal || errType == apperrors.ErrorTypeUnavailable {
		middleware.MarkDependencyFailure(r.Context())
	}

	logger.Warn("Request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	w.WriteHeader(status)
}

// statusFor maps error kinds to the response status. Missing or malformed
// input and every store fault, throttling included, are answered with 500.
// Only the circuit breaker and /ready answer 503.
func statusFor(err error) int {
	if apperrors.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
