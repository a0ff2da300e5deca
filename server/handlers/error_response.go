package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/metrics"
	"github.com/nvollmar/sharefs/storage"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusForKind maps the storage error taxonomy onto HTTP status codes.
// This is the only mapping callers ever see; backend-native errors have
// already been folded into a kind at the adapter boundary.
func statusForKind(kind storage.ErrorKind) int {
	switch kind {
	case storage.KindNotFound:
		return http.StatusNotFound
	case storage.KindInvalidPath:
		return http.StatusBadRequest
	case storage.KindAlreadyExists:
		return http.StatusConflict
	case storage.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SendErrorResponse sends a standardized JSON error response derived from
// the error's kind.
func SendErrorResponse(w http.ResponseWriter, logger *zap.Logger, err error) {
	kind := storage.KindOf(err)
	statusCode := statusForKind(kind)
	errorCode := strings.ToUpper(kind.String())

	metrics.ErrorsTotal.WithLabelValues(kind.String()).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Code:    errorCode,
		Message: err.Error(),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode error response", zap.Error(err))
		fmt.Fprintf(w, "internal error")
	}

	logger.Info("Error response sent",
		zap.String("error_code", errorCode),
		zap.Int("status_code", statusCode),
		zap.Error(err))
}

// SendJSONResponse sends a JSON response with any data structure
func SendJSONResponse(w http.ResponseWriter, logger *zap.Logger, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}
