package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/config"
	"github.com/nvollmar/sharefs/core"
)

// GetFile handles GET /v1/files/* requests, streaming file content.
func GetFile(store *core.Store, cfg *config.ServerConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.FileOpTimeout)
		defer cancel()

		path := chi.URLParam(r, "*")

		reader, err := store.GetFileStream(ctx, path)
		if err != nil {
			SendErrorResponse(w, logger, err)
			return
		}
		defer reader.Close()

		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, reader); err != nil {
			// Headers are gone; nothing to send but the log entry
			logger.Error("Failed to stream file content",
				zap.String("path", path), zap.Error(err))
		}
	}
}
