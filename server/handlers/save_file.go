package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/config"
	"github.com/nvollmar/sharefs/core"
)

// SaveFile handles PUT /v1/files/* requests. The request body is consumed
// as the full new file content; intermediate directories are created as
// needed and existing content is overwritten.
func SaveFile(store *core.Store, cfg *config.ServerConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.FileOpTimeout)
		defer cancel()

		path := chi.URLParam(r, "*")

		if err := store.SaveFile(ctx, path, r.Body); err != nil {
			SendErrorResponse(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

// DeleteFile handles DELETE /v1/files/* requests. Deletion is idempotent:
// deleting an absent file reports success.
func DeleteFile(store *core.Store, cfg *config.ServerConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.FileOpTimeout)
		defer cancel()

		path := chi.URLParam(r, "*")

		if err := store.DeleteFile(ctx, path); err != nil {
			SendErrorResponse(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
