package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/config"
	"github.com/nvollmar/sharefs/core"
)

// GetFileInfo handles GET /v1/info/* requests. Absence is a 200 with
// exists=false, never a 404: existence is a query, not an error.
func GetFileInfo(store *core.Store, cfg *config.ServerConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.StatOpTimeout)
		defer cancel()

		path := chi.URLParam(r, "*")

		fi, err := store.GetFileInfo(ctx, path)
		if err != nil {
			SendErrorResponse(w, logger, err)
			return
		}

		SendJSONResponse(w, logger, fi)
	}
}

// ListDirectory handles GET /v1/directories/* requests. A missing directory
// is a 200 with exists=false and no entries, distinguishable from an
// existing empty directory (exists=true, no entries).
func ListDirectory(store *core.Store, cfg *config.ServerConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.FileOpTimeout)
		defer cancel()

		path := chi.URLParam(r, "*")

		contents, err := store.GetDirectoryContents(ctx, path)
		if err != nil {
			SendErrorResponse(w, logger, err)
			return
		}

		SendJSONResponse(w, logger, contents)
	}
}
