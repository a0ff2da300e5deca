package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/config"
	"github.com/nvollmar/sharefs/core"
	"github.com/nvollmar/sharefs/storage"
)

// transferRequest is the body for copy and rename operations.
type transferRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func decodeTransferRequest(r *http.Request) (transferRequest, error) {
	var req transferRequest
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, &storage.Error{Kind: storage.KindInvalidPath, Op: "decode", Err: err}
	}
	return req, nil
}

// CopyFile handles POST /v1/copy requests.
func CopyFile(store *core.Store, cfg *config.ServerConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeTransferRequest(r)
		if err != nil {
			SendErrorResponse(w, logger, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), cfg.FileOpTimeout)
		defer cancel()

		if err := store.CopyFile(ctx, req.Source, req.Target); err != nil {
			SendErrorResponse(w, logger, err)
			return
		}

		logger.Info("file copied", zap.String("source", req.Source), zap.String("target", req.Target))
		w.WriteHeader(http.StatusCreated)
	}
}

// RenameFile handles POST /v1/rename requests.
func RenameFile(store *core.Store, cfg *config.ServerConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeTransferRequest(r)
		if err != nil {
			SendErrorResponse(w, logger, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), cfg.FileOpTimeout)
		defer cancel()

		if err := store.RenameFile(ctx, req.Source, req.Target); err != nil {
			SendErrorResponse(w, logger, err)
			return
		}

		logger.Info("file renamed", zap.String("source", req.Source), zap.String("target", req.Target))
		w.WriteHeader(http.StatusNoContent)
	}
}
