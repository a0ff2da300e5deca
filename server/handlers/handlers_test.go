package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/backends"
	"github.com/nvollmar/sharefs/backends/localfs"
	"github.com/nvollmar/sharefs/backends/noop"
	"github.com/nvollmar/sharefs/config"
	"github.com/nvollmar/sharefs/core"
	"github.com/nvollmar/sharefs/locks"
	"github.com/nvollmar/sharefs/storage"
)

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		FileOpTimeout: 10 * time.Second,
		StatOpTimeout: 5 * time.Second,
	}
}

func newTestRouter(t *testing.T, backend backends.Storage) chi.Router {
	t.Helper()
	logger := zap.NewNop()
	store := core.NewStore(backend, locks.NewLocalManager(), core.DefaultOptions(), logger)
	t.Cleanup(func() { _ = store.Close() })

	cfg := testServerConfig()
	r := chi.NewRouter()
	r.Get("/v1/files/*", GetFile(store, cfg, logger))
	r.Put("/v1/files/*", SaveFile(store, cfg, logger))
	r.Delete("/v1/files/*", DeleteFile(store, cfg, logger))
	r.Get("/v1/info/*", GetFileInfo(store, cfg, logger))
	r.Get("/v1/directories/*", ListDirectory(store, cfg, logger))
	r.Post("/v1/copy", CopyFile(store, cfg, logger))
	r.Post("/v1/rename", RenameFile(store, cfg, logger))
	return r
}

func newLocalRouter(t *testing.T) chi.Router {
	t.Helper()
	backend, err := localfs.NewLocalFSAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	return newTestRouter(t, backend)
}

func doRequest(t *testing.T, router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestFileLifecycleOverHTTP(t *testing.T) {
	router := newLocalRouter(t)

	// Create
	rec := doRequest(t, router, http.MethodPut, "/v1/files/docs/hello.txt", "hello world")
	if rec.Code != http.StatusCreated {
		t.Fatalf("put status = %d, want 201", rec.Code)
	}

	// Read back
	rec = doRequest(t, router, http.MethodGet, "/v1/files/docs/hello.txt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "hello world" {
		t.Errorf("body = %q", got)
	}

	// Delete
	rec = doRequest(t, router, http.MethodDelete, "/v1/files/docs/hello.txt", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	// Idempotent delete
	rec = doRequest(t, router, http.MethodDelete, "/v1/files/docs/hello.txt", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("repeat delete status = %d, want 204", rec.Code)
	}

	// Gone
	rec = doRequest(t, router, http.MethodGet, "/v1/files/docs/hello.txt", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestGetMissingFileReturnsTaxonomyError(t *testing.T) {
	router := newLocalRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/files/no/such/file.txt", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", resp.Code)
	}
}

func TestFileInfoEndpoint(t *testing.T) {
	router := newLocalRouter(t)

	doRequest(t, router, http.MethodPut, "/v1/files/a.txt", "hello")

	rec := doRequest(t, router, http.MethodGet, "/v1/info/a.txt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var fi storage.FileInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &fi); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if !fi.Exists || fi.IsDir || fi.Size != 5 {
		t.Errorf("info = %+v", fi)
	}

	// Absence is still a 200
	rec = doRequest(t, router, http.MethodGet, "/v1/info/ghost.txt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("absent info status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &fi); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if fi.Exists {
		t.Error("absent path reported as existing")
	}
}

func TestDirectoryEndpointDistinguishesAbsent(t *testing.T) {
	router := newLocalRouter(t)

	doRequest(t, router, http.MethodPut, "/v1/files/dir/one.txt", "1")
	doRequest(t, router, http.MethodPut, "/v1/files/dir/two.txt", "2")

	rec := doRequest(t, router, http.MethodGet, "/v1/directories/dir", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var dc storage.DirectoryContents
	if err := json.Unmarshal(rec.Body.Bytes(), &dc); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if !dc.Exists || len(dc.Entries) != 2 {
		t.Errorf("listing = %+v", dc)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/directories/absent", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("absent dir status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &dc); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if dc.Exists || len(dc.Entries) != 0 {
		t.Errorf("absent listing = %+v", dc)
	}
}

func TestCopyAndRenameEndpoints(t *testing.T) {
	router := newLocalRouter(t)

	doRequest(t, router, http.MethodPut, "/v1/files/src.txt", "payload")

	rec := doRequest(t, router, http.MethodPost, "/v1/copy",
		`{"source": "src.txt", "target": "copied.txt"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("copy status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/files/copied.txt", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "payload" {
		t.Errorf("copied file: status=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/rename",
		`{"source": "copied.txt", "target": "moved.txt"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("rename status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/files/copied.txt", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("old name still served: %d", rec.Code)
	}
	rec = doRequest(t, router, http.MethodGet, "/v1/files/moved.txt", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "payload" {
		t.Errorf("moved file: status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestCopyMissingSourceIs404(t *testing.T) {
	router := newLocalRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/copy",
		`{"source": "ghost.txt", "target": "dst.txt"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMalformedTransferBody(t *testing.T) {
	router := newLocalRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "this is not json"},
		{"unknown field", `{"source": "a", "target": "b", "mode": "fast"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/v1/copy", test.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestTraversalPathRejected(t *testing.T) {
	router := newLocalRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/files/../../etc/passwd", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDisabledBackendIsUnavailable(t *testing.T) {
	router := newTestRouter(t, noop.NewNoopAdapter())

	rec := doRequest(t, router, http.MethodGet, "/v1/files/any.txt", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPut, "/v1/files/any.txt", "x")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("put status = %d, want 503", rec.Code)
	}
}
