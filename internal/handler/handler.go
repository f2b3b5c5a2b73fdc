package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"filefixtures/internal/domain"
	"filefixtures/internal/loader"
	"filefixtures/internal/repository"
	"filefixtures/internal/repository/memory"
)

// FixtureService is the subset of service.FixtureService the handler uses
type FixtureService interface {
	Load(ctx context.Context, dirs ...string) (loader.Report, error)
	Reload(ctx context.Context, dirs ...string) (loader.Report, error)
	DryRun(ctx context.Context, dirs ...string) (loader.Report, *memory.Sink, error)
	Tables(ctx context.Context) ([]string, error)
	ListTable(ctx context.Context, name string) ([]map[string]any, error)
	ListAll(ctx context.Context) (map[string][]map[string]any, error)
}

// FixtureHandler handles table and load requests
type FixtureHandler struct {
	svc FixtureService
}

// NewFixtureHandler creates a new fixture handler
func NewFixtureHandler(svc FixtureService) *FixtureHandler {
	return &FixtureHandler{svc: svc}
}

// Routes registers the handler's routes on mux
func (h *FixtureHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.ListAll)
	mux.HandleFunc("GET /api/tables", h.ListTables)
	mux.HandleFunc("GET /api/tables/{name}", h.ListTable)
	mux.HandleFunc("POST /api/fixtures/load", h.LoadFixtures)
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Path    string `json:"path,omitempty"`
}

// LoadRequest is the body of POST /api/fixtures/load
type LoadRequest struct {
	Dirs   []string `json:"dirs"`
	Reset  bool     `json:"reset"`
	DryRun bool     `json:"dry_run"`
}

// LoadResponse reports a successful load
type LoadResponse struct {
	Directories int  `json:"directories"`
	Files       int  `json:"files"`
	Instances   int  `json:"instances"`
	DryRun      bool `json:"dry_run,omitempty"`
}

// ListAll returns the rows of every table
func (h *FixtureHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.ListAll(r.Context())
	if err != nil {
		slog.Error("Failed to list tables", "error", err)
		writeError(w, "Failed to list tables", err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, all, http.StatusOK)
}

// ListTables returns the table names
func (h *FixtureHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.Tables(r.Context())
	if err != nil {
		slog.Error("Failed to list tables", "error", err)
		writeError(w, "Failed to list tables", err.Error(), http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, names, http.StatusOK)
}

// ListTable returns the rows of one table
func (h *FixtureHandler) ListTable(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, "Invalid table name", "Table name is required", http.StatusBadRequest)
		return
	}

	rows, err := h.svc.ListTable(r.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		slog.Error("Failed to list table", "table", name, "error", err)
		writeError(w, "Failed to list table", err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows, http.StatusOK)
}

// LoadFixtures runs a load. An empty body loads the fixtures root.
func (h *FixtureHandler) LoadFixtures(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	var (
		report loader.Report
		err    error
	)
	switch {
	case req.DryRun:
		report, _, err = h.svc.DryRun(r.Context(), req.Dirs...)
	case req.Reset:
		report, err = h.svc.Reload(r.Context(), req.Dirs...)
	default:
		report, err = h.svc.Load(r.Context(), req.Dirs...)
	}
	if err != nil {
		writeLoadError(w, err)
		return
	}

	writeJSON(w, LoadResponse{
		Directories: report.Directories,
		Files:       report.Files,
		Instances:   report.Instances,
		DryRun:      req.DryRun,
	}, http.StatusOK)
}

// writeLoadError maps the load error taxonomy onto status codes. Problems in
// the fixture files are the client's; commit failures are conflicts with what
// the store already holds.
func writeLoadError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: "Failed to load fixtures", Details: err.Error()}
	status := http.StatusUnprocessableEntity

	var (
		unsupported  *domain.UnsupportedFormatError
		parse        *domain.ParseError
		resolution   *domain.TypeResolutionError
		construction *domain.RecordConstructionError
		commit       *domain.PersistenceCommitError
		order        *domain.OrderFileError
	)
	switch {
	case errors.As(err, &unsupported):
		resp.Kind, resp.Path = "unsupported_format", unsupported.Path
	case errors.As(err, &parse):
		resp.Kind, resp.Path = "parse", parse.Path
	case errors.As(err, &resolution):
		resp.Kind, resp.Path = "type_resolution", resolution.Path
	case errors.As(err, &construction):
		resp.Kind, resp.Path = "record_construction", construction.Path
	case errors.As(err, &commit):
		resp.Kind, resp.Path = "persistence_commit", commit.Path
		status = http.StatusConflict
	case errors.As(err, &order):
		resp.Kind, resp.Path = "order_file", order.Path
	default:
		status = http.StatusBadRequest
	}

	slog.Warn("Fixture load failed", "kind", resp.Kind, "path", resp.Path, "error", err)
	writeJSON(w, resp, status)
}

func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON", "error", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}
