// Package server exposes the analysis engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/clausewise-ai/clausewise/internal/analysis"
	"github.com/clausewise-ai/clausewise/internal/audit"
	"github.com/clausewise-ai/clausewise/internal/config"
	"github.com/clausewise-ai/clausewise/internal/document"
	"github.com/clausewise-ai/clausewise/internal/redact"
)

// Version is stamped by the build; the default marks dev builds.
var Version = "dev"

// Server wires the HTTP surface to the analysis engine.
type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	engine *analysis.Engine
	audit  *audit.Emitter
}

// New creates a server with all routes registered. The audit emitter may
// be nil when no sinks are configured.
func New(cfg *config.Config, engine *analysis.Engine, emitter *audit.Emitter) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		cfg:    cfg,
		engine: engine,
		audit:  emitter,
	}

	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/analyze", s.handleAnalyze)

	return s
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start runs the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	redact.Logf("Clausewise analysis service running on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"service": "clausewise",
		"status":  "operational",
		"version": Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "ok")
}

// handleAnalyze accepts a multipart document upload and responds with the
// analysis result. A decode failure is a 400; a readable document always
// yields a well-formed (possibly empty) result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request")
		return
	}

	started := time.Now()
	maxBytes := int64(s.cfg.Upload.MaxFileSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.emitRejected(header, audit.DecisionRejectedUpload, err, started)
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the %dMB upload limit", s.cfg.Upload.MaxFileSizeMB), "upload_error")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart form field \"file\" is required", "invalid_request")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required", "invalid_request")
		return
	}
	if _, ok := document.ForFilename(header.Filename); !ok {
		s.emitRejected(header, audit.DecisionRejectedUpload, fmt.Errorf("unsupported extension"), started)
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported file type %q, supported: %s",
				filepath.Ext(header.Filename), strings.Join(document.SupportedExtensions(), ", ")), "invalid_request")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.emitRejected(header, audit.DecisionRejectedUpload, err, started)
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the %dMB upload limit", s.cfg.Upload.MaxFileSizeMB), "upload_error")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read upload", "invalid_request")
		return
	}

	doc, err := document.Extract(header.Filename, data)
	if err != nil {
		var decodeErr *document.DecodeError
		if errors.As(err, &decodeErr) {
			s.emitRejected(header, audit.DecisionRejectedDecode, err, started)
			writeError(w, http.StatusBadRequest, decodeErr.Error(), "decode_error")
			return
		}
		redact.Logf("analyze: unexpected extraction error for %q: %v", header.Filename, err)
		writeError(w, http.StatusInternalServerError, "error processing document", "internal_error")
		return
	}

	result := s.engine.Analyze(doc.Text)
	s.emitAnalyzed(doc, result, started)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		redact.Logf("analyze: failed to write response: %v", err)
	}
}

// emitAnalyzed records a completed (possibly empty) analysis.
func (s *Server) emitAnalyzed(doc document.RawDocument, result analysis.Result, started time.Time) {
	if s.audit == nil {
		return
	}

	decision := audit.DecisionCompleted
	if len(result.Clauses) == 0 && strings.TrimSpace(doc.Text) == "" {
		decision = audit.DecisionEmptyDocument
	}

	ev := audit.NewEvent(decision)
	ev.Filename = filepath.Base(doc.Filename)
	ev.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(doc.Filename)), ".")
	ev.DocumentBytes = doc.Bytes
	ev.FlaggedCount = len(result.Clauses)
	ev.LatencyMS = float64(time.Since(started).Microseconds()) / 1000.0
	if s.cfg.Log.PreviewChars > 0 {
		ev.Preview = redact.Preview(doc.Text, s.cfg.Log.PreviewChars)
	}

	if len(result.Clauses) > 0 {
		ev.Categories = make(map[string]int)
		ev.Severities = make(map[string]int)
		for _, c := range result.Clauses {
			ev.Categories[string(c.RiskType)]++
			ev.Severities[c.Severity.String()]++
		}
	}

	s.audit.Emit(ev)
}

// emitRejected records an upload that never reached the engine.
func (s *Server) emitRejected(header *multipart.FileHeader, decision audit.Decision, cause error, started time.Time) {
	if s.audit == nil {
		return
	}
	ev := audit.NewEvent(decision)
	if header != nil {
		ev.Filename = filepath.Base(header.Filename)
		ev.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
		ev.DocumentBytes = int(header.Size)
	}
	if cause != nil {
		ev.Error = redact.String(cause.Error())
	}
	ev.LatencyMS = float64(time.Since(started).Microseconds()) / 1000.0
	s.audit.Emit(ev)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// writeError writes the service's JSON error shape.
func writeError(w http.ResponseWriter, status int, message, typ string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Message: message,
			Type:    typ,
		},
	})
}
