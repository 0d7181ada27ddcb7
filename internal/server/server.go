// Package server exposes the exporter over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/assets"
)

// DefaultMaxBodyBytes caps request bodies at 5 MB.
const DefaultMaxBodyBytes = 5 << 20

// StatusClientClosedRequest is the non-standard code logged when the
// client goes away mid-export.
const StatusClientClosedRequest = 499

// Pool hands out exporters; *resumepdf.ExporterPool satisfies it.
type Pool interface {
	Acquire(ctx context.Context) (*resumepdf.Exporter, error)
	Release(e *resumepdf.Exporter)
}

type Config struct {
	MaxBodyBytes int64
}

// Server is the HTTP API.
type Server struct {
	router  chi.Router
	pool    Pool
	log     *slog.Logger
	maxBody int64
}

func New(pool Pool, log *slog.Logger, cfg Config) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{pool: pool, log: log, maxBody: cfg.MaxBodyBytes}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/api/styles", s.handleStyles)
	r.Post("/api/export/{format}", s.handleExport)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleStyles(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"styles": assets.StyleNames()})
}

// handleExport takes raw HTML (text/html) or a résumé (JSON or YAML) and
// answers with the exported file as an attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := resumepdf.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.maxBody), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		jsonError(w, resumepdf.ErrEmptyPayload.Error(), http.StatusBadRequest)
		return
	}

	payload, err := payloadFor(r, body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	exp, err := s.pool.Acquire(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer s.pool.Release(exp)

	res, err := exp.Export(r.Context(), format, payload)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	if res.Pages > 0 {
		w.Header().Set("X-Resume-Pages", strconv.Itoa(res.Pages))
	}
	_, _ = w.Write(res.Data)
}

// payloadFor routes the body by media type.
func payloadFor(r *http.Request, body []byte) (resumepdf.Payload, error) {
	p := resumepdf.Payload{
		CSS:   r.URL.Query().Get("css"),
		Title: r.URL.Query().Get("title"),
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return p, errors.New("missing or invalid Content-Type")
	}
	switch mediaType {
	case "text/html":
		p.HTML = string(body)
	case "application/json", "application/yaml", "application/x-yaml", "text/yaml":
		p.Resume = body
	default:
		return p, fmt.Errorf("unsupported Content-Type %q (use text/html, application/json or application/yaml)", mediaType)
	}
	return p, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("export failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
	jsonError(w, err.Error(), code)
}

// StatusFor maps export errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, resumepdf.ErrPoolClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, resumepdf.ErrUnsupportedFormat):
		return http.StatusNotFound
	case errors.Is(err, resumepdf.ErrEmptyPayload),
		errors.Is(err, resumepdf.ErrInvalidResume),
		errors.Is(err, resumepdf.ErrContainerNotFound),
		errors.Is(err, resumepdf.ErrEmptyDocument),
		errors.Is(err, resumepdf.ErrNoContent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
