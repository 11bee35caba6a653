package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/schemahub/console"
	"github.com/schemahub/console/internal"
)

// Server exposes the console's form compilation over HTTP so UI shells can
// fetch ready-to-render form manifests and validate submissions server-side.
type Server struct {
	cfg      *console.Config
	compiler *internal.Compiler
	schemas  console.SchemaProvider
	content  *internal.ContentService
	logger   *zap.Logger
}

// NewServer wires the gateway handlers.
func NewServer(cfg *console.Config, compiler *internal.Compiler, schemas console.SchemaProvider, content *internal.ContentService, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		compiler: compiler,
		schemas:  schemas,
		content:  content,
		logger:   logger,
	}
}

// Routes builds the gateway router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/schemas", s.handleListSchemas)
		r.Get("/schemas/{name}", s.handleGetSchema)
		r.Get("/schemas/{name}/jsonschema", s.handleExportJSONSchema)
		r.Get("/forms/{schema}", s.handleForm)
		r.Post("/forms/{schema}/validate", s.handleValidate)
		r.Get("/renderers/{class}/settings", s.handleRendererSettings)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSchemas(w http.ResponseWriter, _ *http.Request) {
	schemas, err := s.schemas.Schemas()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, schemas)
}

func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := s.schemas.SchemaByName(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, schema)
}

func (s *Server) handleExportJSONSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := s.schemas.SchemaByName(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := internal.ExportJSONSchema(schema)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, doc)
}

// handleForm compiles the form for a schema and returns its manifest. With an
// ?id= query the record is loaded first and an edit form is compiled.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "schema")
	schema, err := s.schemas.SchemaByName(name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var record console.Content
	if rawID := r.URL.Query().Get("id"); rawID != "" {
		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			s.writeError(w, console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeTypeMismatch, "id must be a positive integer"))
			return
		}
		record, err = s.content.Detail(r.Context(), name, id, "")
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	form, err := s.compiler.Compile(schema, record)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"manifest": form.Manifest(),
		"values":   form.Values(),
	})
}

// handleValidate runs a submission through the schema's validation contract.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	schema, err := s.schemas.SchemaByName(chi.URLParam(r, "schema"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var values console.Content
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		s.writeError(w, console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeValidationFailed, "request body must be a JSON object"))
		return
	}

	form, err := s.compiler.Compile(schema, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for name, value := range values {
		form.Set(name, value)
	}

	if err := form.Validate(); err != nil {
		if ve, ok := err.(*console.ValidationErrors); ok {
			writeData(w, http.StatusUnprocessableEntity, ve)
			return
		}
		s.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *Server) handleRendererSettings(w http.ResponseWriter, r *http.Request) {
	form, err := s.compiler.RenderSettings(chi.URLParam(r, "class"), nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, form.Manifest())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.S().Errorw("failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"data": data})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case console.IsNotFoundError(err):
		status = http.StatusNotFound
	case console.IsValidationError(err), console.IsSchemaError(err):
		status = http.StatusBadRequest
	case console.IsTransportError(err):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]any{"error": map[string]string{"message": err.Error()}})
}
