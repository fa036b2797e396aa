package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/compiler"
	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/automaton"
	"github.com/aretw0/espalier/pkg/modthree"
	"github.com/aretw0/espalier/pkg/registry"
	"github.com/aretw0/espalier/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

// Server exposes a Service as a JSON API.
type Server struct {
	Service *espalier.Service

	apiVersion string
}

// NewHandler builds the HTTP handler for the service, including the OpenAPI
// document, Swagger UI and Prometheus metrics.
func NewHandler(svc *espalier.Service) http.Handler {
	server := &Server{Service: svc, apiVersion: "unknown"}
	if doc, err := openapi3.NewLoader().LoadFromData([]byte(openapiYAML)); err == nil && doc.Info != nil {
		server.apiVersion = doc.Info.Version
	} else if err != nil {
		slog.Error("failed to parse embedded OpenAPI document", "err", err)
	}

	return enableCORS(server.routes())
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write([]byte(openapiYAML))
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Handle("/metrics", s.Service.MetricsHandler())

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.listMachines)
		r.Post("/", s.registerMachine)
		r.Route("/{machine}", func(r chi.Router) {
			r.Get("/", s.getMachine)
			r.Get("/graph", s.getMachineGraph)
			r.Post("/run", s.runMachine)
		})
	})

	r.Post("/mod3", s.runModThree)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/step", s.stepSession)
			r.Post("/reset", s.resetSession)
		})
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Espalier API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// getHealth handles the GET /health request.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getInfo handles the GET /info request.
func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "espalier-http",
		"version":     espalier.Version,
		"api_version": s.apiVersion,
	})
}

// listMachines handles the GET /machines request.
func (s *Server) listMachines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Service.Machines())
}

// registerMachine handles the POST /machines request. The body is the same
// document format the compiler accepts from disk.
func (s *Server) registerMachine(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := compiler.ParseJSON(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	if doc.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "machine name is required"})
		return
	}

	def, err := doc.Definition()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.Service.Register(doc.Name, def); err != nil {
		writeError(w, err)
		return
	}

	registered, err := s.Service.Definition(doc.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, compiler.FromDefinition(doc.Name, registered))
}

// getMachine handles the GET /machines/{machine} request.
func (s *Server) getMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "machine")
	def, err := s.Service.Definition(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, compiler.FromDefinition(name, def))
}

// getMachineGraph handles the GET /machines/{machine}/graph request and
// returns a Mermaid diagram. An optional ?session=ID highlights that
// session's current state.
func (s *Server) getMachineGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "machine")
	def, err := s.Service.Definition(name)
	if err != nil {
		writeError(w, err)
		return
	}

	var overlay *graph.Overlay
	if sessionID := r.URL.Query().Get("session"); sessionID != "" {
		sess, err := s.Service.Session(r.Context(), sessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if sess.Machine != name {
			writeError(w, fmt.Errorf("%w: session %q belongs to machine %q", espalier.ErrMachineMismatch, sessionID, sess.Machine))
			return
		}
		overlay = &graph.Overlay{Current: sess.Current}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.Mermaid(def, overlay)))
}

// runMachine handles the POST /machines/{machine}/run request.
func (s *Server) runMachine(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := s.Service.Run(r.Context(), chi.URLParam(r, "machine"), body.Input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// runModThree handles the POST /mod3 request.
func (s *Server) runModThree(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	remainder, err := s.Service.Remainder(r.Context(), body.Input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"input":     body.Input,
		"remainder": remainder,
	})
}

// listSessions handles the GET /sessions request.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Service.Sessions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// createSession handles the POST /sessions request. Reusing an existing ID
// resumes that session as long as the machine matches.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Machine string `json:"machine"`
		ID      string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sess, err := s.Service.StartSession(r.Context(), body.Machine, body.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// getSession handles the GET /sessions/{id} request.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Service.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// deleteSession handles the DELETE /sessions/{id} request.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// stepSession handles the POST /sessions/{id}/step request.
func (s *Server) stepSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if utf8.RuneCountInString(body.Symbol) != 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "symbol must be a single character"})
		return
	}
	sym, _ := utf8.DecodeRuneInString(body.Symbol)

	sess, err := s.Service.StepSession(r.Context(), chi.URLParam(r, "id"), automaton.Symbol(sym))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// resetSession handles the POST /sessions/{id}/reset request.
func (s *Server) resetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Service.ResetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody(err))
}

// statusFor maps the engine's error kinds onto HTTP statuses. Unknown names
// are 404, oversized input is 413, malformed input is 400, structurally
// sound requests the machine cannot honor are 409 or 422, everything else
// is 500.
func statusFor(err error) int {
	var cfgErr *automaton.ConfigError
	var inputErr *automaton.InputError
	var symErr *automaton.InvalidSymbolError
	var charErr *modthree.InvalidCharacterError
	var undefErr *automaton.UndefinedTransitionError
	var rejErr *automaton.RejectedError
	var unknownErr *automaton.UnknownStateError

	switch {
	case errors.Is(err, registry.ErrMachineNotFound), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, espalier.ErrMachineMismatch):
		return http.StatusConflict
	case errors.Is(err, espalier.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &undefErr), errors.As(err, &rejErr), errors.As(err, &unknownErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, espalier.ErrInvalidUTF8),
		errors.As(err, &cfgErr), errors.As(err, &inputErr), errors.As(err, &symErr), errors.As(err, &charErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
