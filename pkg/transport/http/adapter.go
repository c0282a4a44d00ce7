// Package http serves the acadia REST API over HTTP. The adapter owns
// routing and serialization; authentication, authorization, validation,
// and persistence all happen in the service pipeline it delegates to.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/acadia-dev/acadia/pkg/api"
	"github.com/acadia-dev/acadia/pkg/auth"
	"github.com/acadia-dev/acadia/pkg/resource"
	"github.com/acadia-dev/acadia/pkg/transport"
	"github.com/acadia-dev/acadia/pkg/users"
)

// Adapter routes wire requests into the resource engine and the user
// service and serializes the results.
type Adapter struct {
	resources *resource.Service
	users     *users.Service
	mux       *http.ServeMux
	config    Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	Addr        string
	MaxBodySize int64
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Addr:        ":5000",
		MaxBodySize: 1 << 20, // 1 MB
	}
}

// NewAdapter wires the route table. Reads are registered bare; writes
// are wrapped in the authentication middleware built from chain and the
// optional limiter. Literal /api/users patterns take precedence over the
// generic /api/{kind} wildcards, which is exactly the Go 1.22 ServeMux
// rule.
func NewAdapter(resources *resource.Service, userSvc *users.Service, chain *auth.Chain, limiter auth.RateLimiter, cfg Config) *Adapter {
	a := &Adapter{
		resources: resources,
		users:     userSvc,
		mux:       http.NewServeMux(),
		config:    cfg,
	}

	authn := auth.Middleware(chain, limiter)

	// Generic resource surface: one set of handlers for all six kinds.
	// Kind resolution runs before authentication so an unknown
	// collection is a missing route, not a credential failure.
	a.mux.HandleFunc("GET /api/{kind}", a.handleList)
	a.mux.HandleFunc("GET /api/{kind}/{id}", a.handleGet)
	a.mux.Handle("POST /api/{kind}", a.knownKind(authn(http.HandlerFunc(a.handleCreate))))
	a.mux.Handle("PUT /api/{kind}/{id}", a.knownKind(authn(http.HandlerFunc(a.handleUpdate))))
	a.mux.Handle("DELETE /api/{kind}/{id}", a.knownKind(authn(http.HandlerFunc(a.handleDelete))))

	// User self-service. Signup is the one public write.
	a.mux.HandleFunc("POST /api/users", a.handleSignUp)
	a.mux.Handle("GET /api/users", authn(http.HandlerFunc(a.handleProfile)))
	a.mux.Handle("PUT /api/users/{id}", authn(http.HandlerFunc(a.handleUserUpdate)))
	a.mux.Handle("GET /api/users/{id}/course-count", authn(http.HandlerFunc(a.handleCourseCount)))

	a.mux.HandleFunc("GET /{$}", a.handleGreeting)
	a.mux.HandleFunc("/", a.handleRouteNotFound)

	return a
}

// Handler returns the http.Handler for this adapter.
func (a *Adapter) Handler() http.Handler {
	return a.mux
}

func (a *Adapter) handleList(w http.ResponseWriter, r *http.Request) {
	kind, ok := a.kind(r)
	if !ok {
		a.handleRouteNotFound(w, r)
		return
	}

	recs, err := a.resources.List(r.Context(), kind)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, kind.RenderList(recs))
}

func (a *Adapter) handleGet(w http.ResponseWriter, r *http.Request) {
	kind, ok := a.kind(r)
	if !ok {
		a.handleRouteNotFound(w, r)
		return
	}

	id, err := recordID(r)
	if err != nil {
		transport.WriteError(w, r, api.NewNotFoundError(kind.DetailNotFoundMessage()))
		return
	}

	rec, err := a.resources.Get(r.Context(), kind, id)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, kind.Render(rec))
}

func (a *Adapter) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind, ok := a.kind(r)
	if !ok {
		a.handleRouteNotFound(w, r)
		return
	}

	payload, err := a.decodeBody(w, r)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	id, err := a.resources.Create(r.Context(), kind, payload, principal)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/%s/%d", kind.Plural, id))
	w.WriteHeader(http.StatusCreated)
}

func (a *Adapter) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, ok := a.kind(r)
	if !ok {
		a.handleRouteNotFound(w, r)
		return
	}

	id, err := recordID(r)
	if err != nil {
		transport.WriteError(w, r, api.NewNotFoundError(kind.NotFoundMessage()))
		return
	}

	payload, err := a.decodeBody(w, r)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	if err := a.resources.Update(r.Context(), kind, id, payload, principal); err != nil {
		transport.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Adapter) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, ok := a.kind(r)
	if !ok {
		a.handleRouteNotFound(w, r)
		return
	}

	id, err := recordID(r)
	if err != nil {
		transport.WriteError(w, r, api.NewNotFoundError(kind.NotFoundMessage()))
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	if err := a.resources.Delete(r.Context(), kind, id, principal); err != nil {
		transport.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Adapter) handleSignUp(w http.ResponseWriter, r *http.Request) {
	payload, err := a.decodeBody(w, r)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}

	if _, err := a.users.SignUp(r.Context(), payload); err != nil {
		transport.WriteError(w, r, err)
		return
	}

	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusCreated)
}

func (a *Adapter) handleProfile(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	profile, err := a.users.Profile(r.Context(), principal)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, profile)
}

func (a *Adapter) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		transport.WriteError(w, r, api.NewNotFoundError("User not found"))
		return
	}

	payload, err := a.decodeBody(w, r)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	if err := a.users.Update(r.Context(), id, payload, principal); err != nil {
		transport.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Adapter) handleCourseCount(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		transport.WriteError(w, r, api.NewNotFoundError("User not found"))
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	count, err := a.users.CourseCount(r.Context(), id, principal)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]int{"courseCount": count})
}

func (a *Adapter) handleGreeting(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK,
		map[string]string{"message": "Welcome to the acadia REST API"})
}

func (a *Adapter) handleRouteNotFound(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusNotFound,
		map[string]string{"message": "Route Not Found"})
}

// kind resolves the {kind} path segment to a registered descriptor.
func (a *Adapter) kind(r *http.Request) (*resource.Kind, bool) {
	return a.resources.KindByPlural(r.PathValue("kind"))
}

// knownKind rejects unregistered collections with the route-not-found
// body before any wrapped middleware runs.
func (a *Adapter) knownKind(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.kind(r); !ok {
			a.handleRouteNotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recordID parses the {id} path segment.
func recordID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// decodeBody reads the request body as a field-keyed JSON object and
// flattens it for the schema engine. Numbers are kept exact via
// json.Number. A malformed body is a validation failure, not an
// internal error.
func (a *Adapter) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	limit := a.config.MaxBodySize
	if limit <= 0 {
		limit = DefaultConfig().MaxBodySize
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty body validates like an empty object.
			return map[string]string{}, nil
		}
		return nil, api.NewValidationError("Request body must be a valid JSON object")
	}
	return resource.CoercePayload(body), nil
}
