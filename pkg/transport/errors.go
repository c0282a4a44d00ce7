package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/acadia-dev/acadia/pkg/api"
	"github.com/acadia-dev/acadia/pkg/observability"
)

// HTTPStatusFromError maps an api.Error kind to the corresponding HTTP
// status code.
func HTTPStatusFromError(err *api.Error) int {
	switch err.Kind {
	case api.ErrorKindUnauthenticated:
		return http.StatusUnauthorized
	case api.ErrorKindForbidden:
		return http.StatusForbidden
	case api.ErrorKindNotFound:
		return http.StatusNotFound
	case api.ErrorKindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// validationResponse is the 400 body: the complete ordered violation
// list.
type validationResponse struct {
	Errors []string `json:"errors"`
}

// messageResponse is the single-message body used for 401 responses and
// generic notices.
type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse is the single-message body used for 403/404/500.
type errorResponse struct {
	Error string `json:"error"`
}

// WriteError serializes err with its mapped status code. Anything that
// is not an *api.Error is treated as internal: the detail is logged
// server-side and the client sees only the generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := api.AsError(err)
	if !ok {
		slog.Error("unclassified error reached transport",
			"path", r.URL.Path,
			"error", err.Error(),
		)
		apiErr = api.NewInternalError()
	}

	var body any
	switch apiErr.Kind {
	case api.ErrorKindValidation:
		observability.ValidationFailuresTotal.WithLabelValues(kindLabel(r)).Inc()
		body = validationResponse{Errors: apiErr.Messages}
	case api.ErrorKindUnauthenticated:
		body = messageResponse{Message: apiErr.Message()}
	default:
		body = errorResponse{Error: apiErr.Message()}
	}

	WriteJSON(w, HTTPStatusFromError(apiErr), body)
}

// WriteJSON writes body as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// kindLabel derives the metrics label for validation failures from the
// request path.
func kindLabel(r *http.Request) string {
	if kind := r.PathValue("kind"); kind != "" {
		return kind
	}
	return "users"
}
