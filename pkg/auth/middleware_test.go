package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acadia-dev/acadia/pkg/api"
	"github.com/acadia-dev/acadia/pkg/auth"
)

func protectedHandler(t *testing.T, gotPrincipal **api.Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotPrincipal = auth.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMiddlewareInjectsPrincipal(t *testing.T) {
	store, id := storeWithUser(t, "grace@example.edu", "correct horse")
	chain := &auth.Chain{Authenticators: []auth.Authenticator{auth.NewBasic(store)}}

	var principal *api.Principal
	handler := auth.Middleware(chain, nil)(protectedHandler(t, &principal))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, basicRequest("grace@example.edu", "correct horse"))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if principal == nil || principal.ID != id {
		t.Errorf("principal = %+v, want id %d", principal, id)
	}
}

func TestMiddlewareRejectsWithAccessDenied(t *testing.T) {
	store, _ := storeWithUser(t, "grace@example.edu", "correct horse")
	chain := &auth.Chain{Authenticators: []auth.Authenticator{auth.NewBasic(store)}}

	var principal *api.Principal
	handler := auth.Middleware(chain, nil)(protectedHandler(t, &principal))

	tests := []struct {
		name    string
		request *http.Request
	}{
		{"no header", httptest.NewRequest(http.MethodPost, "/api/courses", nil)},
		{"wrong password", basicRequest("grace@example.edu", "nope")},
		{"unknown user", basicRequest("nobody@example.edu", "nope")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal = nil
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, tt.request)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if got := rec.Body.String(); got != `{"message":"Access Denied"}` {
				t.Errorf("body = %s", got)
			}
			if principal != nil {
				t.Error("handler ran despite failed authentication")
			}
		})
	}
}

// brokenUserStore fails every lookup, standing in for an unreachable
// database.
type brokenUserStore struct {
	err error
}

func (s *brokenUserStore) CreateUser(ctx context.Context, u *api.User) (int64, error) {
	return 0, s.err
}

func (s *brokenUserStore) UserByEmail(ctx context.Context, email string) (*api.User, error) {
	return nil, s.err
}

func (s *brokenUserStore) UserByID(ctx context.Context, id int64) (*api.User, error) {
	return nil, s.err
}

func (s *brokenUserStore) UpdateUser(ctx context.Context, u *api.User) error {
	return s.err
}

func TestMiddlewareStoreFailureIsServerError(t *testing.T) {
	store := &brokenUserStore{err: errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")}
	chain := &auth.Chain{Authenticators: []auth.Authenticator{auth.NewBasic(store)}}

	var principal *api.Principal
	handler := auth.Middleware(chain, nil)(protectedHandler(t, &principal))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, basicRequest("grace@example.edu", "correct horse"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "connection refused") {
		t.Errorf("store detail leaked to the client: %s", body)
	}
	if !strings.Contains(body, "internal server error") {
		t.Errorf("body = %s, want the generic server error message", body)
	}
	if principal != nil {
		t.Error("handler ran despite the store failure")
	}
}

func TestMiddlewareRateLimit(t *testing.T) {
	store, _ := storeWithUser(t, "grace@example.edu", "correct horse")
	chain := &auth.Chain{Authenticators: []auth.Authenticator{auth.NewBasic(store)}}
	limiter := auth.NewInProcessLimiter(2)

	var principal *api.Principal
	handler := auth.Middleware(chain, limiter)(protectedHandler(t, &principal))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, basicRequest("grace@example.edu", "correct horse"))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, basicRequest("grace@example.edu", "correct horse"))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want 429", rec.Code)
	}
}

func TestInProcessLimiterDisabled(t *testing.T) {
	limiter := auth.NewInProcessLimiter(0)
	p := &api.Principal{ID: 1}

	for i := 0; i < 100; i++ {
		if err := limiter.Allow(context.Background(), p); err != nil {
			t.Fatalf("disabled limiter rejected request %d: %v", i+1, err)
		}
	}
}
