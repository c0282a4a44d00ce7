package integration

import (
	"net/http"
	"testing"
)

// TestErrorTaxonomy checks that each failure class maps to its status
// code and body shape through the full stack.
func TestErrorTaxonomy(t *testing.T) {
	email, password := signUp(t, uniqueEmail("frank"), "password-f")

	t.Run("unauthenticated write", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/api/journals", map[string]string{"title": "x"})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", resp.StatusCode)
		}
		if got := decodeJSON(t, resp)["message"]; got != "Access Denied" {
			t.Errorf("message = %v", got)
		}
	})

	t.Run("invalid credentials match missing ones", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/api/journals", map[string]string{"title": "x"}, email, "wrong-password")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", resp.StatusCode)
		}
		if got := decodeJSON(t, resp)["message"]; got != "Access Denied" {
			t.Errorf("message = %v", got)
		}
	})

	t.Run("validation lists every violation", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/api/journals", map[string]string{}, email, password)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
		body := decodeJSON(t, resp)
		errs, ok := body["errors"].([]any)
		if !ok {
			t.Fatalf("body = %v, want errors array", body)
		}
		want := []string{
			"A journal title is required.",
			"Authors are required.",
			"A publication date is required.",
			"Journal name is required.",
			"Publisher is required.",
		}
		if len(errs) != len(want) {
			t.Fatalf("errors = %v, want %v", errs, want)
		}
		for i := range want {
			if errs[i] != want[i] {
				t.Errorf("errors[%d] = %v, want %q", i, errs[i], want[i])
			}
		}
	})

	t.Run("write to missing record", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, "/api/journals/9999", map[string]string{"title": "x"}, email, password)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", resp.StatusCode)
		}
		if got := decodeJSON(t, resp)["error"]; got != "Journal Not Found" {
			t.Errorf("error = %v", got)
		}
	})

	t.Run("unknown collection", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, "/api/widgets", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", resp.StatusCode)
		}
		if got := decodeJSON(t, resp)["message"]; got != "Route Not Found" {
			t.Errorf("message = %v", got)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, testEnv.Server.URL+"/api/journals", nil)
		if err != nil {
			t.Fatal(err)
		}
		req.Body = http.NoBody
		req.SetBasicAuth(email, password)
		// A request with no body validates like an empty object and fails
		// field validation, not parsing.
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

// TestGreetingAndHealth covers the operational surface.
func TestGreetingAndHealth(t *testing.T) {
	resp := doJSON(t, http.MethodGet, "/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("greeting status = %d", resp.StatusCode)
	}
	if got := decodeJSON(t, resp)["message"]; got != "Welcome to the acadia REST API" {
		t.Errorf("greeting = %v", got)
	}

	resp = doJSON(t, http.MethodGet, "/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	if id := resp.Header.Get("X-Request-ID"); id == "" {
		t.Error("response missing X-Request-ID header")
	}
}
