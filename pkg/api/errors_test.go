package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		wantKind ErrorKind
		wantMsg  string
	}{
		{"unauthenticated", NewUnauthenticatedError(), ErrorKindUnauthenticated, "Access Denied"},
		{"forbidden", NewForbiddenError("You are not authorised to update this course."), ErrorKindForbidden, "You are not authorised to update this course."},
		{"not found", NewNotFoundError("Course Not Found"), ErrorKindNotFound, "Course Not Found"},
		{"internal", NewInternalError(), ErrorKindInternal, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", tt.err.Kind, tt.wantKind)
			}
			if tt.err.Message() != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", tt.err.Message(), tt.wantMsg)
			}
		})
	}
}

func TestValidationErrorKeepsAllMessages(t *testing.T) {
	err := NewValidationError(
		"A course title is required.",
		"A course description is required.",
	)

	if err.Kind != ErrorKindValidation {
		t.Errorf("Kind = %q, want %q", err.Kind, ErrorKindValidation)
	}
	if len(err.Messages) != 2 {
		t.Fatalf("Messages length = %d, want 2", len(err.Messages))
	}
	if err.Messages[0] != "A course title is required." {
		t.Errorf("Messages[0] = %q, want title message first", err.Messages[0])
	}
}

func TestAsError(t *testing.T) {
	direct := NewNotFoundError("Book Not Found")
	if got, ok := AsError(direct); !ok || got != direct {
		t.Error("AsError did not unwrap a direct *Error")
	}

	wrapped := fmt.Errorf("handling request: %w", direct)
	if got, ok := AsError(wrapped); !ok || got.Message() != "Book Not Found" {
		t.Error("AsError did not unwrap a wrapped *Error")
	}

	if _, ok := AsError(errors.New("plain")); ok {
		t.Error("AsError matched a non-api error")
	}
}

func TestUserProfileExcludesSecret(t *testing.T) {
	u := &User{
		ID:           7,
		EmailAddress: "grace@example.edu",
		FirstName:    "Grace",
		LastName:     "Hopper",
		PasswordHash: "$2a$10$secret",
	}

	p := u.Profile()
	if p.EmailAddress != u.EmailAddress || p.ID != u.ID {
		t.Error("Profile() dropped identity fields")
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshaling profile: %v", err)
	}
	if strings.Contains(string(data), "secret") || strings.Contains(string(data), "password") {
		t.Errorf("serialized profile leaks the password hash: %s", data)
	}
}
