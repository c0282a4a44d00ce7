package users_test

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/acadia-dev/acadia/pkg/api"
	"github.com/acadia-dev/acadia/pkg/resource"
	"github.com/acadia-dev/acadia/pkg/storage/memory"
	"github.com/acadia-dev/acadia/pkg/users"
)

func newTestService(t *testing.T) (*users.Service, *resource.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	resources := resource.NewService(store, nil)
	return users.NewService(store, resources, nil, bcrypt.MinCost), resources, store
}

func validSignUp() map[string]string {
	return map[string]string{
		"firstName":    "Grace",
		"lastName":     "Hopper",
		"emailAddress": "grace@example.edu",
		"password":     "compiler1952",
	}
}

func TestSignUp(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.SignUp(ctx, validSignUp())
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}

	user, err := store.UserByID(ctx, id)
	if err != nil {
		t.Fatalf("UserByID() error: %v", err)
	}
	if user.EmailAddress != "grace@example.edu" {
		t.Errorf("EmailAddress = %q", user.EmailAddress)
	}
	if user.PasswordHash == "compiler1952" || !strings.HasPrefix(user.PasswordHash, "$2a$") {
		t.Errorf("password stored without hashing: %q", user.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("compiler1952")) != nil {
		t.Error("stored hash does not verify against the signup password")
	}
}

func TestSignUpCollectsAllViolations(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SignUp(context.Background(), map[string]string{})
	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Kind != api.ErrorKindValidation {
		t.Fatalf("SignUp() error = %v, want validation error", err)
	}

	want := []string{
		"A first name is required",
		"A last name is required.",
		"An email address is required",
		"A password is required",
	}
	if !reflect.DeepEqual(apiErr.Messages, want) {
		t.Errorf("Messages = %v, want %v", apiErr.Messages, want)
	}
}

func TestSignUpPasswordBoundaries(t *testing.T) {
	tests := []struct {
		length int
		valid  bool
	}{
		{7, false},
		{8, true},
		{20, true},
		{21, false},
	}

	for _, tt := range tests {
		svc, _, _ := newTestService(t)
		payload := validSignUp()
		payload["password"] = strings.Repeat("p", tt.length)

		_, err := svc.SignUp(context.Background(), payload)
		if tt.valid && err != nil {
			t.Errorf("length %d: SignUp() error = %v, want success", tt.length, err)
		}
		if !tt.valid {
			apiErr, ok := api.AsError(err)
			if !ok || apiErr.Kind != api.ErrorKindValidation {
				t.Errorf("length %d: error = %v, want validation error", tt.length, err)
				continue
			}
			if apiErr.Message() != "Your password should be between 8 and 20 characters" {
				t.Errorf("length %d: Message() = %q", tt.length, apiErr.Message())
			}
		}
	}
}

func TestSignUpRejectsInvalidFormats(t *testing.T) {
	svc, _, _ := newTestService(t)
	payload := validSignUp()
	payload["emailAddress"] = "not-an-email"
	payload["homepage"] = "not a url"
	payload["affiliation"] = strings.Repeat("a", 101)

	_, err := svc.SignUp(context.Background(), payload)
	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Kind != api.ErrorKindValidation {
		t.Fatalf("SignUp() error = %v, want validation error", err)
	}

	want := []string{
		"Please enter a valid email address.",
		"Affiliation must be 100 characters or less.",
		"Please enter a valid URL.",
	}
	if !reflect.DeepEqual(apiErr.Messages, want) {
		t.Errorf("Messages = %v, want %v", apiErr.Messages, want)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, validSignUp()); err != nil {
		t.Fatalf("first SignUp() error: %v", err)
	}

	_, err := svc.SignUp(ctx, validSignUp())
	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Kind != api.ErrorKindValidation {
		t.Fatalf("duplicate SignUp() = %v, want validation error", err)
	}
	if apiErr.Message() != "The email address you entered already exists." {
		t.Errorf("Message() = %q", apiErr.Message())
	}
}

func TestProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.SignUp(ctx, validSignUp())
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}

	profile, err := svc.Profile(ctx, &api.Principal{ID: id})
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	if profile.FirstName != "Grace" || profile.EmailAddress != "grace@example.edu" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestUpdateAppliesOnlyNonEmptyFields(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.SignUp(ctx, validSignUp())
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	principal := &api.Principal{ID: id}

	payload := map[string]string{
		"affiliation": "Navy",
		"firstName":   "", // blank values are ignored, not applied
	}
	if err := svc.Update(ctx, id, payload, principal); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	user, err := store.UserByID(ctx, id)
	if err != nil {
		t.Fatalf("UserByID() error: %v", err)
	}
	if user.Affiliation != "Navy" {
		t.Errorf("Affiliation = %q, want \"Navy\"", user.Affiliation)
	}
	if user.FirstName != "Grace" {
		t.Errorf("FirstName = %q, want unchanged", user.FirstName)
	}
}

func TestUpdateRehashesPassword(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.SignUp(ctx, validSignUp())
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	before, _ := store.UserByID(ctx, id)

	err = svc.Update(ctx, id, map[string]string{"password": "new-password"}, &api.Principal{ID: id})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	after, _ := store.UserByID(ctx, id)
	if after.PasswordHash == before.PasswordHash {
		t.Error("password hash unchanged after password update")
	}
	if bcrypt.CompareHashAndPassword([]byte(after.PasswordHash), []byte("new-password")) != nil {
		t.Error("new hash does not verify against the new password")
	}

	// A short replacement password is rejected.
	err = svc.Update(ctx, id, map[string]string{"password": "short"}, &api.Principal{ID: id})
	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Kind != api.ErrorKindValidation {
		t.Fatalf("Update() = %v, want validation error", err)
	}
}

func TestUpdateForbiddenForOtherUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.SignUp(ctx, validSignUp())
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}

	other := validSignUp()
	other["emailAddress"] = "other@example.edu"
	otherID, err := svc.SignUp(ctx, other)
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}

	err = svc.Update(ctx, id, map[string]string{"firstName": "Eve"}, &api.Principal{ID: otherID})
	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Kind != api.ErrorKindForbidden {
		t.Fatalf("Update() = %v, want forbidden", err)
	}
	if apiErr.Message() != "You are not authorized to update this user" {
		t.Errorf("Message() = %q", apiErr.Message())
	}
}

func TestUpdateUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Update(context.Background(), 42, map[string]string{}, &api.Principal{ID: 42})
	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Kind != api.ErrorKindNotFound {
		t.Fatalf("Update() = %v, want not found", err)
	}
	if apiErr.Message() != "User not found" {
		t.Errorf("Message() = %q", apiErr.Message())
	}
}

func TestCourseCount(t *testing.T) {
	svc, resources, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.SignUp(ctx, validSignUp())
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	principal := &api.Principal{ID: id}

	courses, _ := resources.KindByPlural("courses")
	for _, title := range []string{"CS 101", "CS 201", "CS 301"} {
		payload := map[string]string{"title": title, "description": "syllabus"}
		if _, err := resources.Create(ctx, courses, payload, principal); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	n, err := svc.CourseCount(ctx, id, principal)
	if err != nil {
		t.Fatalf("CourseCount() error: %v", err)
	}
	if n != 3 {
		t.Errorf("CourseCount() = %d, want 3", n)
	}

	other := validSignUp()
	other["emailAddress"] = "other@example.edu"
	otherID, err := svc.SignUp(ctx, other)
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}

	_, err = svc.CourseCount(ctx, id, &api.Principal{ID: otherID})
	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Kind != api.ErrorKindForbidden {
		t.Fatalf("CourseCount() for other user = %v, want forbidden", err)
	}
	if apiErr.Message() != "You are not authorized to view this user's course count" {
		t.Errorf("Message() = %q", apiErr.Message())
	}
}
