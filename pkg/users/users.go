// Package users implements account signup and self-service: the public
// signup endpoint, the caller's own profile, partial self-updates, and
// the per-user course count. User fields are validated by the same
// declarative schema engine the six resource kinds use.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/acadia-dev/acadia/pkg/api"
	"github.com/acadia-dev/acadia/pkg/resource"
	"github.com/acadia-dev/acadia/pkg/storage"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 10

const emailUniqueMessage = "The email address you entered already exists."

// passwordField is validated separately from the profile schema: its
// plaintext is checked only when supplied, and the stored value is a
// hash that must never be re-validated as a password.
var passwordField = resource.Field{
	Name:            "password",
	Required:        true,
	RequiredMessage: "A password is required",
	EmptyMessage:    "Please provide a password.",
	Checks: []resource.Check{{
		Valid:   resource.LenBetween(8, 20),
		Message: "Your password should be between 8 and 20 characters",
	}},
}

// profileSchema is the ordered schema for every user field except the
// password.
func profileSchema() []resource.Field {
	return []resource.Field{
		{Name: "designation"},
		{
			Name:            "firstName",
			Required:        true,
			RequiredMessage: "A first name is required",
			EmptyMessage:    "Please provide a first name.",
		},
		{
			Name:            "lastName",
			Required:        true,
			RequiredMessage: "A last name is required.",
			EmptyMessage:    "Please provide a last name.",
		},
		{
			Name:            "emailAddress",
			Required:        true,
			RequiredMessage: "An email address is required",
			EmptyMessage:    "Please provide an email address.",
			Checks: []resource.Check{{
				Valid:   resource.IsEmail,
				Message: "Please enter a valid email address.",
			}},
		},
		{
			Name: "affiliation",
			Checks: []resource.Check{{
				Valid:   resource.MaxLen(100),
				Message: "Affiliation must be 100 characters or less.",
			}},
		},
		{
			Name: "areasOfInterest",
			Checks: []resource.Check{{
				Valid:   resource.MaxLen(255),
				Message: "Areas of interest must be 255 characters or less.",
			}},
		},
		{
			Name: "homepage",
			Checks: []resource.Check{{
				Valid:   resource.IsURL,
				Message: "Please enter a valid URL.",
			}},
		},
	}
}

// Service handles user accounts. The store handle is injected at
// construction and shared by concurrent requests.
type Service struct {
	store     storage.Store
	resources *resource.Service
	logger    *slog.Logger
	cost      int
}

// NewService creates the user service. bcryptCost <= 0 selects the
// default cost.
func NewService(store storage.Store, resources *resource.Service, logger *slog.Logger, bcryptCost int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if bcryptCost <= 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &Service{store: store, resources: resources, logger: logger, cost: bcryptCost}
}

// SignUp validates the payload, hashes the password, and creates the
// account. The hash is computed exactly once, and only after the
// plaintext length check passed. On any violation the complete message
// list is returned and nothing is persisted.
func (s *Service) SignUp(ctx context.Context, payload map[string]string) (int64, error) {
	msgs := resource.ValidateFields(profileSchema(), payload)
	msgs = append(msgs, resource.ValidateFields([]resource.Field{passwordField}, payload)...)
	if len(msgs) > 0 {
		return 0, api.NewValidationError(msgs...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload["password"]), s.cost)
	if err != nil {
		return 0, s.internal(ctx, "signup", err)
	}

	user := &api.User{
		Designation:     payload["designation"],
		FirstName:       payload["firstName"],
		LastName:        payload["lastName"],
		EmailAddress:    payload["emailAddress"],
		PasswordHash:    string(hash),
		Affiliation:     payload["affiliation"],
		AreasOfInterest: payload["areasOfInterest"],
		Homepage:        payload["homepage"],
	}

	id, err := s.store.CreateUser(ctx, user)
	if _, ok := storage.AsDuplicate(err); ok {
		return 0, api.NewValidationError(emailUniqueMessage)
	}
	if err != nil {
		return 0, s.internal(ctx, "signup", err)
	}
	return id, nil
}

// Profile returns the caller's own profile, hash and timestamps
// stripped.
func (s *Service) Profile(ctx context.Context, principal *api.Principal) (*api.UserProfile, error) {
	user, err := s.store.UserByID(ctx, principal.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, api.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, s.internal(ctx, "profile", err)
	}
	return user.Profile(), nil
}

// updatableFields are the user fields a self-update may change. Only
// fields supplied with a non-empty value are applied; the rest keep
// their stored values.
var updatableFields = []string{
	"designation", "firstName", "lastName", "affiliation",
	"areasOfInterest", "homepage", "emailAddress",
}

// Update applies a partial self-update. Only the account owner may
// update it; a supplied password is length-checked and re-hashed.
func (s *Service) Update(ctx context.Context, id int64, payload map[string]string, principal *api.Principal) error {
	user, err := s.store.UserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return api.NewNotFoundError("User not found")
	}
	if err != nil {
		return s.internal(ctx, "update", err)
	}

	if id != principal.ID {
		return api.NewForbiddenError("You are not authorized to update this user")
	}

	merged := map[string]string{
		"designation":     user.Designation,
		"firstName":       user.FirstName,
		"lastName":        user.LastName,
		"emailAddress":    user.EmailAddress,
		"affiliation":     user.Affiliation,
		"areasOfInterest": user.AreasOfInterest,
		"homepage":        user.Homepage,
	}
	for _, name := range updatableFields {
		if v, ok := payload[name]; ok && v != "" {
			merged[name] = v
		}
	}

	msgs := resource.ValidateFields(profileSchema(), merged)

	password, changePassword := payload["password"]
	if changePassword && password != "" {
		msgs = append(msgs, resource.ValidateFields(
			[]resource.Field{passwordField},
			map[string]string{"password": password},
		)...)
	} else {
		changePassword = false
	}

	if len(msgs) > 0 {
		return api.NewValidationError(msgs...)
	}

	user.Designation = merged["designation"]
	user.FirstName = merged["firstName"]
	user.LastName = merged["lastName"]
	user.EmailAddress = merged["emailAddress"]
	user.Affiliation = merged["affiliation"]
	user.AreasOfInterest = merged["areasOfInterest"]
	user.Homepage = merged["homepage"]

	if changePassword {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return s.internal(ctx, "update", err)
		}
		user.PasswordHash = string(hash)
	}

	err = s.store.UpdateUser(ctx, user)
	if _, ok := storage.AsDuplicate(err); ok {
		return api.NewValidationError(emailUniqueMessage)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return api.NewNotFoundError("User not found")
	}
	if err != nil {
		return s.internal(ctx, "update", err)
	}
	return nil
}

// CourseCount returns how many courses the given user owns. Only the
// user may ask for their own count.
func (s *Service) CourseCount(ctx context.Context, id int64, principal *api.Principal) (int, error) {
	_, err := s.store.UserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, api.NewNotFoundError("User not found")
	}
	if err != nil {
		return 0, s.internal(ctx, "course-count", err)
	}

	if id != principal.ID {
		return 0, api.NewForbiddenError("You are not authorized to view this user's course count")
	}

	kind, ok := s.resources.KindByPlural("courses")
	if !ok {
		return 0, s.internal(ctx, "course-count", fmt.Errorf("course kind not registered"))
	}
	return s.resources.CountByOwner(ctx, kind, id)
}

func (s *Service) internal(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "user operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return api.NewInternalError()
}
