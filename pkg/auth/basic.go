package auth

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/acadia-dev/acadia/pkg/api"
	"github.com/acadia-dev/acadia/pkg/storage"
)

// dummyHash is a bcrypt hash of a random string nobody knows. When the
// email does not resolve to a user we still run one bcrypt comparison
// against it, so the unknown-email and wrong-password paths cost about
// the same.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Basic authenticates HTTP Basic credentials against the user store.
type Basic struct {
	users storage.UserStore
}

// NewBasic creates a Basic authenticator backed by the given user store.
func NewBasic(users storage.UserStore) *Basic {
	return &Basic{users: users}
}

// Authenticate extracts and verifies the Basic credential pair. A
// missing or non-Basic Authorization header abstains; the chain then
// rejects with the same error an invalid pair produces, which is exactly
// the contract: absence and invalidity are indistinguishable.
func (b *Basic) Authenticate(ctx context.Context, r *http.Request) Result {
	email, password, ok := r.BasicAuth()
	if !ok {
		return Result{Decision: Abstain}
	}

	user, err := b.users.UserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		// Burn a comparison so timing does not reveal whether the
		// email exists.
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Result{Decision: No, Err: ErrUnauthenticated}
	}
	if err != nil {
		return Result{Decision: No, Err: err}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Result{Decision: No, Err: ErrUnauthenticated}
	}

	return Result{
		Decision:  Yes,
		Principal: &api.Principal{ID: user.ID, Email: user.EmailAddress},
	}
}
