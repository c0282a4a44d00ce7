package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/acadia-dev/acadia/pkg/api"
)

// Decision represents the three possible outcomes of authentication.
type Decision int

const (
	// Yes means credentials are valid. The chain stops and the principal
	// is used.
	Yes Decision = iota

	// No means credentials are present but invalid. The chain stops and
	// the request is rejected.
	No

	// Abstain means this authenticator cannot handle the credentials
	// type. The chain continues to the next authenticator.
	Abstain
)

// Result carries the outcome of an authentication attempt.
type Result struct {
	Decision  Decision
	Principal *api.Principal // populated only when Decision == Yes
	Err       error          // populated only when Decision == No
}

// Authenticator examines request credentials and returns a three-outcome
// vote.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) Result
}

// ErrUnauthenticated is the single sentinel for every credential failure:
// absent header, malformed encoding, unknown email, wrong password.
var ErrUnauthenticated = errors.New("authentication required")

// Chain evaluates authenticators in order using three-outcome voting.
// With every authenticator abstaining the request is rejected, so an
// absent Authorization header ends up indistinguishable from an invalid
// one.
type Chain struct {
	// Authenticators are evaluated left to right.
	Authenticators []Authenticator
}

// Authenticate runs the chain. Stops on the first Yes or No; if all
// abstain, the request is rejected.
func (c *Chain) Authenticate(ctx context.Context, r *http.Request) Result {
	for _, authn := range c.Authenticators {
		result := authn.Authenticate(ctx, r)
		if result.Decision != Abstain {
			return result
		}
	}
	return Result{Decision: No, Err: ErrUnauthenticated}
}
