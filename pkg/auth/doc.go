// Package auth authenticates requests from per-request HTTP Basic
// credentials. There are no sessions and no tokens: every request is
// re-verified against the user store.
//
// Authenticators vote with three outcomes (Yes, No, Abstain) and are
// evaluated as a chain, so additional credential schemes can be added
// without touching the middleware. The only shipped authenticator is
// Basic, which resolves the email against the user store and verifies
// the password with bcrypt's constant-time comparison.
//
// A failed lookup and a failed password comparison produce the same
// response, and the dummy-hash comparison keeps the two cases close in
// timing, so a caller cannot probe which emails exist.
package auth
