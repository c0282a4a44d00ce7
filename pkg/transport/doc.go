// Package transport maps the tagged api.Error kinds onto HTTP statuses
// and response bodies, and provides the HTTP-level middleware every
// route passes through: panic recovery, request ID propagation,
// structured request logging, and CORS.
//
// The per-kind body shapes are part of the client contract: validation
// failures carry the complete message list under "errors"; every other
// failure carries a single message.
package transport
