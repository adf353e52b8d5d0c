package fmg

import "errors"

// Failure kinds surfaced by the client. All of them are terminal: the
// client never retries and callers are expected to exit.
var (
	// ErrAuth covers rejected credentials on either login leg.
	ErrAuth = errors.New("authentication failed")
	// ErrNetwork covers transport failures: unreachable host, TLS handshake,
	// timeouts.
	ErrNetwork = errors.New("network error")
	// ErrParse covers responses that cannot be decoded into the expected
	// shape.
	ErrParse = errors.New("malformed API response")
)
