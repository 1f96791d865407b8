// Package identity validates bearer credentials against the external
// identity provider. Results are never cached; every request re-verifies.
package identity

import (
	"context"
	"errors"
)

// Identity is the verified subject the provider vouches for.
type Identity struct {
	SubjectID string
	Email     string
}

// Verifier maps a bearer credential to a verified identity.
type Verifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

var (
	// ErrMalformedCredential: the credential is not even a parseable token
	// (maps to 401).
	ErrMalformedCredential = errors.New("malformed credential")
	// ErrInvalidCredential: the provider rejected the credential
	// (maps to 403).
	ErrInvalidCredential = errors.New("invalid credential")
)
