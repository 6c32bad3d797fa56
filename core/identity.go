package core

import "errors"

// ErrInvalidIDToken is returned when a presented ID token fails verification.
var ErrInvalidIDToken = errors.New("invalid ID token")

// Identity is the verified subject of a sign-in token.
type Identity struct {
	Email string
	Name  string
}

// IdentityService verifies a sign-in ID token and extracts the subject.
type IdentityService interface {
	Verify(idToken string) (Identity, error)
}
