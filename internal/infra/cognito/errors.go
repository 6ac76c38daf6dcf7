package cognito

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication matches every *AuthenticationError.
	ErrAuthentication = errors.New("authentication failed")
	// ErrKeySetUnavailable matches every *KeySetFetchError.
	ErrKeySetUnavailable = errors.New("key set unavailable")
	ErrMissingIssuer     = errors.New("cognito: user pool id and region, or an issuer url, are required")
)

// AuthenticationError reports a token that was presented but cannot be trusted.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// KeySetFetchError reports that the issuer's signing keys could not be loaded.
// It says nothing about the token itself.
type KeySetFetchError struct {
	URL string
	Err error
}

func (e *KeySetFetchError) Error() string {
	return fmt.Sprintf("failed to fetch key set from %s: %v", e.URL, e.Err)
}

func (e *KeySetFetchError) Unwrap() error {
	return e.Err
}

func (e *KeySetFetchError) Is(target error) bool {
	return target == ErrKeySetUnavailable
}

func authFailure(reason string, err error) *AuthenticationError {
	return &AuthenticationError{Reason: reason, Err: err}
}
