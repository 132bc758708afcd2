package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Decap OAuth provider
var (
	// Configuration errors
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrUnknownProvider = errors.New("unknown provider")

	// Request errors
	ErrUntrustedOrigin     = errors.New("untrusted origin")
	ErrMissingCode         = errors.New("authorization code is required")
	ErrMissingHost         = errors.New("no host header")
	ErrInvalidState        = errors.New("invalid state")
	ErrAuthorizationDenied = errors.New("authorization denied")

	// Provider errors
	ErrTokenExchange = errors.New("token exchange failed")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
