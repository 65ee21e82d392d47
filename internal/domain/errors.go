package domain

import "errors"

// Auth errors
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrUserNotFound       = errors.New("user not found")
)

// Catalog and ledger errors
var (
	ErrTempleNotFound      = errors.New("temple not found")
	ErrTempleAlreadySaved  = errors.New("temple already saved")
	ErrSavedTempleNotFound = errors.New("saved temple not found")
)

// UpstreamError reports a failed call to the chat provider.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "chat error: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
