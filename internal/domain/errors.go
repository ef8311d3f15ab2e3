package domain

import "errors"

// ErrNotFound reports an unknown or malformed identifier on a detail lookup.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a malformed request value; surfaced as a client
// error and never retried.
type ValidationError struct {
	Detail string
}

func (e ValidationError) Error() string { return e.Detail }
