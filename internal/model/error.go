package model

import (
	"errors"
	"fmt"
)

var ErrorBadRequest = errors.New("bad request")
var ErrorForbidden = errors.New("forbidden")
var ErrorNotFound = errors.New("not found")
var ErrorConflict = errors.New("record was modified concurrently")
var ErrorUnavailable = errors.New("service unavailable")
var ErrorInvalidUsernameOrPassword = fmt.Errorf("invalid username or password: %w", ErrorNotFound)
var ErrorUserExists = fmt.Errorf("user already exists: %w", ErrorConflict)

// StoreError carries a status code reported by the entity store that has no
// sentinel of its own.
type StoreError struct {
	StatusCode int
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("entity store responded with status %d", e.StatusCode)
}
