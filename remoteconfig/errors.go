package remoteconfig

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the store holds no configuration yet
var ErrNotFound = errors.New("remote configuration not stored")

// InvalidError indicates a configuration missing a required field.
type InvalidError struct {
	Field string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid remote configuration: %s is required", e.Field)
}

// PersistError is returned when a refreshed value could not be saved. The
// refreshed value is in use regardless.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist remote configuration: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
