package domain

import "fmt"

// NotFoundError indicates that a referenced resource does not exist. It is
// also used to mask unauthorized booking reads so that non-participants
// cannot probe for existence.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource and id.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError indicates the actor is not permitted to perform an action
// on a resource that exists.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

// NewForbiddenError creates a ForbiddenError with the given reason.
func NewForbiddenError(reason string) error {
	return &ForbiddenError{Reason: reason}
}

// ConflictError indicates the resource exists but is in a state incompatible
// with the requested action.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// NewConflictError creates a ConflictError with the given reason.
func NewConflictError(reason string) error {
	return &ConflictError{Reason: reason}
}

// ValidationError indicates structurally malformed input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NewValidationError creates a ValidationError with the given reason.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}
