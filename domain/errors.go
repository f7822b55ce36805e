package domain

import (
	"errors"
	"fmt"
)

// Typed failure classes shared by every composition service. Handlers map
// them to HTTP statuses in the presenters package; services never return a
// bare gorm error across the package boundary.

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

type DependencyError struct {
	Entity    string
	ID        string
	BlockedBy string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s %s cannot be deleted: still referenced by %s", e.Entity, e.ID, e.BlockedBy)
}

// ReferenceError reports a line or component pointing at an unknown or
// soft-deleted underlying entity during cost computation. It always aborts
// the whole computation; a bad reference is never skipped.
type ReferenceError struct {
	Kind string
	ID   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("referenced %s %s does not exist or is deleted", e.Kind, e.ID)
}

// StoreError wraps relational-store failures as a service-unavailable
// condition. No retry happens below the HTTP layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsDependency(err error) bool {
	var target *DependencyError
	return errors.As(err, &target)
}

func IsReference(err error) bool {
	var target *ReferenceError
	return errors.As(err, &target)
}

func IsStore(err error) bool {
	var target *StoreError
	return errors.As(err, &target)
}
