package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// them through errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrNotFound       = errors.New("not found")
	ErrAuthentication = errors.New("authentication failed")
	ErrConflict       = errors.New("conflict")
	ErrStoreFailure   = errors.New("store failure")
)

var (
	ErrDateRequired      = newKindError(ErrValidation, "date is required")
	ErrInvalidDate       = newKindError(ErrValidation, "invalid date")
	ErrFutureDate        = newKindError(ErrValidation, "date is in the future")
	ErrInvalidReflection = newKindError(ErrValidation, "invalid reflection")
	ErrTooFewPraises     = newKindError(ErrValidation, "at least 3 praises are required")
	ErrTooManyPraises    = newKindError(ErrValidation, "too many praises")
	ErrHabitNameRequired = newKindError(ErrValidation, "habit name is required")
	ErrHabitNameTooLong  = newKindError(ErrValidation, "habit name is too long")
	ErrInvalidMonth      = newKindError(ErrValidation, "invalid year or month")
	ErrInvalidInquiry    = newKindError(ErrValidation, "invalid inquiry")

	ErrEntryNotFound = newKindError(ErrNotFound, "entry not found")
	ErrHabitNotFound = newKindError(ErrNotFound, "habit not found")

	ErrHabitExists          = newKindError(ErrConflict, "habit already exists")
	ErrInquiryQuotaExceeded = newKindError(ErrConflict, "too many inquiries")
)

type kindError struct {
	kind    error
	message string
}

func newKindError(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

func (err *kindError) Error() string {
	return err.message
}

func (err *kindError) Unwrap() error {
	return err.kind
}

// DuplicateEntryError carries the id of the entry that already owns the day
// so callers can send the user to it instead of retrying.
type DuplicateEntryError struct {
	EntryID string
}

func (err *DuplicateEntryError) Error() string {
	return fmt.Sprintf("duplicate entry: %s", err.EntryID)
}

func (err *DuplicateEntryError) Is(target error) bool {
	return target == ErrDuplicateEntry
}

const (
	AuthReasonMissingCredential = "missing credential"
	AuthReasonInvalidCredential = "invalid credential"
	AuthReasonExpiredCredential = "credential expired"
	AuthReasonUnknownUser       = "unknown user"
)

type AuthFailure struct {
	Reason string
}

func (err *AuthFailure) Error() string {
	return "authentication failed: " + err.Reason
}

func (err *AuthFailure) Is(target error) bool {
	return target == ErrAuthentication
}

// StoreError wraps an unexpected persistence failure with the operation that
// produced it.
type StoreError struct {
	Op  string
	Err error
}

func (err *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", err.Op, err.Err)
}

func (err *StoreError) Unwrap() []error {
	return []error{ErrStoreFailure, err.Err}
}

func storeFailure(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
