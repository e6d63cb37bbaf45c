package errs

import "errors"

// ErrNotFound is returned when a record is missing so HTTP handlers can respond with 404.
var ErrNotFound = errors.New("record not found")

// ValidationError communicates rule violations back to HTTP handlers.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError from a plain message.
func Validation(msg string) error {
	return ValidationError{Message: msg}
}

// IsValidation helps callers distinguish between business and infrastructure failures.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// ConflictError signals a uniqueness violation, e.g. a duplicate category name.
type ConflictError struct {
	Message string
}

func (e ConflictError) Error() string { return e.Message }

func Conflict(msg string) error {
	return ConflictError{Message: msg}
}

func IsConflict(err error) bool {
	var c ConflictError
	return errors.As(err, &c)
}

// UploadError wraps an object-storage transport failure.
type UploadError struct {
	Message string
	Cause   error
}

func (e UploadError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e UploadError) Unwrap() error { return e.Cause }

func Upload(msg string, cause error) error {
	return UploadError{Message: msg, Cause: cause}
}

func IsUpload(err error) bool {
	var u UploadError
	return errors.As(err, &u)
}
