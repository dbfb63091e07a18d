package docsearch

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT    = "conflict"
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	EUNAVAILABLE = "unavailable"
	EMALFORMED   = "malformed"
)

// Error represents an application-specific error.
// Shard is set for errors tied to a single shard.
type Error struct {
	Code    string
	Message string
	Shard   string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("docsearch error: code=%s message=%s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("docsearch error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ShardUnavailable reports that a shard could not be fetched.
// Callers treat it as zero results from that shard.
func ShardUnavailable(id string, err error) *Error {
	return &Error{
		Code:    EUNAVAILABLE,
		Message: fmt.Sprintf("shard %q unavailable", id),
		Shard:   id,
		Err:     err,
	}
}

// MalformedShard reports that a shard violates the producer contract.
func MalformedShard(id string, format string, args ...any) *Error {
	return &Error{
		Code:    EMALFORMED,
		Message: fmt.Sprintf("shard %q malformed: %s", id, fmt.Sprintf(format, args...)),
		Shard:   id,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// ErrorShard returns the shard identifier attached to an application error.
func ErrorShard(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Shard
	}
	return ""
}
