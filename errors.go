package memcache

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorKind classifies the errors this package returns, independent of the
// particular operation that produced them.
type ErrorKind int

const (
	// ConnectionShutdown means the connection is not running (it hasn't
	// started, or has already terminated). Every submission made after a
	// connection reaches this state fails with a ConnectionShutdown error.
	ConnectionShutdown ErrorKind = iota

	// ProtocolError means the wire conversation broke down: a malformed
	// response, an unexpected status code for the operation performed, or
	// a value that couldn't be decoded into the requested type.
	ProtocolError

	// KeyNotFound means a delete or replace addressed a key the server
	// doesn't have.
	KeyNotFound

	// KeyExist means an add targeted a key the server already has.
	KeyExist
)

func (k ErrorKind) String() string {
	switch k {
	case ConnectionShutdown:
		return "connection shutdown"
	case ProtocolError:
		return "protocol error"
	case KeyNotFound:
		return "key not found"
	case KeyExist:
		return "key exists"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every operation in this package. Its
// Kind lets callers branch on the outcome without string matching; Cause,
// when present, carries the underlying error (an I/O error, a *meta.Response
// decode failure, and so on).
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error

	file string
	line int
	fn   string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("memcache: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("memcache: %s: %s", e.Kind, e.Message)
}

// Unwrap exposes Cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Location returns the file, line and function that constructed the error,
// for debugging; it is not part of the error's string form.
func (e *Error) Location() (file string, line int, fn string) {
	return e.file, e.line, e.fn
}

func errShutdown(cause error) *Error {
	return newError(ConnectionShutdown, "connection is not running", cause)
}

func errProtocol(message string, cause error) *Error {
	return newError(ProtocolError, message, cause)
}

func errKeyNotFound(key string) *Error {
	return newError(KeyNotFound, "key not found: "+key, nil)
}

func errKeyExist(key string) *Error {
	return newError(KeyExist, "key already exists: "+key, nil)
}

// newError builds an *Error, recording the call site of the errXxx helper
// above (not of newError itself) via runtime.Caller(2).
func newError(kind ErrorKind, message string, cause error) *Error {
	e := &Error{Kind: kind, Message: message, Cause: cause}
	if pc, file, line, ok := runtime.Caller(2); ok {
		e.file = file
		e.line = line
		if f := runtime.FuncForPC(pc); f != nil {
			e.fn = f.Name()
		}
	}
	return e
}

// IsKind reports whether err (or any error it wraps) is a *Error of the
// given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
