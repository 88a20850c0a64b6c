package mmapscan

import (
	"errors"
	"fmt"

	"github.com/Giulio2002/mmapscan/mmap"
)

// Error represents a mmapscan error with an error code
type Error struct {
	Code    ErrorCode
	Message string
	Err     error // wrapped error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mmapscan: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("mmapscan: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a mmapscan error with the same code, so that
// errors.Is(err, ErrRange) matches every range error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// ErrorCode classifies mmapscan errors
type ErrorCode int

const (
	// Success indicates the operation completed successfully
	Success ErrorCode = iota

	// RangeErr indicates a negative offset or length, a cursor outside the
	// view, or a slice offset past the available bytes
	RangeErr

	// AlreadyUnmappedErr indicates the backing mapping was released
	AlreadyUnmappedErr

	// AlreadyMappedErr indicates a second map of the same region
	AlreadyMappedErr

	// TypeErr indicates an unsupported source kind
	TypeErr

	// SystemErr indicates an OS-level failure (fstat, mmap, munmap)
	SystemErr

	// DecodeErr indicates a compressed source could not be decoded
	DecodeErr
)

var errorMessages = map[ErrorCode]string{
	Success:            "success",
	RangeErr:           "out of range",
	AlreadyUnmappedErr: "already unmapped",
	AlreadyMappedErr:   "already mapped",
	TypeErr:            "wrong argument type",
	SystemErr:          "system error",
	DecodeErr:          "decode failed",
}

// NewError creates a new Error with the given code
func NewError(code ErrorCode) *Error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = fmt.Sprintf("unknown error code %d", code)
	}
	return &Error{Code: code, Message: msg}
}

// WrapError creates a new Error wrapping another error
func WrapError(code ErrorCode, err error) *Error {
	e := NewError(code)
	e.Err = err
	return e
}

func rangeError(format string, args ...any) *Error {
	return &Error{Code: RangeErr, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is; they compare by code.
var (
	ErrRange           = NewError(RangeErr)
	ErrAlreadyUnmapped = NewError(AlreadyUnmappedErr)
	ErrAlreadyMapped   = NewError(AlreadyMappedErr)
	ErrInvalidSource   = NewError(TypeErr)
	ErrSystem          = NewError(SystemErr)
	ErrDecode          = NewError(DecodeErr)
)

// fromMmap translates errors from the mmap package into coded errors.
func fromMmap(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mmap.ErrUnmapped):
		return WrapError(AlreadyUnmappedErr, err)
	case errors.Is(err, mmap.ErrAlreadyMapped):
		return WrapError(AlreadyMappedErr, err)
	case errors.Is(err, mmap.ErrInvalidRange), errors.Is(err, mmap.ErrInvalidSize):
		return WrapError(RangeErr, err)
	case errors.Is(err, mmap.ErrNilFile):
		return WrapError(TypeErr, err)
	}
	return WrapError(SystemErr, err)
}

// IsRange returns true if the error is a range error
func IsRange(err error) bool {
	return Code(err) == RangeErr
}

// IsAlreadyUnmapped returns true if the error reports a released mapping
func IsAlreadyUnmapped(err error) bool {
	return Code(err) == AlreadyUnmappedErr
}

// Code returns the error code from an error, or SystemErr if not a mmapscan error
func Code(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return SystemErr
}
