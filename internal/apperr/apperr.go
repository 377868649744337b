package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies business errors so the transport layer can pick a
// status code without string matching.
type Kind int

const (
	// KindNotFound: a referenced entity does not exist.
	KindNotFound Kind = iota + 1
	// KindConflict: invalid state transition, cross-entity mismatch,
	// missing allocation coverage or insufficient balance.
	KindConflict
	// KindInvalid: malformed input, rejected before any side effect.
	KindInvalid
)

// Error carries a kind alongside the message. None of these are retried;
// transient storage errors pass through un-wrapped.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) error {
	return &Error{Kind: KindInvalid, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
func IsInvalid(err error) bool  { return KindOf(err) == KindInvalid }
