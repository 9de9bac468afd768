package rates

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindRateNotFound
	KindTimeout
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindRateNotFound:
		return "rate not found"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	default:
		return "internal error"
	}
}

// Error carries one of the conversion failure kinds up to the transport layer.
type Error struct {
	Kind  Kind
	Msg   string
	Codes []string // missing currency codes for KindRateNotFound
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Err, e.Msg)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidInput(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

func rateNotFound(codes []string) *Error {
	return &Error{
		Kind:  KindRateNotFound,
		Msg:   fmt.Sprintf("no rate for currency %s", strings.Join(codes, ", ")),
		Codes: codes,
	}
}

func internal(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf classifies any error. An expired deadline is a timeout, a cancelled
// context (client went away) is KindCanceled, anything unrecognised is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	return KindInternal
}
