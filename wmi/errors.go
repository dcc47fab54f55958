package wmi

import (
	"errors"
	"fmt"
)

// Error classes of the marshalling layer. Use errors.Is to test for them.
var (
	// ErrInvalidInput reports a caller contract violation. The firmware was
	// not called.
	ErrInvalidInput = errors.New("Invalid input")

	// ErrTransport reports a failed firmware call or an unusable response.
	ErrTransport = errors.New("Firmware call failed")

	// ErrUnsupported reports a method that is not implemented by the firmware
	// of this platform. It is also an ErrTransport.
	ErrUnsupported = errors.New("Method not implemented by firmware")
)

// Kind classifies a CallError.
type Kind int

// Kinds of call errors.
const (
	KindInput Kind = iota + 1
	KindTransport
	KindUnsupported
)

func (k Kind) sentinel() error {
	switch k {
	case KindInput:
		return ErrInvalidInput
	case KindUnsupported:
		return ErrUnsupported
	default:
		return ErrTransport
	}
}

// CallError describes a failed Get or Set.
type CallError struct {
	Kind   Kind
	Family Family
	Method MethodID
	Reason string
	Err    error
}

func (e *CallError) Error() string {
	msg := fmt.Sprintf("%v (%s method %d)", e.Kind.sentinel(), e.Family, e.Method)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CallError) Unwrap() error {
	return e.Err
}

// Is matches the error class sentinels.
func (e *CallError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInput
	case ErrTransport:
		return e.Kind == KindTransport || e.Kind == KindUnsupported
	case ErrUnsupported:
		return e.Kind == KindUnsupported
	}
	return false
}

func inputError(f Family, m MethodID, reason string) error {
	return &CallError{Kind: KindInput, Family: f, Method: m, Reason: reason}
}

func transportError(f Family, m MethodID, reason string, err error) error {
	return &CallError{Kind: KindTransport, Family: f, Method: m, Reason: reason, Err: err}
}

// NewInputError creates a CallError of kind KindInput, e.g. for unparsable
// input at an attribute layer.
func NewInputError(f Family, m MethodID, reason string, err error) error {
	return &CallError{Kind: KindInput, Family: f, Method: m, Reason: reason, Err: err}
}

// NewTransportError creates a CallError of kind KindTransport, e.g. for a
// response that an attribute layer cannot use.
func NewTransportError(f Family, m MethodID, reason string, err error) error {
	return transportError(f, m, reason, err)
}
