package desktop

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so transports can map it to a response class.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidInput is a caller error detected before touching the desktop.
	KindInvalidInput
	// KindEnumeration is an OS failure while listing displays.
	KindEnumeration
	// KindCapture is an OS or codec failure while producing a screenshot.
	KindCapture
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindEnumeration:
		return "enumeration_failed"
	case KindCapture:
		return "capture_failed"
	default:
		return "unknown"
	}
}

var (
	ErrUnknownContextMode = errors.New("unknown context mode")
	ErrEmptyRegion        = errors.New("capture region must have positive width and height")
)

// Error is the single error type returned by desktop operations.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KindCapture:
		return fmt.Sprintf("Screenshot capture failed: %v", e.Err)
	case KindEnumeration:
		return fmt.Sprintf("Screen enumeration failed: %v", e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

func invalidInput(err error) error {
	return &Error{Kind: KindInvalidInput, Err: err}
}

func captureFailed(err error) error {
	return &Error{Kind: KindCapture, Err: err}
}
