package clipboard

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IClipboard is the capability to read and overwrite the text content of a
// clipboard. Implementations are not required to be safe for concurrent use;
// concurrent callers must go through a Guard.
type IClipboard interface {
	// GetText returns the whole current clipboard content as text.
	GetText() (text string, err error)
	// SetText replaces the whole clipboard content with text.
	SetText(text string) (err error)
}

// Factory is a function type that creates the clipboard used by a server.
type Factory func() (IClipboard, error)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error wraps an error code (of type ErrCode) and a message. All clipboard
// implementations in this package return *Error on failure.
type Error struct {
	Code ErrCode // The error code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ClipboardError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new clipboard Error with the given code and message.
func NewError(code ErrCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

type ErrCode uint8

const (
	ErrCUnknown     ErrCode = iota // 0: Unknown failure.
	ErrCUnavailable                // 1: No clipboard available (no display, missing tooling, ...).
	ErrCRead                       // 2: Reading the clipboard failed.
	ErrCWrite                      // 3: Writing the clipboard failed.
	ErrCReleased                   // 4: Access used after it was released.
)

// String returns the string representation of an ErrCode.
func (c ErrCode) String() string {
	switch c {
	case ErrCUnavailable:
		return "Unavailable"
	case ErrCRead:
		return "Read"
	case ErrCWrite:
		return "Write"
	case ErrCReleased:
		return "Released"
	default:
		return "Unknown"
	}
}
