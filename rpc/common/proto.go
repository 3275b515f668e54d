package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Text is the clipboard content
	Text string `json:"text,omitempty"` // Used for: ClipSet (request), ClipGet (response)

	// Response only fields
	ErrKind ErrorKind `json:"err_kind,omitempty"` // Category of the error, zero if no error
	Err     string    `json:"err,omitempty"`      // Empty if no error, otherwise contains the error message
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewGetClipRequest creates a new ClipGet request
func NewGetClipRequest() *Message {
	return &Message{
		MsgType: MsgTClipGet,
	}
}

// NewGetClipResponse creates a new ClipGet response
func NewGetClipResponse(text string, err error) *Message {
	msg := &Message{
		MsgType: MsgTClipGet,
		Text:    text,
	}
	setErr(msg, err)
	return msg
}

// NewSetClipRequest creates a new ClipSet request
func NewSetClipRequest(text string) *Message {
	return &Message{
		MsgType: MsgTClipSet,
		Text:    text,
	}
}

// NewSetClipResponse creates a new ClipSet response
func NewSetClipResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTClipSet,
	}
	setErr(msg, err)
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(kind ErrorKind, err string) *Message {
	return &Message{
		MsgType: MsgTError,
		ErrKind: kind,
		Err:     err,
	}
}

// setErr stores err in the message. Errors that carry no kind are
// reported as clipboard errors, since the clipboard is the only thing a
// request can fail on once it has been decoded.
func setErr(msg *Message, err error) {
	if err == nil {
		return
	}
	msg.ErrKind = KindOf(err)
	if msg.ErrKind == ErrKNone {
		msg.ErrKind = ErrKClipboard
	}
	msg.Err = err.Error()
}

// AsError returns the error carried by the message, or nil.
func (m *Message) AsError() error {
	if m.MsgType != MsgTError && m.Err == "" {
		return nil
	}
	kind := m.ErrKind
	if kind == ErrKNone {
		kind = ErrKProtocol
	}
	return NewRPCError(kind, m.Err)
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTClipGet:
		return "get_clip"
	case MsgTClipSet:
		return "set_clip"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "get_clip":
		*t = MsgTClipGet
	case "set_clip":
		*t = MsgTClipSet
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	case "unknown":
		*t = MsgTUnknown
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Clipboard operations

	MsgTClipGet // Read the clipboard text
	MsgTClipSet // Replace the clipboard text
)
