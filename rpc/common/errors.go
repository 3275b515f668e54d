package common

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Error Kinds
// --------------------------------------------------------------------------

// ErrorKind categorizes errors of the rpc layer. The kind is transmitted on
// the wire, so the values must never change.
type ErrorKind uint8

const (
	ErrKNone      ErrorKind = iota // 0: No error.
	ErrKTransport                  // 1: Connect, bind or accept failed.
	ErrKClipboard                  // 2: The clipboard of the server is unavailable or denied access.
	ErrKConfig                     // 3: Missing or invalid configuration.
	ErrKProtocol                   // 4: Malformed or undecodable message.
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case ErrKNone:
		return "none"
	case ErrKTransport:
		return "transport"
	case ErrKClipboard:
		return "clipboard"
	case ErrKConfig:
		return "config"
	case ErrKProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// RPCError is an error with a kind. It is used on both sides of the wire.
type RPCError struct {
	Kind ErrorKind
	Msg  string
	err  error // wrapped cause, only available locally
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
}

// Unwrap returns the wrapped cause (if any)
func (e *RPCError) Unwrap() error {
	return e.err
}

// NewRPCError creates a new RPCError with the given kind and message.
func NewRPCError(kind ErrorKind, msg string) *RPCError {
	return &RPCError{
		Kind: kind,
		Msg:  msg,
	}
}

// WrapError wraps err as an RPCError of the given kind. The message of err is
// kept and err stays reachable with errors.Is / errors.As.
func WrapError(kind ErrorKind, err error) *RPCError {
	return &RPCError{
		Kind: kind,
		Msg:  err.Error(),
		err:  err,
	}
}

// KindOf returns the kind of the first RPCError in the chain of err, or ErrKNone.
func KindOf(err error) ErrorKind {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Kind
	}
	return ErrKNone
}

// IsKind reports whether err is an RPCError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
