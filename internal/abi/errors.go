package abi

import (
	"errors"
	"fmt"
)

// Encoding failures.
var (
	ErrInvalidAddress   = errors.New("invalid address")
	ErrIntegerOverflow  = errors.New("integer exceeds 2^256-1")
	ErrInvalidInteger   = errors.New("invalid unsigned integer")
	ErrInvalidBool      = errors.New("invalid bool")
	ErrInvalidUTF8      = errors.New("invalid UTF-8")
	ErrUnsupportedValue = errors.New("unsupported value for type")
	ErrUnknownType      = errors.New("unknown type")
)

// Decoding failures.
var (
	ErrTruncatedData = errors.New("truncated data")
	ErrTrailingData  = errors.New("trailing data after last value")
	ErrBadOffset     = errors.New("malformed offset or length")
)

// EncodingError reports a value that could not be encoded as its declared type.
type EncodingError struct {
	Index int // argument position, -1 when not applicable
	Type  Type
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("encoding %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("encoding argument %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DecodeError reports return data that does not match the expected schema.
type DecodeError struct {
	Index int // output position, -1 when the failure is not tied to one output
	Type  Type
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("decoding: %v", e.Err)
	}
	return fmt.Sprintf("decoding output %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
