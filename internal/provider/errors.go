package provider

import (
	"errors"
	"fmt"
)

// EIP-1193 provider error codes, plus the JSON-RPC codes wallets commonly
// surface.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeDisconnected      = 4900
	CodeChainDisconnected = 4901
	CodeUnrecognizedChain = 4902

	CodeInvalidParams  = -32602
	CodeInternal       = -32603
	CodeMethodNotFound = -32601
)

// ErrProvider matches every *Error with errors.Is.
var ErrProvider = errors.New("provider error")

// Error is a failure reported by, or on the way to, the provider.
type Error struct {
	Code    int
	Message string
	Data    any
	Err     error // underlying transport failure, if any
}

// NewError returns an *Error with a formatted message.
func NewError(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// ErrorCode implements go-ethereum's rpc.Error so a wallet served over
// JSON-RPC keeps its codes on the wire.
func (e *Error) ErrorCode() int { return e.Code }

// ErrorData implements go-ethereum's rpc.DataError.
func (e *Error) ErrorData() any { return e.Data }

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is ErrProvider.
func (e *Error) Is(target error) bool { return target == ErrProvider }

type coded interface {
	ErrorCode() int
}

// Code returns the provider error code carried anywhere in err's chain.
func Code(err error) (int, bool) {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode(), true
	}
	return 0, false
}

// IsCode reports whether err carries the given provider error code.
func IsCode(err error, code int) bool {
	c, ok := Code(err)
	return ok && c == code
}
