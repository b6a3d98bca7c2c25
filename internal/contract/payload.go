// Package contract builds call payloads from registered methods and
// dispatches them through a wallet provider.
package contract

import (
	"fmt"

	"github.com/Mohsinsiddi/lumen/internal/abi"
	"github.com/Mohsinsiddi/lumen/internal/method"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrArityMismatch is returned when a call has the wrong number of arguments.
var ErrArityMismatch = abi.ErrArityMismatch

// CallPayload is a selector plus the head/tail encoded argument block.
type CallPayload struct {
	Selector method.Selector
	Head     []abi.Word
	Tail     []byte
}

// BuildCall encodes args for m. Argument order follows m.Inputs.
func BuildCall(m *method.Method, args []any) (*CallPayload, error) {
	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArityMismatch, m.Signature, len(m.Inputs), len(args))
	}
	head, tail, err := abi.Encode(m.InputTypes(), args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Signature, err)
	}
	return &CallPayload{Selector: m.Selector, Head: head, Tail: tail}, nil
}

// Len returns the payload size in bytes.
func (p *CallPayload) Len() int {
	return method.SelectorSize + len(p.Head)*abi.WordSize + len(p.Tail)
}

// Bytes returns selector || head || tail.
func (p *CallPayload) Bytes() []byte {
	out := make([]byte, 0, p.Len())
	out = append(out, p.Selector[:]...)
	for _, w := range p.Head {
		out = append(out, w[:]...)
	}
	return append(out, p.Tail...)
}

// Hex returns the 0x-prefixed transport form.
func (p *CallPayload) Hex() string {
	return hexutil.Encode(p.Bytes())
}

// Arguments returns the encoded argument block without the selector.
func (p *CallPayload) Arguments() []byte {
	return p.Bytes()[method.SelectorSize:]
}

// DecodeCall splits calldata into its method and decoded arguments.
func DecodeCall(reg *method.Registry, data []byte) (*method.Method, []any, error) {
	if len(data) < method.SelectorSize {
		return nil, nil, fmt.Errorf("calldata is %d bytes: %w", len(data), abi.ErrTruncatedData)
	}
	var sel method.Selector
	copy(sel[:], data[:method.SelectorSize])
	m, err := reg.LookupSelector(sel)
	if err != nil {
		return nil, nil, err
	}
	args, err := abi.Decode(data[method.SelectorSize:], m.InputTypes())
	if err != nil {
		return m, nil, fmt.Errorf("%s: %w", m.Signature, err)
	}
	return m, args, nil
}
