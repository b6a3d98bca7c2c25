// Package method maps canonical method signatures to their selectors and
// input/output schemas.
package method

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/lumen/internal/abi"
	"golang.org/x/crypto/sha3"
)

// Errors.
var (
	ErrUnknownMethod      = errors.New("unknown method")
	ErrDuplicate          = errors.New("method already registered")
	ErrSignatureMismatch  = errors.New("signature does not match inputs")
	ErrMalformedSignature = errors.New("malformed signature")
)

// Mutability is the state mutability of a method.
type Mutability string

const (
	View       Mutability = "view"
	NonPayable Mutability = "nonpayable"
)

// SelectorSize is the length of a selector in bytes.
const SelectorSize = 4

// Selector is the first four bytes of the Keccak-256 hash of a signature.
type Selector [SelectorSize]byte

// Hex returns the 0x-prefixed selector.
func (s Selector) Hex() string {
	return "0x" + hex.EncodeToString(s[:])
}

// String implements fmt.Stringer.
func (s Selector) String() string { return s.Hex() }

// SelectorOf computes the selector of a canonical signature such as
// "balanceOf(address)".
func SelectorOf(signature string) Selector {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	var s Selector
	copy(s[:], h.Sum(nil)[:SelectorSize])
	return s
}

// Method is one registered method. Values are immutable once registered.
type Method struct {
	Name       string
	Signature  string
	Selector   Selector
	Inputs     []abi.Parameter
	Outputs    []abi.Parameter
	Mutability Mutability
}

// IsView reports whether m is read-only.
func (m *Method) IsView() bool { return m.Mutability == View }

// InputTypes returns the input type list.
func (m *Method) InputTypes() []abi.Type { return abi.Types(m.Inputs) }

// OutputTypes returns the output type list.
func (m *Method) OutputTypes() []abi.Type { return abi.Types(m.Outputs) }

// String renders m the way the methods command lists it.
func (m *Method) String() string {
	var sb strings.Builder
	sb.WriteString(m.Signature)
	if m.Mutability == View {
		sb.WriteString(" view")
	}
	if len(m.Outputs) > 0 {
		outs := make([]string, len(m.Outputs))
		for i, o := range m.Outputs {
			outs[i] = o.Type.String()
		}
		sb.WriteString(" returns (" + strings.Join(outs, ",") + ")")
	}
	return sb.String()
}

// ParseSignature splits "name(t1,t2)" into its name and parsed input types.
func ParseSignature(sig string) (string, []abi.Type, error) {
	sig = strings.TrimSpace(sig)
	open := strings.Index(sig, "(")
	if open <= 0 || !strings.HasSuffix(sig, ")") {
		return "", nil, fmt.Errorf("%w: %q, expected name(type1,type2)", ErrMalformedSignature, sig)
	}
	name := sig[:open]
	inner := sig[open+1 : len(sig)-1]
	if inner == "" {
		return name, nil, nil
	}
	parts := strings.Split(inner, ",")
	types := make([]abi.Type, len(parts))
	for i, p := range parts {
		t, err := abi.ParseType(p)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %q: %v", ErrMalformedSignature, sig, err)
		}
		types[i] = t
	}
	return name, types, nil
}

// CanonicalSignature builds "name(t1,t2)" from a name and types.
func CanonicalSignature(name string, types []abi.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

// Params builds an unnamed parameter list from type names. It panics on an
// unknown type and is meant for static tables.
func Params(types ...string) []abi.Parameter {
	out := make([]abi.Parameter, len(types))
	for i, t := range types {
		out[i] = abi.Parameter{Type: abi.MustParseType(t)}
	}
	return out
}

// Named is a single named parameter for static tables.
func Named(name, typ string) abi.Parameter {
	return abi.Parameter{Name: name, Type: abi.MustParseType(typ)}
}
