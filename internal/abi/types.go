// Package abi implements the word-aligned head/tail codec used for contract
// calldata and return data.
//
// Values cross the codec as plain Go types:
//
//	address   common.Address
//	uint256   *big.Int (never negative)
//	bool      bool
//	string    string (valid UTF-8)
//	T[]       []any whose elements follow the same table
//
// The encoder is more lenient than the decoder about input representations
// (hex strings for addresses, decimal strings and machine integers for
// uint256, typed slices for arrays); see EncodeValue.
package abi

import (
	"fmt"
	"strings"
)

// WordSize is the size in bytes of one wire word.
const WordSize = 32

// Word is the atomic 32-byte unit of the wire format.
type Word [WordSize]byte

// Kind enumerates the supported type tags.
type Kind uint8

const (
	KindAddress Kind = iota + 1
	KindUint
	KindBool
	KindString
	KindArray
)

// Type is a type tag. Elem is set only for KindArray.
type Type struct {
	Kind Kind
	Elem *Type
}

// Convenience constructors for the static tags.
var (
	Address = Type{Kind: KindAddress}
	Uint256 = Type{Kind: KindUint}
	Bool    = Type{Kind: KindBool}
	String  = Type{Kind: KindString}
)

// ArrayOf returns the dynamic array type with element type elem.
func ArrayOf(elem Type) Type {
	e := elem
	return Type{Kind: KindArray, Elem: &e}
}

// IsDynamic reports whether values of t live in the tail region.
func (t Type) IsDynamic() bool {
	return t.Kind == KindString || t.Kind == KindArray
}

// String returns the canonical type name used in method signatures.
func (t Type) String() string {
	switch t.Kind {
	case KindAddress:
		return "address"
	case KindUint:
		return "uint256"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		if t.Elem == nil {
			return "invalid[]"
		}
		return t.Elem.String() + "[]"
	default:
		return "invalid"
	}
}

// Equal reports whether t and o describe the same type.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind != KindArray {
		return true
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == o.Elem
	}
	return t.Elem.Equal(*o.Elem)
}

// ParseType parses a canonical type name such as "address", "uint256" or
// "string[]". "uint" is accepted as an alias of "uint256", and the narrower
// unsigned widths (uint8 … uint248) are accepted because they share the
// uint256 word layout.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "[]") {
		elem, err := ParseType(strings.TrimSuffix(s, "[]"))
		if err != nil {
			return Type{}, err
		}
		return ArrayOf(elem), nil
	}
	switch s {
	case "address":
		return Address, nil
	case "bool":
		return Bool, nil
	case "string":
		return String, nil
	case "uint", "uint256":
		return Uint256, nil
	}
	if w, ok := strings.CutPrefix(s, "uint"); ok && validUintWidth(w) {
		return Uint256, nil
	}
	return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// MustParseType is like ParseType but panics on error. Intended for static tables.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

func validUintWidth(w string) bool {
	n := 0
	for _, c := range w {
		if c < '0' || c > '9' {
			return false
		}
		n = n*10 + int(c-'0')
		if n > 256 {
			return false
		}
	}
	return w != "" && w[0] != '0' && n%8 == 0
}

// Parameter is a named, typed slot in a method's inputs or outputs. The name
// is descriptive only.
type Parameter struct {
	Name string
	Type Type
}

// Types returns the type list of params, in order.
func Types(params []Parameter) []Type {
	out := make([]Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}
