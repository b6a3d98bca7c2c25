package abi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ErrArityMismatch is returned when the number of values differs from the
// number of declared types.
var ErrArityMismatch = errors.New("argument count mismatch")

// Encode encodes args against types using the head/tail layout. The head holds
// exactly one word per type: the value itself for static types, or the byte
// offset (from the start of the head) of the value's tail region for dynamic
// types. The tail is always a multiple of WordSize.
//
// On error nothing is returned; there are no partial encodings.
func Encode(types []Type, args []any) ([]Word, []byte, error) {
	if len(types) != len(args) {
		return nil, nil, fmt.Errorf("%w: want %d, got %d", ErrArityMismatch, len(types), len(args))
	}
	head, tail, err := encodeTuple(types, args)
	if err != nil {
		var ee *EncodingError
		if errors.As(err, &ee) {
			return nil, nil, err
		}
		return nil, nil, &EncodingError{Index: -1, Err: err}
	}
	return head, tail, nil
}

// EncodeBytes is Encode with the head and tail concatenated.
func EncodeBytes(types []Type, args []any) ([]byte, error) {
	head, tail, err := Encode(types, args)
	if err != nil {
		return nil, err
	}
	return joinWords(head, tail), nil
}

// EncodeValue encodes a single value. Static types produce one head word and
// an empty tail; dynamic types produce an offset word (always 32, the size of
// the one-word head) and the length-prefixed tail region.
func EncodeValue(v any, t Type) ([]Word, []byte, error) {
	return Encode([]Type{t}, []any{v})
}

// encodeTuple runs the two-pass head/tail layout. Pass one encodes every
// value, leaving a placeholder head word for each dynamic one. Pass two, once
// the head size is final, rewrites each placeholder to its tail offset.
func encodeTuple(types []Type, args []any) ([]Word, []byte, error) {
	head := make([]Word, len(types))
	chunks := make([][]byte, len(types))

	for i, t := range types {
		if !t.IsDynamic() {
			w, err := encodeStatic(args[i], t)
			if err != nil {
				return nil, nil, &EncodingError{Index: i, Type: t, Err: err}
			}
			head[i] = w
			continue
		}
		chunk, err := encodeDynamic(args[i], t)
		if err != nil {
			var ee *EncodingError
			if errors.As(err, &ee) {
				// Nested element failure: report against the outer argument.
				return nil, nil, &EncodingError{Index: i, Type: t, Err: ee.Err}
			}
			return nil, nil, &EncodingError{Index: i, Type: t, Err: err}
		}
		chunks[i] = chunk
	}

	offset := uint64(len(types) * WordSize)
	var tail []byte
	for i, t := range types {
		if !t.IsDynamic() {
			continue
		}
		head[i] = uintWord(offset)
		tail = append(tail, chunks[i]...)
		offset += uint64(len(chunks[i]))
	}
	return head, tail, nil
}

func encodeDynamic(v any, t Type) ([]byte, error) {
	switch t.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
		}
		if !utf8.ValidString(s) {
			return nil, ErrInvalidUTF8
		}
		out := make([]byte, 0, WordSize+padLen(len(s)))
		w := uintWord(uint64(len(s)))
		out = append(out, w[:]...)
		return append(out, padRight([]byte(s))...), nil

	case KindArray:
		if t.Elem == nil {
			return nil, fmt.Errorf("%w: array without element type", ErrUnknownType)
		}
		elems, err := toSlice(v)
		if err != nil {
			return nil, err
		}
		types := make([]Type, len(elems))
		for i := range types {
			types[i] = *t.Elem
		}
		head, tail, err := encodeTuple(types, elems)
		if err != nil {
			return nil, err
		}
		count := uintWord(uint64(len(elems)))
		out := append([]byte{}, count[:]...)
		return append(out, joinWords(head, tail)...), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

func encodeStatic(v any, t Type) (Word, error) {
	switch t.Kind {
	case KindAddress:
		addr, err := toAddress(v)
		if err != nil {
			return Word{}, err
		}
		var w Word
		copy(w[WordSize-common.AddressLength:], addr[:])
		return w, nil

	case KindUint:
		u, err := toUint256(v)
		if err != nil {
			return Word{}, err
		}
		return Word(u.Bytes32()), nil

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return Word{}, fmt.Errorf("%w: %T", ErrInvalidBool, v)
		}
		var w Word
		if b {
			w[WordSize-1] = 1
		}
		return w, nil
	}
	return Word{}, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

func toAddress(v any) (common.Address, error) {
	switch a := v.(type) {
	case common.Address:
		return a, nil
	case *common.Address:
		if a == nil {
			return common.Address{}, ErrInvalidAddress
		}
		return *a, nil
	case string:
		if !common.IsHexAddress(a) {
			return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, a)
		}
		return common.HexToAddress(a), nil
	}
	return common.Address{}, fmt.Errorf("%w: %T", ErrInvalidAddress, v)
}

func toUint256(v any) (*uint256.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, ErrInvalidInteger
		}
		return bigToUint256(n)
	case big.Int:
		return bigToUint256(&n)
	case *uint256.Int:
		if n == nil {
			return nil, ErrInvalidInteger
		}
		return n, nil
	case uint64:
		return uint256.NewInt(n), nil
	case uint:
		return uint256.NewInt(uint64(n)), nil
	case uint32:
		return uint256.NewInt(uint64(n)), nil
	case uint8:
		return uint256.NewInt(uint64(n)), nil
	case int:
		return signedToUint256(int64(n))
	case int64:
		return signedToUint256(n)
	case int32:
		return signedToUint256(int64(n))
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidInteger, v)
}

func bigToUint256(n *big.Int) (*uint256.Int, error) {
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value %s", ErrInvalidInteger, n)
	}
	u, overflow := uint256.FromBig(n)
	if overflow {
		return nil, ErrIntegerOverflow
	}
	return u, nil
}

func signedToUint256(n int64) (*uint256.Int, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative value %d", ErrInvalidInteger, n)
	}
	return uint256.NewInt(uint64(n)), nil
}

// toSlice flattens any slice or array value into []any.
func toSlice(v any) ([]any, error) {
	if s, ok := v.([]any); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, fmt.Errorf("%w: %T is not a list", ErrUnsupportedValue, v)
	}
	// A bare []byte is never an array argument here; it would be ambiguous
	// with a 20-byte address.
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func uintWord(n uint64) Word {
	var w Word
	binary.BigEndian.PutUint64(w[WordSize-8:], n)
	return w
}

func padLen(n int) int {
	if r := n % WordSize; r != 0 {
		return n + WordSize - r
	}
	return n
}

func padRight(b []byte) []byte {
	out := make([]byte, padLen(len(b)))
	copy(out, b)
	return out
}

func joinWords(head []Word, tail []byte) []byte {
	out := make([]byte, 0, len(head)*WordSize+len(tail))
	for _, w := range head {
		out = append(out, w[:]...)
	}
	return append(out, tail...)
}

// HexWords renders words as one 64-character hex string per line, the form
// used by the decode/encode commands to show layout.
func HexWords(data []byte) string {
	var sb strings.Builder
	for i := 0; i < len(data); i += WordSize {
		end := min(i+WordSize, len(data))
		fmt.Fprintf(&sb, "%x\n", data[i:end])
	}
	return sb.String()
}
