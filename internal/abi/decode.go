package abi

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
)

// Decode decodes data positionally against types. Dynamic values are resolved
// through their head offsets, which are relative to the start of the
// immediately enclosing region: the whole blob for top-level values, the
// element block (just past the count word) for array elements.
//
// The schema must account for every byte: short input fails with
// ErrTruncatedData and bytes past the furthest region the schema reaches fail
// with ErrTrailingData. Errors are *DecodeError.
func Decode(data []byte, types []Type) ([]any, error) {
	d := decoder{data: data}
	if need := len(types) * WordSize; len(data) < need {
		return nil, &DecodeError{Index: -1, Err: fmt.Errorf("%w: need at least %d bytes, have %d", ErrTruncatedData, need, len(data))}
	}

	out := make([]any, len(types))
	for i, t := range types {
		v, err := d.value(0, i, t)
		if err != nil {
			return nil, &DecodeError{Index: i, Type: t, Err: err}
		}
		out[i] = v
	}
	if d.end != len(data) {
		return nil, &DecodeError{Index: -1, Err: fmt.Errorf("%w: schema covers %d of %d bytes", ErrTrailingData, d.end, len(data))}
	}
	return out, nil
}

type decoder struct {
	data []byte
	end  int // furthest byte any read has reached
}

// read returns data[pos:pos+n], failing rather than reading short.
func (d *decoder) read(pos, n int) ([]byte, error) {
	if pos < 0 || n < 0 || pos > len(d.data) || n > len(d.data)-pos {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedData, n, pos, len(d.data))
	}
	if pos+n > d.end {
		d.end = pos + n
	}
	return d.data[pos : pos+n], nil
}

// value decodes slot i of the region starting at base.
func (d *decoder) value(base, i int, t Type) (any, error) {
	word, err := d.read(base+i*WordSize, WordSize)
	if err != nil {
		return nil, err
	}
	if !t.IsDynamic() {
		return decodeStatic(word, t)
	}
	off, err := d.size(word)
	if err != nil {
		return nil, err
	}
	return d.dynamic(base+off, t)
}

func (d *decoder) dynamic(pos int, t Type) (any, error) {
	lenWord, err := d.read(pos, WordSize)
	if err != nil {
		return nil, err
	}
	n, err := d.size(lenWord)
	if err != nil {
		return nil, err
	}
	start := pos + WordSize

	switch t.Kind {
	case KindString:
		padded, err := d.read(start, padLen(n))
		if err != nil {
			return nil, err
		}
		raw := padded[:n]
		if !utf8.Valid(raw) {
			return nil, ErrInvalidUTF8
		}
		return string(raw), nil

	case KindArray:
		if t.Elem == nil {
			return nil, fmt.Errorf("%w: array without element type", ErrUnknownType)
		}
		// Every element owns at least one head word; reject counts the
		// remaining data cannot hold before allocating.
		if n > (len(d.data)-start)/WordSize {
			return nil, fmt.Errorf("%w: %d elements declared at offset %d", ErrTruncatedData, n, pos)
		}
		elems := make([]any, n)
		for i := range elems {
			v, err := d.value(start, i, *t.Elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = v
		}
		return elems, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

// size interprets a word as an offset or length; it must fit inside the blob.
func (d *decoder) size(word []byte) (int, error) {
	for _, b := range word[:WordSize-8] {
		if b != 0 {
			return 0, fmt.Errorf("%w: value does not fit in 64 bits", ErrBadOffset)
		}
	}
	v := binary.BigEndian.Uint64(word[WordSize-8:])
	if v > uint64(len(d.data)) {
		return 0, fmt.Errorf("%w: %d exceeds data length %d", ErrBadOffset, v, len(d.data))
	}
	return int(v), nil
}

func decodeStatic(word []byte, t Type) (any, error) {
	switch t.Kind {
	case KindAddress:
		return common.BytesToAddress(word[WordSize-common.AddressLength:]), nil
	case KindUint:
		return new(big.Int).SetBytes(word), nil
	case KindBool:
		for _, b := range word[:WordSize-1] {
			if b != 0 {
				return nil, ErrInvalidBool
			}
		}
		switch word[WordSize-1] {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, ErrInvalidBool
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}
