package abi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AsAddress asserts a decoded address.
func AsAddress(v any) (common.Address, error) {
	a, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("expected address, got %T", v)
	}
	return a, nil
}

// AsUint asserts a decoded uint256.
func AsUint(v any) (*big.Int, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("expected uint256, got %T", v)
	}
	return n, nil
}

// AsBool asserts a decoded bool.
func AsBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %T", v)
	}
	return b, nil
}

// AsString asserts a decoded string.
func AsString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

// AsAddresses asserts a decoded address[].
func AsAddresses(v any) ([]common.Address, error) {
	return asList(v, AsAddress)
}

// AsStrings asserts a decoded string[].
func AsStrings(v any) ([]string, error) {
	return asList(v, AsString)
}

func asList[T any](v any, each func(any) (T, error)) ([]T, error) {
	elems, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	out := make([]T, len(elems))
	for i, e := range elems {
		x, err := each(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = x
	}
	return out, nil
}

// ParseArg converts command-line text into the Go value Encode expects for t.
// Integers accept decimal or 0x-prefixed hex. Arrays accept a JSON array
// (`["a","b"]`, `[1,2]`) or a bare comma-separated list.
func ParseArg(s string, t Type) (any, error) {
	switch t.Kind {
	case KindAddress:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		return common.HexToAddress(s), nil
	case KindUint:
		n, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidInteger, s)
		}
		return n, nil
	case KindBool:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrInvalidBool, s)
	case KindString:
		return s, nil
	case KindArray:
		if t.Elem == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
		}
		parts, err := splitList(s)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(parts))
		for i, p := range parts {
			v, err := ParseArg(p, *t.Elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

func splitList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return nil, nil
	}
	if strings.HasPrefix(s, "[") {
		var raw []json.RawMessage
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
		}
		out := make([]string, len(raw))
		for i, r := range raw {
			var str string
			if err := json.Unmarshal(r, &str); err == nil {
				out[i] = str
				continue
			}
			out[i] = string(r)
		}
		return out, nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// Format renders a decoded value for display.
func Format(v any) string {
	switch x := v.(type) {
	case common.Address:
		return x.Hex()
	case *big.Int:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	case string:
		return x
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Format(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}
