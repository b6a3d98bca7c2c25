package chapter

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Interval units, in seconds.
const (
	Week  = 604800
	Month = 2592000
)

// Parse errors.
var (
	ErrInvalidInterval = errors.New("invalid fee interval")
	ErrInvalidAmount   = errors.New("invalid amount")
)

var (
	weeksRe  = regexp.MustCompile(`(?i)^(\d+)\s*weeks?$`)
	monthsRe = regexp.MustCompile(`(?i)^(\d+)\s*months?$`)
)

// ParseInterval reads a fee interval: "2 weeks", "1 month" or plain seconds.
func ParseInterval(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	unit := uint64(1)
	num := s
	if m := weeksRe.FindStringSubmatch(s); m != nil {
		unit, num = Week, m[1]
	} else if m := monthsRe.FindStringSubmatch(s); m != nil {
		unit, num = Month, m[1]
	}
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInterval, s)
	}
	if n > ^uint64(0)/unit {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidInterval, s)
	}
	return n * unit, nil
}

// ParseAmount converts a decimal amount such as "2" or "0.015" into base
// units of a token with the given decimals. Extra fractional digits are an
// error, not rounded.
func ParseAmount(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if !digits(whole) || (frac != "" && !digits(frac)) || s == "." || s == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	frac = strings.TrimRight(frac, "0")
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	n, ok := new(big.Int).SetString(whole+frac+strings.Repeat("0", int(decimals)-len(frac)), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return n, nil
}

// FormatUnits renders base units as a decimal with trailing zeros trimmed.
func FormatUnits(n *big.Int, decimals uint8) string {
	if n == nil {
		return "0"
	}
	neg := n.Sign() < 0
	s := new(big.Int).Abs(n).String()
	if d := int(decimals); d > 0 {
		if len(s) <= d {
			s = strings.Repeat("0", d-len(s)+1) + s
		}
		whole, frac := s[:len(s)-d], strings.TrimRight(s[len(s)-d:], "0")
		s = whole
		if frac != "" {
			s += "." + frac
		}
	}
	if neg {
		s = "-" + s
	}
	return s
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
