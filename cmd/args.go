package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/Mohsinsiddi/lumen/internal/abi"
	"github.com/Mohsinsiddi/lumen/internal/method"
	"github.com/ethereum/go-ethereum/common"
)

// contractNames may be given instead of an address.
var contractNames = []string{"factory", "lux", "chapter-mapper", "light-source"}

// spinOut is where spinners draw, keeping stdout clean for piping.
func spinOut() io.Writer { return os.Stderr }

// resolveTarget accepts a hex address or a configured contract name.
func resolveTarget(s string) (common.Address, error) {
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	if slices.Contains(contractNames, s) {
		return cfg.Address(s)
	}
	return common.Address{}, fmt.Errorf("%q is neither an address nor one of %s", s, strings.Join(contractNames, ", "))
}

// normalizeSignature removes parameter names, keeping only types.
// "transfer(address to, uint256 amount)" → "transfer(address,uint256)"
func normalizeSignature(sig string) string {
	open := strings.Index(sig, "(")
	if open < 0 || !strings.HasSuffix(sig, ")") {
		return strings.TrimSpace(sig)
	}
	name := strings.TrimSpace(sig[:open])
	inner := strings.TrimSpace(sig[open+1 : len(sig)-1])
	if inner == "" {
		return name + "()"
	}
	var types []string
	for _, p := range strings.Split(inner, ",") {
		if f := strings.Fields(p); len(f) > 0 {
			types = append(types, f[0])
		}
	}
	return name + "(" + strings.Join(types, ",") + ")"
}

// resolveMethod finds a registered method by name or signature. A signature
// the registry does not know becomes an ad-hoc method with the given
// mutability and the comma-separated returns types.
func resolveMethod(reg *method.Registry, s, returns string, mut method.Mutability) (*method.Method, error) {
	sig := normalizeSignature(s)
	m, err := reg.Resolve(sig)
	if err == nil {
		return m, nil
	}
	if !strings.Contains(sig, "(") {
		return nil, fmt.Errorf("%w (pass a full signature such as name(address))", err)
	}
	name, in, err := method.ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	var out []abi.Type
	if returns != "" {
		if _, out, err = method.ParseSignature(normalizeSignature("returns(" + returns + ")")); err != nil {
			return nil, fmt.Errorf("--returns: %w", err)
		}
	}
	canonical := method.CanonicalSignature(name, in)
	return &method.Method{
		Name:       name,
		Signature:  canonical,
		Selector:   method.SelectorOf(canonical),
		Inputs:     params(in),
		Outputs:    params(out),
		Mutability: mut,
	}, nil
}

func params(types []abi.Type) []abi.Parameter {
	out := make([]abi.Parameter, len(types))
	for i, t := range types {
		out[i] = abi.Parameter{Type: t}
	}
	return out
}

// parseArgs converts command-line words into values for m's inputs.
func parseArgs(m *method.Method, words []string) ([]any, error) {
	if len(words) != len(m.Inputs) {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d", m.Signature, len(m.Inputs), len(words))
	}
	out := make([]any, len(words))
	for i, w := range words {
		v, err := abi.ParseArg(w, m.Inputs[i].Type)
		if err != nil {
			label := m.Inputs[i].Name
			if label == "" {
				label = m.Inputs[i].Type.String()
			}
			return nil, fmt.Errorf("argument %d (%s): %w", i+1, label, err)
		}
		out[i] = v
	}
	return out, nil
}

// resultPairs labels decoded outputs by their parameter names.
func resultPairs(m *method.Method, values []any) [][2]string {
	pairs := make([][2]string, len(values))
	for i, v := range values {
		label := "Result"
		switch {
		case i < len(m.Outputs) && m.Outputs[i].Name != "":
			label = m.Outputs[i].Name
		case len(values) > 1:
			label = fmt.Sprintf("Result[%d]", i)
		}
		pairs[i] = [2]string{label, abi.Format(v)}
	}
	return pairs
}
