package method

import (
	"fmt"
	"sort"

	"github.com/Mohsinsiddi/lumen/internal/abi"
)

// Definition is one row of a static method table.
type Definition struct {
	Signature  string
	Inputs     []abi.Parameter
	Outputs    []abi.Parameter
	Mutability Mutability
}

// Contract groups the definitions of one contract kind.
type Contract struct {
	ID          string // machine key, e.g. "chapter", "erc20"
	Name        string // human label
	Description string
	Methods     []Definition
}

// Registry is a read-only index of methods by signature and selector. It is
// fully built by NewRegistry and never mutated afterwards, so it is safe for
// concurrent use.
type Registry struct {
	bySig      map[string]*Method
	bySelector map[Selector]*Method
	byName     map[string][]*Method
	byContract map[string][]*Method
	contracts  []Contract
}

// NewRegistry builds a registry from contract tables. Selectors are derived
// from the canonical signature; a definition whose inputs disagree with its
// signature, or whose signature or selector is already taken, is rejected.
func NewRegistry(contracts ...Contract) (*Registry, error) {
	r := &Registry{
		bySig:      make(map[string]*Method),
		bySelector: make(map[Selector]*Method),
		byName:     make(map[string][]*Method),
		byContract: make(map[string][]*Method),
	}
	for _, c := range contracts {
		for _, d := range c.Methods {
			m, err := r.register(d)
			if err != nil {
				return nil, fmt.Errorf("contract %s: %w", c.ID, err)
			}
			r.byContract[c.ID] = append(r.byContract[c.ID], m)
		}
		r.contracts = append(r.contracts, c)
	}
	return r, nil
}

// Default builds the registry of every built-in contract table.
func Default() (*Registry, error) {
	return NewRegistry(Builtins()...)
}

func (r *Registry) register(d Definition) (*Method, error) {
	name, types, err := ParseSignature(d.Signature)
	if err != nil {
		return nil, err
	}
	if len(types) != len(d.Inputs) {
		return nil, fmt.Errorf("%w: %s declares %d inputs, signature has %d", ErrSignatureMismatch, d.Signature, len(d.Inputs), len(types))
	}
	for i, t := range types {
		if !t.Equal(d.Inputs[i].Type) {
			return nil, fmt.Errorf("%w: %s input %d is %s", ErrSignatureMismatch, d.Signature, i, d.Inputs[i].Type)
		}
	}
	switch d.Mutability {
	case View, NonPayable:
	default:
		return nil, fmt.Errorf("%s: unsupported mutability %q", d.Signature, d.Mutability)
	}

	sig := CanonicalSignature(name, types)
	if _, ok := r.bySig[sig]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, sig)
	}
	sel := SelectorOf(sig)
	if prev, ok := r.bySelector[sel]; ok {
		return nil, fmt.Errorf("%w: selector %s of %s collides with %s", ErrDuplicate, sel, sig, prev.Signature)
	}

	m := &Method{
		Name:       name,
		Signature:  sig,
		Selector:   sel,
		Inputs:     append([]abi.Parameter(nil), d.Inputs...),
		Outputs:    append([]abi.Parameter(nil), d.Outputs...),
		Mutability: d.Mutability,
	}
	r.bySig[sig] = m
	r.bySelector[sel] = m
	r.byName[name] = append(r.byName[name], m)
	return m, nil
}

// Lookup returns the method for a signature. Non-canonical spellings such as
// "f(uint)" resolve to their canonical form.
func (r *Registry) Lookup(signature string) (*Method, error) {
	if m, ok := r.bySig[signature]; ok {
		return m, nil
	}
	if name, types, err := ParseSignature(signature); err == nil {
		if m, ok := r.bySig[CanonicalSignature(name, types)]; ok {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, signature)
}

// LookupSelector returns the method registered under sel.
func (r *Registry) LookupSelector(sel Selector) (*Method, error) {
	m, ok := r.bySelector[sel]
	if !ok {
		return nil, fmt.Errorf("%w: selector %s", ErrUnknownMethod, sel)
	}
	return m, nil
}

// Resolve accepts either a full signature or a bare method name. A bare name
// must be unambiguous.
func (r *Registry) Resolve(nameOrSig string) (*Method, error) {
	if m, err := r.Lookup(nameOrSig); err == nil {
		return m, nil
	}
	ms := r.byName[nameOrSig]
	switch len(ms) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, nameOrSig)
	case 1:
		return ms[0], nil
	}
	return nil, fmt.Errorf("%w: %s is overloaded, use a full signature", ErrUnknownMethod, nameOrSig)
}

// ForContract returns the methods of a contract kind in table order.
func (r *Registry) ForContract(id string) []*Method {
	return r.byContract[id]
}

// Contracts returns the registered contract tables.
func (r *Registry) Contracts() []Contract {
	return r.contracts
}

// All returns every method sorted by signature.
func (r *Registry) All() []*Method {
	out := make([]*Method, 0, len(r.bySig))
	for _, m := range r.bySig {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature < out[j].Signature })
	return out
}

// Len returns the number of registered methods.
func (r *Registry) Len() int { return len(r.bySig) }
