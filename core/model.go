package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
)

// VarPair is an unordered pair of distinct variables, stored normalized
// with A < B so a coefficient can be looked up in either order.
type VarPair struct {
	A, B Variable
}

// PairOf returns the normalized pair key for a and b.
func PairOf(a, b Variable) (VarPair, error) {
	if a == b {
		return VarPair{}, fmt.Errorf("%w: %s", ErrSelfLoop, a)
	}
	if b.Less(a) {
		a, b = b, a
	}
	return VarPair{A: a, B: b}, nil
}

// Model is a binary quadratic model: a linear bias per variable, a
// quadratic bias per unordered pair of distinct variables, and a constant
// offset. The model only defines the energy landscape; finding its
// minimum is the sampler's job.
type Model struct {
	linear    map[Variable]float64
	quadratic map[VarPair]float64
	offset    float64
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		linear:    make(map[Variable]float64),
		quadratic: make(map[VarPair]float64),
	}
}

// SetLinear declares v and sets its linear bias, replacing any previous
// value. A zero bias still declares the variable.
func (m *Model) SetLinear(v Variable, bias float64) {
	m.linear[v] = bias
}

// AddLinear declares v and adds bias to its linear coefficient.
func (m *Model) AddLinear(v Variable, bias float64) {
	m.linear[v] += bias
}

// Linear returns the linear bias of v, zero if v is not declared.
func (m *Model) Linear(v Variable) float64 {
	return m.linear[v]
}

// HasVariable reports whether v is declared in the model.
func (m *Model) HasVariable(v Variable) bool {
	_, ok := m.linear[v]
	return ok
}

// AddQuadratic adds bias to the coefficient of the unordered pair (a, b),
// declaring both variables if needed. Pairing a variable with itself is
// rejected with ErrSelfLoop.
func (m *Model) AddQuadratic(a, b Variable, bias float64) error {
	key, err := PairOf(a, b)
	if err != nil {
		return err
	}
	if _, ok := m.linear[a]; !ok {
		m.linear[a] = 0
	}
	if _, ok := m.linear[b]; !ok {
		m.linear[b] = 0
	}
	m.quadratic[key] += bias
	return nil
}

// Quadratic returns the coefficient of the pair (a, b) in either order,
// zero if no such interaction exists.
func (m *Model) Quadratic(a, b Variable) float64 {
	key, err := PairOf(a, b)
	if err != nil {
		return 0
	}
	return m.quadratic[key]
}

// SetOffset sets the constant energy offset.
func (m *Model) SetOffset(offset float64) { m.offset = offset }

// Offset returns the constant energy offset.
func (m *Model) Offset() float64 { return m.offset }

// Variables returns every declared variable in canonical order.
func (m *Model) Variables() []Variable {
	vars := make([]Variable, 0, len(m.linear))
	for v := range m.linear {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Less(vars[j]) })
	return vars
}

// NumVariables returns the number of declared variables.
func (m *Model) NumVariables() int { return len(m.linear) }

// NumInteractions returns the number of quadratic terms.
func (m *Model) NumInteractions() int { return len(m.quadratic) }

// Pairs returns every interaction pair in canonical order.
func (m *Model) Pairs() []VarPair {
	pairs := make([]VarPair, 0, len(m.quadratic))
	for p := range m.quadratic {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A.Less(pairs[j].A)
		}
		return pairs[i].B.Less(pairs[j].B)
	})
	return pairs
}

// Energy evaluates the model at the given assignment. Every declared
// variable must be assigned, otherwise ErrIncompleteAssignment is
// returned.
func (m *Model) Energy(assignment map[Variable]int8) (float64, error) {
	e := m.offset
	for v, bias := range m.linear {
		val, ok := assignment[v]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrIncompleteAssignment, v)
		}
		if val != 0 {
			e += bias
		}
	}
	for p, bias := range m.quadratic {
		if assignment[p.A] != 0 && assignment[p.B] != 0 {
			e += bias
		}
	}
	return e, nil
}

// Fingerprint returns a stable hex digest of the model, independent of
// construction order. It is used as a cache and deduplication key.
func (m *Model) Fingerprint() string {
	h := sha256.New()
	for _, v := range m.Variables() {
		h.Write([]byte(v.String()))
		h.Write([]byte{'='})
		h.Write([]byte(strconv.FormatFloat(m.linear[v], 'g', -1, 64)))
		h.Write([]byte{';'})
	}
	for _, p := range m.Pairs() {
		h.Write([]byte(p.A.String()))
		h.Write([]byte{' '})
		h.Write([]byte(p.B.String()))
		h.Write([]byte{'='})
		h.Write([]byte(strconv.FormatFloat(m.quadratic[p], 'g', -1, 64)))
		h.Write([]byte{';'})
	}
	h.Write([]byte(strconv.FormatFloat(m.offset, 'g', -1, 64)))
	return hex.EncodeToString(h.Sum(nil))
}
