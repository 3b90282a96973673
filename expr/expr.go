// Package expr defines the symbolic expression tree consumed by the code
// generator. The node set is closed: every kind the generator understands has
// a concrete type here, and anything else is rejected at print time rather
// than silently approximated.
package expr

import (
	"fmt"
	"sort"
)

// Kind identifies a node kind.
type Kind uint8

const (
	KindZero Kind = iota
	KindInteger
	KindRational
	KindFloat
	KindSymbol
	KindPi
	KindE
	KindAdd
	KindMul
	KindPow
	KindMatrix
)

// String returns the node kind name.
func (k Kind) String() string {
	switch k {
	case KindZero:
		return "Zero"
	case KindInteger:
		return "Integer"
	case KindRational:
		return "Rational"
	case KindFloat:
		return "Float"
	case KindSymbol:
		return "Symbol"
	case KindPi:
		return "Pi"
	case KindE:
		return "E"
	case KindAdd:
		return "Add"
	case KindMul:
		return "Mul"
	case KindPow:
		return "Pow"
	case KindMatrix:
		return "Matrix"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Expr is a node in a symbolic expression tree. Expressions are immutable:
// every operation on them returns new values and never modifies its inputs.
type Expr interface {
	Kind() Kind
}

// Zero is the zero literal. Int(0) and Ratio(0, q) normalize to it, so
// structural equality never distinguishes the spellings.
type Zero struct{}

// Integer is a signed integer literal.
type Integer struct {
	Value int64
}

// Rational is an exact fraction. Constructed values are reduced, have a
// positive denominator, and never collapse to an Integer or Zero (Ratio
// takes care of that).
type Rational struct {
	P, Q int64
}

// Float is a floating-point literal.
type Float struct {
	Value float64
}

// Symbol is a named free variable.
type Symbol struct {
	Name string
}

// Pi is the circle constant.
type Pi struct{}

// E is Euler's number.
type E struct{}

// Add is an n-ary sum.
type Add struct {
	Terms []Expr
}

// Mul is an n-ary product.
type Mul struct {
	Factors []Expr
}

// Pow raises Base to Exp.
type Pow struct {
	Base, Exp Expr
}

// Matrix is a fixed-size matrix of expressions in row-major order.
type Matrix struct {
	Rows, Cols int
	Elems      []Expr
}

func (*Zero) Kind() Kind     { return KindZero }
func (*Integer) Kind() Kind  { return KindInteger }
func (*Rational) Kind() Kind { return KindRational }
func (*Float) Kind() Kind    { return KindFloat }
func (*Symbol) Kind() Kind   { return KindSymbol }
func (*Pi) Kind() Kind       { return KindPi }
func (*E) Kind() Kind        { return KindE }
func (*Add) Kind() Kind      { return KindAdd }
func (*Mul) Kind() Kind      { return KindMul }
func (*Pow) Kind() Kind      { return KindPow }
func (*Matrix) Kind() Kind   { return KindMatrix }

// Int returns an integer literal. Int(0) returns the Zero node.
func Int(n int64) Expr {
	if n == 0 {
		return &Zero{}
	}
	return &Integer{Value: n}
}

// Ratio returns the reduced fraction p/q. The result collapses to Zero when
// p == 0 and to an Integer when the reduced denominator is 1. Panics if
// q == 0.
func Ratio(p, q int64) Expr {
	if q == 0 {
		panic("expr: zero denominator")
	}
	if p == 0 {
		return &Zero{}
	}
	if q < 0 {
		p, q = -p, -q
	}
	g := gcd(p, q)
	p, q = p/g, q/g
	if q == 1 {
		return Int(p)
	}
	return &Rational{P: p, Q: q}
}

// Num returns a floating-point literal.
func Num(v float64) Expr {
	return &Float{Value: v}
}

// Sym returns a named symbol.
func Sym(name string) *Symbol {
	return &Symbol{Name: name}
}

// NewAdd returns the sum of terms. An empty sum is Zero; a single term is
// returned unchanged.
func NewAdd(terms ...Expr) Expr {
	switch len(terms) {
	case 0:
		return &Zero{}
	case 1:
		return terms[0]
	}
	return &Add{Terms: terms}
}

// NewMul returns the product of factors. An empty product is the integer 1;
// a single factor is returned unchanged.
func NewMul(factors ...Expr) Expr {
	switch len(factors) {
	case 0:
		return Int(1)
	case 1:
		return factors[0]
	}
	return &Mul{Factors: factors}
}

// NewPow returns base raised to exp.
func NewPow(base, exp Expr) Expr {
	return &Pow{Base: base, Exp: exp}
}

// NewMatrix returns a rows×cols matrix over elems, given in row-major order.
// Panics if the element count does not match the shape.
func NewMatrix(rows, cols int, elems ...Expr) *Matrix {
	if len(elems) != rows*cols {
		panic(fmt.Sprintf("expr: matrix shape %dx%d needs %d elements, got %d", rows, cols, rows*cols, len(elems)))
	}
	return &Matrix{Rows: rows, Cols: cols, Elems: elems}
}

// At returns the element at row r, column c.
func (m *Matrix) At(r, c int) Expr {
	return m.Elems[r*m.Cols+c]
}

// Neg returns -e, expressed as (-1)*e.
func Neg(e Expr) Expr {
	return NewMul(Int(-1), e)
}

// Sub returns a - b, expressed as a + (-1)*b.
func Sub(a, b Expr) Expr {
	return NewAdd(a, Neg(b))
}

// Div returns a / b, expressed as a * b^-1.
func Div(a, b Expr) Expr {
	return NewMul(a, NewPow(b, Int(-1)))
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Expr) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Zero, *Pi, *E:
		return true
	case *Integer:
		return x.Value == b.(*Integer).Value
	case *Rational:
		y := b.(*Rational)
		return x.P == y.P && x.Q == y.Q
	case *Float:
		return x.Value == b.(*Float).Value
	case *Symbol:
		return x.Name == b.(*Symbol).Name
	case *Pow:
		y := b.(*Pow)
		return Equal(x.Base, y.Base) && Equal(x.Exp, y.Exp)
	case *Matrix:
		y := b.(*Matrix)
		if x.Rows != y.Rows || x.Cols != y.Cols {
			return false
		}
		return equalSlices(x.Elems, y.Elems)
	case *Add:
		return equalSlices(x.Terms, b.(*Add).Terms)
	case *Mul:
		return equalSlices(x.Factors, b.(*Mul).Factors)
	default:
		return false
	}
}

func equalSlices(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Children returns the direct subexpressions of e, or nil for atoms. The
// returned slice must not be modified.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *Add:
		return n.Terms
	case *Mul:
		return n.Factors
	case *Pow:
		return []Expr{n.Base, n.Exp}
	case *Matrix:
		return n.Elems
	default:
		return nil
	}
}

// WithChildren returns a copy of e with its direct subexpressions replaced by
// kids, which must have the same length as Children(e). Atoms are returned
// unchanged.
func WithChildren(e Expr, kids []Expr) Expr {
	switch n := e.(type) {
	case *Add:
		return &Add{Terms: kids}
	case *Mul:
		return &Mul{Factors: kids}
	case *Pow:
		return &Pow{Base: kids[0], Exp: kids[1]}
	case *Matrix:
		return &Matrix{Rows: n.Rows, Cols: n.Cols, Elems: kids}
	default:
		return e
	}
}

// FreeSymbols returns the names of all symbols occurring in exprs, without
// duplicates, sorted lexicographically. The sorted order is what makes
// generated parameter lists reproducible.
func FreeSymbols(exprs ...Expr) []string {
	seen := make(map[string]struct{})
	for _, e := range exprs {
		collectSymbols(e, seen)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(e Expr, into map[string]struct{}) {
	if s, ok := e.(*Symbol); ok {
		into[s.Name] = struct{}{}
		return
	}
	for _, c := range Children(e) {
		collectSymbols(c, into)
	}
}

// Substitute returns e with every occurrence of the named symbol replaced by
// repl.
func Substitute(e Expr, name string, repl Expr) Expr {
	if s, ok := e.(*Symbol); ok {
		if s.Name == name {
			return repl
		}
		return e
	}
	kids := Children(e)
	if len(kids) == 0 {
		return e
	}
	changed := false
	out := make([]Expr, len(kids))
	for i, c := range kids {
		out[i] = Substitute(c, name, repl)
		if out[i] != c {
			changed = true
		}
	}
	if !changed {
		return e
	}
	return WithChildren(e, out)
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
