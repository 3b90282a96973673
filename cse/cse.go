// Package cse implements common subexpression elimination over symbolic
// expressions: compound subtrees that occur more than once across a set of
// expressions are hoisted into named intermediate bindings so that generated
// code evaluates each of them exactly once.
package cse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/askern/ssgen/expr"
)

// Binding pairs a generated local variable name with the subexpression it
// holds. Bindings reference earlier bindings only, never later ones.
type Binding struct {
	Name  string
	Value expr.Expr
}

// Factor hoists every compound subtree that occurs two or more times
// (by structural equality) across exprs into exactly one Binding, and returns
// the input expressions rewritten to reference the bound names. Atoms are
// never hoisted. Bindings come back in dependency order: the value of each
// binding may reference only bindings before it. Substituting the bindings
// back into the results, last to first, reproduces the inputs exactly.
func Factor(exprs []expr.Expr) ([]Binding, []expr.Expr) {
	f := &factorer{
		counts: make(map[string]int),
		repr:   make(map[string]expr.Expr),
		names:  make(map[string]string),
	}
	for _, e := range exprs {
		f.count(e)
	}

	var bindings []Binding
	for _, k := range f.order {
		if f.counts[k] < 2 {
			continue
		}
		f.names[k] = "x" + strconv.Itoa(len(f.names))
	}
	for _, k := range f.order {
		name, ok := f.names[k]
		if !ok {
			continue
		}
		bindings = append(bindings, Binding{Name: name, Value: f.rebuild(f.repr[k])})
	}

	results := make([]expr.Expr, len(exprs))
	for i, e := range exprs {
		results[i] = f.rewrite(e)
	}
	return bindings, results
}

type factorer struct {
	counts map[string]int
	repr   map[string]expr.Expr
	names  map[string]string
	order  []string // structural keys in post-order of first occurrence
}

// count walks e post-order, tallying occurrences of every compound subtree.
// Post-order guarantees that a subtree's key is recorded before any tree
// containing it, which makes the eventual binding order topological.
func (f *factorer) count(e expr.Expr) {
	kids := expr.Children(e)
	if len(kids) == 0 {
		return
	}
	for _, c := range kids {
		f.count(c)
	}
	k := key(e)
	f.counts[k]++
	if f.counts[k] == 1 {
		f.repr[k] = e
		f.order = append(f.order, k)
	}
}

// rewrite replaces e itself, or any hoisted subtree within it, by the bound
// symbol.
func (f *factorer) rewrite(e expr.Expr) expr.Expr {
	if len(expr.Children(e)) == 0 {
		return e
	}
	if name, ok := f.names[key(e)]; ok {
		return expr.Sym(name)
	}
	return f.rebuild(e)
}

// rebuild rewrites the children of e without replacing e itself; it produces
// the right-hand side of e's own binding.
func (f *factorer) rebuild(e expr.Expr) expr.Expr {
	kids := expr.Children(e)
	if len(kids) == 0 {
		return e
	}
	out := make([]expr.Expr, len(kids))
	for i, c := range kids {
		out[i] = f.rewrite(c)
	}
	return expr.WithChildren(e, out)
}

// key returns a canonical encoding of e's structure. Two subtrees share a key
// exactly when expr.Equal holds between them.
func key(e expr.Expr) string {
	var sb strings.Builder
	writeKey(&sb, e)
	return sb.String()
}

func writeKey(sb *strings.Builder, e expr.Expr) {
	switch n := e.(type) {
	case *expr.Zero:
		sb.WriteString("0")
	case *expr.Integer:
		fmt.Fprintf(sb, "i%d", n.Value)
	case *expr.Rational:
		fmt.Fprintf(sb, "r%d/%d", n.P, n.Q)
	case *expr.Float:
		fmt.Fprintf(sb, "f%x", n.Value)
	case *expr.Symbol:
		fmt.Fprintf(sb, "s%q", n.Name)
	case *expr.Pi:
		sb.WriteString("pi")
	case *expr.E:
		sb.WriteString("e")
	case *expr.Matrix:
		fmt.Fprintf(sb, "(m%dx%d", n.Rows, n.Cols)
		writeKeyChildren(sb, n.Elems)
	case *expr.Add:
		sb.WriteString("(+")
		writeKeyChildren(sb, n.Terms)
	case *expr.Mul:
		sb.WriteString("(*")
		writeKeyChildren(sb, n.Factors)
	case *expr.Pow:
		sb.WriteString("(^")
		writeKeyChildren(sb, []expr.Expr{n.Base, n.Exp})
	default:
		fmt.Fprintf(sb, "?%T", e)
	}
}

func writeKeyChildren(sb *strings.Builder, kids []expr.Expr) {
	for _, c := range kids {
		sb.WriteByte(' ')
		writeKey(sb, c)
	}
	sb.WriteByte(')')
}
