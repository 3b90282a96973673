// Package rustbe renders symbolic expressions and generated functions as Rust
// source text targeting valib's generic scalar type. Output is deterministic:
// the same inputs always produce byte-identical text.
package rustbe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/askern/ssgen/expr"
)

// Printer converts a single expression into Rust text. Every render operation
// takes its Printer explicitly; there is no package-level default instance.
type Printer struct{}

// NewPrinter returns a Printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Print returns the Rust text for e, with the vectorize pass already applied.
// Numeric literals are never emitted bare: the scalar type T is generic, so
// every literal is wrapped in an explicit T::from_f64 construction. An
// expression kind with no printing rule yields *UnsupportedExpressionError.
func (p *Printer) Print(e expr.Expr) (string, error) {
	s, err := p.print(e, precAdd)
	if err != nil {
		return "", err
	}
	return Vectorize(s), nil
}

// Operator precedence levels, loosest first. A subexpression is parenthesized
// when its own level is below the level its context requires.
const (
	precAdd = iota + 1
	precMul
	precAtom
)

func (p *Printer) print(e expr.Expr, min int) (string, error) {
	s, prec, err := p.printPrec(e)
	if err != nil {
		return "", err
	}
	if prec < min {
		return "(" + s + ")", nil
	}
	return s, nil
}

func (p *Printer) printPrec(e expr.Expr) (string, int, error) {
	switch n := e.(type) {
	case *expr.Zero:
		return "T::from_f64(0f64)", precAtom, nil
	case *expr.Pi:
		return "T::simd_pi()", precAtom, nil
	case *expr.E:
		return "T::simd_e()", precAtom, nil
	case *expr.Symbol:
		return n.Name, precAtom, nil
	case *expr.Integer:
		return fmt.Sprintf("T::from_f64(%df64)", n.Value), precAtom, nil
	case *expr.Float:
		return "T::from_f64(" + formatFloat(n.Value) + ")", precAtom, nil
	case *expr.Rational:
		if n.P == 1 {
			// Reciprocal construction avoids an explicit division.
			return fmt.Sprintf("T::from_f64(%df64).recip()", n.Q), precAtom, nil
		}
		s := fmt.Sprintf("T::from_f64(%df64) / T::from_f64(%df64)", n.P, n.Q)
		return s, precMul, nil
	case *expr.Add:
		return p.printAdd(n)
	case *expr.Mul:
		return p.printMul(n)
	case *expr.Pow:
		return p.printPow(n)
	case *expr.Matrix:
		return p.printMatrix(n)
	default:
		return "", 0, &UnsupportedExpressionError{Kind: kindName(e)}
	}
}

func (p *Printer) printAdd(n *expr.Add) (string, int, error) {
	var sb strings.Builder
	for i, t := range n.Terms {
		s, err := p.print(t, precAdd)
		if err != nil {
			return "", 0, err
		}
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String(), precAdd, nil
}

func (p *Printer) printMul(n *expr.Mul) (string, int, error) {
	factors := n.Factors
	neg := false
	if len(factors) > 1 {
		if lead, ok := factors[0].(*expr.Integer); ok && lead.Value == -1 {
			neg = true
			factors = factors[1:]
		}
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		s, err := p.print(f, precMul)
		if err != nil {
			return "", 0, err
		}
		parts[i] = s
	}
	s := strings.Join(parts, "*")
	if neg {
		// The leading sign binds loosely, so report Add-level precedence.
		return "-" + s, precAdd, nil
	}
	return s, precMul, nil
}

func (p *Printer) printPow(n *expr.Pow) (string, int, error) {
	base, err := p.print(n.Base, precAtom)
	if err != nil {
		return "", 0, err
	}
	if e, ok := n.Exp.(*expr.Integer); ok {
		if e.Value == -1 {
			return base + ".recip()", precAtom, nil
		}
		return base + ".powi(" + strconv.FormatInt(e.Value, 10) + ")", precAtom, nil
	}
	exp, err := p.print(n.Exp, precAdd)
	if err != nil {
		return "", 0, err
	}
	return base + ".powf(" + exp + ")", precAtom, nil
}

func (p *Printer) printMatrix(n *expr.Matrix) (string, int, error) {
	elems := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		s, err := p.print(e, precAdd)
		if err != nil {
			return "", 0, err
		}
		elems[i] = s
	}
	s := fmt.Sprintf("SMatrix::<_, %d, %d>::new(%s)", n.Rows, n.Cols, strings.Join(elems, ", "))
	return s, precAtom, nil
}

// formatFloat renders v so that the Rust literal is unambiguously floating:
// shortest representation, with a forced ".0" when that representation has
// neither a point nor an exponent.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func kindName(e expr.Expr) string {
	if e == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", e)
}

// Vectorize rewrites the generic scalar method names the printer emits into
// their SIMD intrinsic equivalents. The printer cannot emit these directly:
// the generic scalar T may stand for a SIMD lane, and only the intrinsic
// forms are defined on it. Idempotent, and applied by Print to every printed
// expression before it reaches a code unit.
func Vectorize(s string) string {
	s = strings.ReplaceAll(s, ".recip(", ".simd_recip(")
	s = strings.ReplaceAll(s, ".powi(", ".simd_powf(")
	return strings.ReplaceAll(s, ".powf(", ".simd_powf(")
}
