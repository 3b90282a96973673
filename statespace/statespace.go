// Package statespace turns a symbolic discrete-time state-space model into a
// generated Rust function that builds the equivalent numeric valib
// StateSpace value, with shared subexpressions factored out.
package statespace

import (
	"fmt"

	"github.com/askern/ssgen/cse"
	"github.com/askern/ssgen/expr"
	"github.com/askern/ssgen/rustbe"
)

// Imports are the use declarations every generated state-space function
// needs.
var Imports = []string{
	"nalgebra::SMatrix",
	"valib::Scalar",
	"valib::filters::statespace::StateSpace",
}

// Model is a discrete-time linear system x' = Ax + Bu, y = Cx + Du whose
// matrix entries are symbolic expressions over free parameters. It is
// produced once by the modeling front end and only read here.
type Model struct {
	A, B, C, D *expr.Matrix

	States  int // state count, rows/cols of A
	Inputs  int // input count, cols of B and D
	Outputs int // output count, rows of C and D
}

// DimensionMismatchError reports a matrix whose shape disagrees with the
// model's declared dimensions.
type DimensionMismatchError struct {
	Matrix             string
	WantRows, WantCols int
	GotRows, GotCols   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("state-space matrix %s is %dx%d, want %dx%d",
		e.Matrix, e.GotRows, e.GotCols, e.WantRows, e.WantCols)
}

// Validate checks every matrix shape against the declared dimensions. It runs
// before any rendering; an inconsistent model never produces text.
func (m *Model) Validate() error {
	checks := []struct {
		name       string
		mat        *expr.Matrix
		rows, cols int
	}{
		{"A", m.A, m.States, m.States},
		{"B", m.B, m.States, m.Inputs},
		{"C", m.C, m.Outputs, m.States},
		{"D", m.D, m.Outputs, m.Inputs},
	}
	for _, c := range checks {
		if c.mat.Rows != c.rows || c.mat.Cols != c.cols {
			return &DimensionMismatchError{
				Matrix:   c.name,
				WantRows: c.rows, WantCols: c.cols,
				GotRows: c.mat.Rows, GotCols: c.mat.Cols,
			}
		}
	}
	return nil
}

// Render emits the function body: one let binding per factored subexpression,
// then the StateSpace construction call over the four matrices.
func (m *Model) Render(p *rustbe.Printer) ([]string, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	bindings, results := cse.Factor([]expr.Expr{m.A, m.B, m.C, m.D})

	var lines []string
	for _, b := range bindings {
		s, err := p.Print(b.Value)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("let %s = %s;", b.Name, s))
	}

	lines = append(lines, fmt.Sprintf("StateSpace::<_, %d, %d, %d>::new(", m.Inputs, m.States, m.Outputs))
	for _, r := range results {
		s, err := p.Print(r)
		if err != nil {
			return nil, err
		}
		lines = append(lines, "    "+s+",")
	}
	lines = append(lines, ")")
	return lines, nil
}

// AsFunction wraps the model in a generated function. Every free symbol of
// the four matrices becomes one scalar parameter; parameters are sorted by
// name so repeated runs emit identical signatures. The returned use paths are
// the imports the function's signature and body rely on.
func (m *Model) AsFunction(name string, vis rustbe.Visibility) (*rustbe.Function, []string, error) {
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}

	symbols := expr.FreeSymbols(m.A, m.B, m.C, m.D)
	params := make([]rustbe.Param, len(symbols))
	for i, s := range symbols {
		params[i] = rustbe.Param{Name: s, Type: "T"}
	}

	fn := &rustbe.Function{
		Name:       name,
		Params:     params,
		TypeParams: []rustbe.TypeParam{{Name: "T", Bound: "Scalar"}},
		ReturnType: fmt.Sprintf("StateSpace<T, %d, %d, %d>", m.Inputs, m.States, m.Outputs),
		Visibility: vis,
		Body:       m,
	}
	return fn, Imports, nil
}

// AsSourceFile wraps AsFunction in a SourceFile carrying the required use
// declarations.
func (m *Model) AsSourceFile(name string, vis rustbe.Visibility) (*rustbe.SourceFile, error) {
	fn, uses, err := m.AsFunction(name, vis)
	if err != nil {
		return nil, err
	}
	sf := rustbe.NewSourceFile()
	for _, u := range uses {
		sf.AddUse(u)
	}
	if err := sf.AddFunction(fn); err != nil {
		return nil, err
	}
	return sf, nil
}
