package cse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askern/ssgen/expr"
)

// sum builds a fresh a+b tree each call so tests exercise structural rather
// than pointer equality.
func sum() expr.Expr {
	return expr.NewAdd(expr.Sym("a"), expr.Sym("b"))
}

func TestNoDuplicatesNoBindings(t *testing.T) {
	inputs := []expr.Expr{
		expr.NewAdd(expr.Sym("a"), expr.Sym("b")),
		expr.NewMul(expr.Sym("c"), expr.Sym("d")),
	}
	bindings, results := Factor(inputs)

	assert.Empty(t, bindings)
	require.Len(t, results, 2)
	for i := range inputs {
		assert.True(t, expr.Equal(inputs[i], results[i]))
	}
}

func TestTripleDuplicateHoistedOnce(t *testing.T) {
	inputs := []expr.Expr{
		expr.NewMul(sum(), expr.Sym("c")),
		sum(),
		expr.NewAdd(expr.Sym("d"), sum()),
	}
	bindings, results := Factor(inputs)

	require.Len(t, bindings, 1, "one duplicated subtree must produce exactly one binding")
	assert.Equal(t, "x0", bindings[0].Name)
	assert.True(t, expr.Equal(bindings[0].Value, sum()))

	want := []expr.Expr{
		expr.NewMul(expr.Sym("x0"), expr.Sym("c")),
		expr.Sym("x0"),
		expr.NewAdd(expr.Sym("d"), expr.Sym("x0")),
	}
	require.Len(t, results, len(want))
	for i := range want {
		assert.True(t, expr.Equal(want[i], results[i]), "result %d", i)
	}
}

func TestBackSubstitutionReproducesInputs(t *testing.T) {
	inputs := []expr.Expr{
		expr.NewMul(sum(), sum()),
		expr.NewPow(sum(), expr.Int(2)),
	}
	bindings, results := Factor(inputs)
	require.NotEmpty(t, bindings)

	for i, r := range results {
		restored := r
		for j := len(bindings) - 1; j >= 0; j-- {
			restored = expr.Substitute(restored, bindings[j].Name, bindings[j].Value)
		}
		assert.True(t, expr.Equal(inputs[i], restored), "input %d not reproduced", i)
	}
}

func TestNestedDuplicatesTopologicalOrder(t *testing.T) {
	product := func() expr.Expr { return expr.NewMul(sum(), expr.Sym("c")) }
	inputs := []expr.Expr{product(), product()}

	bindings, results := Factor(inputs)

	// Both a+b and (a+b)*c occur twice; the inner one must be bound first.
	require.Len(t, bindings, 2)
	assert.Equal(t, "x0", bindings[0].Name)
	assert.True(t, expr.Equal(bindings[0].Value, sum()))
	assert.Equal(t, "x1", bindings[1].Name)
	assert.True(t, expr.Equal(bindings[1].Value, expr.NewMul(expr.Sym("x0"), expr.Sym("c"))))

	for _, r := range results {
		assert.True(t, expr.Equal(r, expr.Sym("x1")))
	}
}

func TestAtomsNeverHoisted(t *testing.T) {
	// The symbol a and the literal 2 repeat, but only compound trees qualify.
	inputs := []expr.Expr{
		expr.NewAdd(expr.Sym("a"), expr.Int(2)),
		expr.NewMul(expr.Sym("a"), expr.Int(2)),
	}
	bindings, _ := Factor(inputs)
	assert.Empty(t, bindings)
}

func TestDuplicateAcrossMatrices(t *testing.T) {
	inputs := []expr.Expr{
		expr.NewMatrix(1, 2, sum(), expr.Sym("c")),
		expr.NewMatrix(1, 1, sum()),
	}
	bindings, results := Factor(inputs)

	require.Len(t, bindings, 1)
	assert.True(t, expr.Equal(results[0], expr.NewMatrix(1, 2, expr.Sym("x0"), expr.Sym("c"))))
	assert.True(t, expr.Equal(results[1], expr.NewMatrix(1, 1, expr.Sym("x0"))))
}

func TestDeterministicNames(t *testing.T) {
	build := func() []expr.Expr {
		return []expr.Expr{expr.NewMul(sum(), sum()), sum()}
	}
	b1, r1 := Factor(build())
	b2, r2 := Factor(build())

	require.Equal(t, len(b1), len(b2))
	for i := range b1 {
		assert.Equal(t, b1[i].Name, b2[i].Name)
		assert.True(t, expr.Equal(b1[i].Value, b2[i].Value))
	}
	for i := range r1 {
		assert.True(t, expr.Equal(r1[i], r2[i]))
	}
}
