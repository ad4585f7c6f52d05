package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-lower/packages/compiler/output"
	constant "ngc-lower/packages/compiler/pool"
	"ngc-lower/packages/compiler/render3"
	"ngc-lower/packages/compiler/util"
)

func emitPredicate(t *testing.T, predicate interface{}) (string, *constant.ConstantPool) {
	t.Helper()
	pool := constant.NewConstantPool()
	expr := GetQueryPredicate(R3QueryMetadata{PropertyName: "p", Predicate: predicate}, pool)
	return output.EmitExpression(expr), pool
}

func TestGetQueryPredicate(t *testing.T) {
	got, pool := emitPredicate(t, []string{"a, b", "c"})
	assert.Equal(t, "_c0", got)
	assert.Equal(t, "const _c0 = ['a', 'b', 'c'];", output.EmitStatements(pool.Statements()))

	got, _ = emitPredicate(t, output.Variable("SomeDir"))
	assert.Equal(t, "SomeDir", got)

	got, _ = emitPredicate(t, render3.CreateMaybeForwardRefExpression(output.Variable("SomeDir"), render3.ForwardRefHandlingWrapped))
	assert.Equal(t, "resolveForwardRef(SomeDir)", got)

	got, _ = emitPredicate(t, render3.CreateMaybeForwardRefExpression(output.Variable("SomeDir"), render3.ForwardRefHandlingNone))
	assert.Equal(t, "SomeDir", got)
}

func TestGetQueryPredicateUnsupported(t *testing.T) {
	err := func() (err error) {
		defer util.RecoverCompileError(&err)
		GetQueryPredicate(R3QueryMetadata{PropertyName: "items", Predicate: 42}, constant.NewConstantPool())
		return nil
	}()
	assert.EqualError(t, err, "Unsupported predicate for query items")
}

func TestCreateViewQueriesFunction(t *testing.T) {
	pool := constant.NewConstantPool()
	fn := CreateViewQueriesFunction([]R3QueryMetadata{
		{PropertyName: "dirs", Predicate: output.Variable("SomeDir"), Read: output.Variable("ElementRef")},
		{PropertyName: "ref", First: true, Descendants: true, Predicate: []string{"ref"}},
	}, pool, "Cmp")
	require.Equal(t, "Cmp_Query", fn.Name)

	got := strings.ReplaceAll(output.EmitStatements([]output.OutputStatement{
		fn.ToDeclStmt(fn.Name, output.StmtModifierNone),
	}), "ɵɵ", "")
	assertCode(t, lines(
		"function Cmp_Query(rf, ctx) {",
		"  var _t;",
		"  if (rf & 1) {",
		"    query(0, SomeDir, false, ElementRef);",
		"    query(1, _c0, true);",
		"  }",
		"  if (rf & 2) {",
		"    queryRefresh((_t = load(0))) && (ctx.dirs = _t);",
		"    queryRefresh((_t = load(1))) && (ctx.ref = _t.first);",
		"  }",
		"}",
	), got)

	anonymous := CreateViewQueriesFunction(nil, pool, "")
	assert.Empty(t, anonymous.Name)
}
