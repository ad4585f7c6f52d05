package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/util"
)

type declaration struct {
	lhs, rhs string
}

func recordingScope(parent *BindingScope, decls *[]declaration) *BindingScope {
	return parent.NestedScope(func(lhs *output.ReadVarExpr, rhs output.OutputExpression) {
		*decls = append(*decls, declaration{lhs.Name, output.EmitExpression(rhs)})
	})
}

func TestRootBindingScope(t *testing.T) {
	root := RootBindingScope()
	event := root.Get("$event")
	require.NotNil(t, event)
	assert.Equal(t, "$event", output.EmitExpression(event))
	assert.Nil(t, root.Get("missing"))
}

func TestBindingScopeDeclaresOnFirstUse(t *testing.T) {
	var outer, inner []declaration
	unit := recordingScope(RootBindingScope(), &outer)
	unit.Set("item", output.Variable("item_r0"), output.Prop(output.Variable("ctx0"), "$implicit"))

	nested := recordingScope(unit, &inner)
	assert.Equal(t, "item_r0", output.EmitExpression(nested.Get("item")))
	assert.Equal(t, "item_r0", output.EmitExpression(nested.Get("item")))
	assert.Equal(t, []declaration{{"item_r0", "ctx0.$implicit"}}, inner)
	assert.Empty(t, outer, "the declaring scope is the one that read the name")

	unit.Get("item")
	assert.Equal(t, []declaration{{"item_r0", "ctx0.$implicit"}}, outer)
}

func TestBindingScopeOwnedEntry(t *testing.T) {
	var outer, inner []declaration
	unit := recordingScope(RootBindingScope(), &outer)
	unit.SetOwned("box", output.Variable("_r0"), output.Variable("load(1)"))

	unused := recordingScope(RootBindingScope(), &inner)
	unused.SetOwned("box", output.Variable("_r0"), output.Variable("load(1)"))
	assert.Empty(t, inner, "unread entries are never declared")

	nested := recordingScope(unit, &inner)
	assert.Equal(t, "_r0", output.EmitExpression(nested.Get("box")))
	assert.Equal(t, "_r0", output.EmitExpression(unit.Get("box")))
	assert.Equal(t, "_r0", output.EmitExpression(recordingScope(unit, &inner).Get("box")))
	assert.Equal(t, []declaration{{"_r0", "load(1)"}}, outer)
	assert.Empty(t, inner, "nested scopes reuse the owner's declaration")
}

func TestBindingScopeWithoutValue(t *testing.T) {
	var decls []declaration
	unit := recordingScope(RootBindingScope(), &decls)
	unit.Set("name", output.Variable("_r0"), nil)

	nested := recordingScope(unit, &decls)
	assert.Equal(t, "_r0", output.EmitExpression(nested.Get("name")))
	assert.Empty(t, decls)
}

func TestBindingScopeShadowing(t *testing.T) {
	unit := RootBindingScope().NestedScope(nil)
	unit.Set("a", output.Variable("a_r0"), output.Prop(output.Variable("ctx"), "a"))
	child := unit.NestedScope(nil)
	child.Set("a", output.Variable("a_r1"), output.Prop(output.Variable("ctx0"), "a"))

	assert.Equal(t, "a_r1", output.EmitExpression(child.Get("a")))
	assert.Equal(t, "a_r0", output.EmitExpression(unit.Get("a")))
}

func TestBindingScopeDuplicateName(t *testing.T) {
	scope := RootBindingScope().NestedScope(nil)
	scope.Set("a", output.Variable("_r0"), nil)

	err := func() (err error) {
		defer util.RecoverCompileError(&err)
		scope.Set("a", output.Variable("_r1"), nil)
		return nil
	}()
	require.Error(t, err)
	assert.Equal(t, "The name a is already defined in scope to be _r0", err.Error())
	assert.False(t, util.IsInternal(err))
}

func TestFreshReferenceName(t *testing.T) {
	root := RootBindingScope()
	nested := root.NestedScope(nil).NestedScope(nil)
	assert.Equal(t, "_r0", root.FreshReferenceName())
	assert.Equal(t, "_r1", nested.FreshReferenceName())
	assert.Equal(t, "_r2", root.FreshReferenceName())

	assert.Equal(t, "_r0", RootBindingScope().FreshReferenceName(), "each root starts its own numbering")
}
