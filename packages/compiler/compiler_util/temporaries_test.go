package compiler_util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/util"
)

func catchCompileError(fn func()) (err error) {
	defer util.RecoverCompileError(&err)
	fn()
	return nil
}

func TestTemporaryStack(t *testing.T) {
	s := NewTemporaryStack("7")
	t0 := s.Allocate()
	t1 := s.Allocate()
	assert.Equal(t, "tmp_7_0", t0.Name())
	assert.Equal(t, "tmp_7_1", t1.Name())
	assert.Equal(t, 2, s.Depth())

	s.Release(t1)
	t1b := s.Allocate()
	assert.Equal(t, "tmp_7_1", t1b.Name(), "slots are reused after release")
	s.Release(t1b)
	s.Release(t0)

	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, "var tmp_7_0;\nvar tmp_7_1;", output.EmitStatements(s.Declarations()))
}

func TestTemporaryStackOutOfOrderRelease(t *testing.T) {
	s := NewTemporaryStack("0")
	t0 := s.Allocate()
	s.Allocate()

	err := catchCompileError(func() { s.Release(t0) })
	require.Error(t, err)
	assert.True(t, util.IsInternal(err))
	assert.Contains(t, err.Error(), "Temporary tmp_0_0 released out of order")
}

func TestTemporaryStackRejectsForeignAndDoubleRelease(t *testing.T) {
	a := NewTemporaryStack("a")
	b := NewTemporaryStack("b")
	ta := a.Allocate()

	err := catchCompileError(func() { b.Release(ta) })
	var ce *util.CompileError
	require.True(t, errors.As(err, &ce))

	a.Release(ta)
	err = catchCompileError(func() { a.Release(ta) })
	require.Error(t, err)

	err = catchCompileError(func() { ta.Expr() })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "used after release")
}
