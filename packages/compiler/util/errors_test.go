package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failing(fn func()) (err error) {
	defer RecoverCompileError(&err)
	fn()
	return nil
}

func TestCompileErrorMessage(t *testing.T) {
	file := NewParseSourceFile("<div>\n  <b [x]=\"y\"></b>\n</div>", "cmp.html")
	span := SpanOf(file, 9, 16)

	cases := []struct {
		name string
		err  *CompileError
		want string
	}{
		{"bare", &CompileError{Msg: "boom"}, "boom"},
		{"internal", &CompileError{Msg: "boom", Internal: true}, "Internal Error: boom"},
		{"source span", &CompileError{Msg: "boom", Span: span}, "boom (cmp.html@1:3)"},
		{"expression span", &CompileError{Msg: "boom", Expr: &ExprSpan{Start: 4, End: 6}}, "boom at column 4"},
		{"both", &CompileError{Msg: "boom", Span: span, Expr: &ExprSpan{Start: 4, End: 6}}, "boom at column 4 (cmp.html@1:3)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestLocate(t *testing.T) {
	span := SpanOf(NewParseSourceFile("abc", "a.html"), 1, 2)
	other := SpanOf(NewParseSourceFile("xyz", "b.html"), 0, 1)

	t.Run("attaches spans", func(t *testing.T) {
		err := failing(func() {
			defer Locate(span)
			defer LocateExpr(&ExprSpan{Start: 2, End: 3})
			FailExpr(nil, "bad")
		})
		var ce *CompileError
		require.ErrorAs(t, err, &ce)
		assert.Same(t, span, ce.Span)
		assert.Equal(t, &ExprSpan{Start: 2, End: 3}, ce.Expr)
	})

	t.Run("innermost span wins", func(t *testing.T) {
		err := failing(func() {
			defer Locate(other)
			defer Locate(span)
			Fail(nil, "bad")
		})
		var ce *CompileError
		require.ErrorAs(t, err, &ce)
		assert.Same(t, span, ce.Span)
	})

	t.Run("internal errors are left alone", func(t *testing.T) {
		err := failing(func() {
			defer Locate(span)
			Illegal("bad")
		})
		var ce *CompileError
		require.ErrorAs(t, err, &ce)
		assert.Nil(t, ce.Span)
	})

	t.Run("other panics propagate", func(t *testing.T) {
		assert.PanicsWithValue(t, "boom", func() {
			defer Locate(span)
			panic("boom")
		})
	})

	t.Run("no panic", func(t *testing.T) {
		assert.NoError(t, failing(func() {
			defer Locate(span)
		}))
	})
}
