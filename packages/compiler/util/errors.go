package util

import (
	"errors"
	"fmt"
)

// CompileError reports a condition the lowering compiler cannot recover from.
// Internal errors mean an invariant of the compiler itself was broken; the
// others point at a contract violation in the input.
type CompileError struct {
	Msg  string
	Span *ParseSourceSpan
	// Expr locates the failing node within its binding expression.
	Expr     *ExprSpan
	Internal bool
}

// ExprSpan is a character range of a binding expression source
type ExprSpan struct {
	Start int
	End   int
}

// Error implements the error interface
func (e *CompileError) Error() string {
	msg := e.Msg
	if e.Internal {
		msg = "Internal Error: " + msg
	}
	if e.Expr != nil {
		msg = fmt.Sprintf("%s at column %d", msg, e.Expr.Start)
	}
	if e.Span != nil && e.Span.Start != nil {
		return fmt.Sprintf("%s (%s)", msg, e.Span.Start)
	}
	return msg
}

// Fail aborts the current compilation with a CompileError located at span.
func Fail(span *ParseSourceSpan, format string, args ...interface{}) {
	panic(&CompileError{Msg: fmt.Sprintf(format, args...), Span: span})
}

// FailExpr is Fail for a node of a binding expression. The source span of
// the binding is attached later by Locate.
func FailExpr(span *ExprSpan, format string, args ...interface{}) {
	panic(&CompileError{Msg: fmt.Sprintf(format, args...), Expr: span})
}

// Illegal aborts the current compilation because a compiler invariant does not hold.
func Illegal(format string, args ...interface{}) {
	panic(&CompileError{Msg: fmt.Sprintf(format, args...), Internal: true})
}

// RecoverCompileError turns a CompileError panic into a returned error.
// It must be deferred directly. Any other panic is propagated.
func RecoverCompileError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ce, ok := r.(*CompileError); ok {
		*err = ce
		return
	}
	panic(r)
}

// Locate gives a CompileError panic without a source span the span of the
// node being compiled, then lets the panic continue. It must be deferred
// directly.
func Locate(span *ParseSourceSpan) {
	r := recover()
	if r == nil {
		return
	}
	if ce, ok := r.(*CompileError); ok && !ce.Internal && ce.Span == nil {
		ce.Span = span
	}
	panic(r)
}

// LocateExpr is Locate for the expression range of a node.
func LocateExpr(span *ExprSpan) {
	r := recover()
	if r == nil {
		return
	}
	if ce, ok := r.(*CompileError); ok && !ce.Internal && ce.Expr == nil {
		ce.Expr = span
	}
	panic(r)
}

// IsInternal reports whether err is a CompileError raised for a broken invariant.
func IsInternal(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce) && ce.Internal
}
