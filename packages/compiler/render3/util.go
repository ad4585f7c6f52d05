package render3

import (
	"ngc-lower/packages/compiler/output"
)

// LEGACY_ANIMATE_SYMBOL_PREFIX starts the name of animation bindings
const LEGACY_ANIMATE_SYMBOL_PREFIX = "@"

// MaybeForwardRefExpression describes an expression that may have been wrapped in a forwardRef() guard
type MaybeForwardRefExpression struct {
	// The unwrapped expression
	Expression output.OutputExpression
	// Specified whether the expression contains a reference to something that has not yet been defined
	ForwardRef ForwardRefHandling
}

// CreateMaybeForwardRefExpression creates a MaybeForwardRefExpression
func CreateMaybeForwardRefExpression(expr output.OutputExpression, forwardRef ForwardRefHandling) MaybeForwardRefExpression {
	return MaybeForwardRefExpression{Expression: expr, ForwardRef: forwardRef}
}

// ForwardRefHandling specifies how a forward ref has been handled
type ForwardRefHandling int

const (
	// ForwardRefHandlingNone means the expression was not wrapped in a forwardRef() call
	ForwardRefHandlingNone ForwardRefHandling = iota
	// ForwardRefHandlingWrapped means the expression is still wrapped in a forwardRef() call
	ForwardRefHandlingWrapped
	// ForwardRefHandlingUnwrapped means the expression was wrapped but has since been unwrapped
	ForwardRefHandlingUnwrapped
)
