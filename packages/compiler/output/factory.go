package output

import (
	"ngc-lower/packages/compiler/util"
)

// NullExpr is the null literal
var NullExpr = NewLiteralExpr(nil, nil, nil)

// Variable reads a named variable
func Variable(name string) *ReadVarExpr {
	return NewReadVarExpr(name, nil, nil)
}

// Literal creates a primitive literal
func Literal(value interface{}) *LiteralExpr {
	return NewLiteralExpr(value, nil, nil)
}

// LiteralWithSpan creates a primitive literal carrying a source span
func LiteralWithSpan(value interface{}, span *util.ParseSourceSpan) *LiteralExpr {
	return NewLiteralExpr(value, nil, span)
}

// ImportExpr references an external runtime symbol
func ImportExpr(ref *ExternalReference) *ExternalExpr {
	return NewExternalExpr(ref, nil, nil)
}

// LiteralArr creates an array literal
func LiteralArr(values []OutputExpression) *LiteralArrayExpr {
	return NewLiteralArrayExpr(values, nil, nil)
}

// LiteralMap creates a map literal from ordered entries
func LiteralMap(entries []*LiteralMapEntry) *LiteralMapExpr {
	return NewLiteralMapExpr(entries, nil, nil)
}

// Fn creates an anonymous function literal
func Fn(params []*FnParam, body []OutputStatement, name string) *FunctionExpr {
	return NewFunctionExpr(params, body, nil, nil, name)
}

// Not negates expr
func Not(expr OutputExpression) *NotExpr {
	return NewNotExpr(expr, nil)
}

// Prop reads a property of receiver
func Prop(receiver OutputExpression, name string) *ReadPropExpr {
	return NewReadPropExpr(receiver, name, nil, nil)
}

// Key reads a keyed entry of receiver
func Key(receiver, index OutputExpression) *ReadKeyExpr {
	return NewReadKeyExpr(receiver, index, nil, nil)
}

// CallFn calls fn with args
func CallFn(fn OutputExpression, args []OutputExpression, span *util.ParseSourceSpan) *InvokeFunctionExpr {
	return NewInvokeFunctionExpr(fn, args, nil, span, false)
}

// CallMethod calls method name on receiver with args
func CallMethod(receiver OutputExpression, name string, args []OutputExpression, span *util.ParseSourceSpan) *InvokeFunctionExpr {
	return NewInvokeFunctionExpr(NewReadPropExpr(receiver, name, nil, span), args, nil, span, false)
}

// Binary applies op to lhs and rhs
func Binary(op BinaryOperator, lhs, rhs OutputExpression, span *util.ParseSourceSpan) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(op, lhs, rhs, nil, span)
}

// IsBlank tests expr against null or undefined
func IsBlank(expr OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorEquals, expr, NullExpr, BoolType, nil)
}

// NotIdentical builds lhs !== rhs
func NotIdentical(lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorNotIdentical, lhs, rhs, BoolType, nil)
}

// And builds lhs && rhs
func And(lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorAnd, lhs, rhs, nil, nil)
}

// BitwiseAnd builds lhs & rhs
func BitwiseAnd(lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorBitwiseAnd, lhs, rhs, nil, nil)
}

// Conditional builds condition ? trueCase : falseCase
func Conditional(condition, trueCase, falseCase OutputExpression) *ConditionalExpr {
	return NewConditionalExpr(condition, trueCase, falseCase, nil, nil)
}

// Cast erases the static type of expr
func Cast(expr OutputExpression, span *util.ParseSourceSpan) *CastExpr {
	return NewCastExpr(expr, DynamicType, span)
}

// ToStmt wraps expr in an expression statement
func ToStmt(expr OutputExpression) *ExpressionStatement {
	return NewExpressionStatement(expr, expr.GetSourceSpan())
}

// ToConstDecl declares a final variable initialized to value
func ToConstDecl(name string, value OutputExpression) *DeclareVarStmt {
	return NewDeclareVarStmt(name, value, InferredType, StmtModifierFinal, nil)
}

// If builds an if statement without an else branch
func If(condition OutputExpression, trueCase []OutputStatement) *IfStmt {
	return NewIfStmt(condition, trueCase, nil, nil)
}
