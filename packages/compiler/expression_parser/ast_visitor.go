package expression_parser

// AstVisitor has one method per node kind
type AstVisitor interface {
	VisitBinary(ast *Binary, context interface{}) interface{}
	VisitChain(ast *Chain, context interface{}) interface{}
	VisitConditional(ast *Conditional, context interface{}) interface{}
	VisitFunctionCall(ast *FunctionCall, context interface{}) interface{}
	VisitBuiltinFunctionCall(ast *BuiltinFunctionCall, context interface{}) interface{}
	VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{}
	VisitInterpolation(ast *Interpolation, context interface{}) interface{}
	VisitKeyedRead(ast *KeyedRead, context interface{}) interface{}
	VisitKeyedWrite(ast *KeyedWrite, context interface{}) interface{}
	VisitLiteralArray(ast *LiteralArray, context interface{}) interface{}
	VisitLiteralMap(ast *LiteralMap, context interface{}) interface{}
	VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{}
	VisitMethodCall(ast *MethodCall, context interface{}) interface{}
	VisitPipe(ast *BindingPipe, context interface{}) interface{}
	VisitPrefixNot(ast *PrefixNot, context interface{}) interface{}
	VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{}
	VisitPropertyRead(ast *PropertyRead, context interface{}) interface{}
	VisitPropertyWrite(ast *PropertyWrite, context interface{}) interface{}
	VisitQuote(ast *Quote, context interface{}) interface{}
	VisitSafeMethodCall(ast *SafeMethodCall, context interface{}) interface{}
	VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{}
}

// RecursiveAstVisitor visits every child of every node and returns nil.
// An embedding visitor sets Self to itself so children are dispatched to its
// overriding methods. Enter, when set, is called before each node is visited
// and can prune its subtree.
type RecursiveAstVisitor struct {
	Self  AstVisitor
	Enter func(AST) bool
}

func (r *RecursiveAstVisitor) visit(ast AST, context interface{}) {
	if r.Enter != nil && !r.Enter(ast) {
		return
	}
	var v AstVisitor = r
	if r.Self != nil {
		v = r.Self
	}
	ast.Visit(v, context)
}

// VisitAll visits each of asts
func (r *RecursiveAstVisitor) VisitAll(asts []AST, context interface{}) interface{} {
	for _, ast := range asts {
		r.visit(ast, context)
	}
	return nil
}

// VisitBinary visits a binary expression
func (r *RecursiveAstVisitor) VisitBinary(ast *Binary, context interface{}) interface{} {
	r.visit(ast.Left, context)
	r.visit(ast.Right, context)
	return nil
}

// VisitChain visits a chain expression
func (r *RecursiveAstVisitor) VisitChain(ast *Chain, context interface{}) interface{} {
	return r.VisitAll(ast.Expressions, context)
}

// VisitConditional visits a conditional expression
func (r *RecursiveAstVisitor) VisitConditional(ast *Conditional, context interface{}) interface{} {
	r.visit(ast.Condition, context)
	r.visit(ast.TrueExp, context)
	r.visit(ast.FalseExp, context)
	return nil
}

// VisitFunctionCall visits a function call
func (r *RecursiveAstVisitor) VisitFunctionCall(ast *FunctionCall, context interface{}) interface{} {
	r.visit(ast.Target, context)
	return r.VisitAll(ast.Args, context)
}

// VisitBuiltinFunctionCall visits a builtin call
func (r *RecursiveAstVisitor) VisitBuiltinFunctionCall(ast *BuiltinFunctionCall, context interface{}) interface{} {
	return r.VisitAll(ast.Args, context)
}

// VisitImplicitReceiver visits an implicit receiver
func (r *RecursiveAstVisitor) VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{} {
	return nil
}

// VisitInterpolation visits an interpolation
func (r *RecursiveAstVisitor) VisitInterpolation(ast *Interpolation, context interface{}) interface{} {
	return r.VisitAll(ast.Expressions, context)
}

// VisitKeyedRead visits a keyed read
func (r *RecursiveAstVisitor) VisitKeyedRead(ast *KeyedRead, context interface{}) interface{} {
	r.visit(ast.Obj, context)
	r.visit(ast.Key, context)
	return nil
}

// VisitKeyedWrite visits a keyed write
func (r *RecursiveAstVisitor) VisitKeyedWrite(ast *KeyedWrite, context interface{}) interface{} {
	r.visit(ast.Obj, context)
	r.visit(ast.Key, context)
	r.visit(ast.Value, context)
	return nil
}

// VisitLiteralArray visits a literal array
func (r *RecursiveAstVisitor) VisitLiteralArray(ast *LiteralArray, context interface{}) interface{} {
	return r.VisitAll(ast.Expressions, context)
}

// VisitLiteralMap visits a literal map
func (r *RecursiveAstVisitor) VisitLiteralMap(ast *LiteralMap, context interface{}) interface{} {
	return r.VisitAll(ast.Values, context)
}

// VisitLiteralPrimitive visits a literal primitive
func (r *RecursiveAstVisitor) VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{} {
	return nil
}

// VisitMethodCall visits a method call
func (r *RecursiveAstVisitor) VisitMethodCall(ast *MethodCall, context interface{}) interface{} {
	r.visit(ast.Receiver, context)
	return r.VisitAll(ast.Args, context)
}

// VisitPipe visits a pipe expression
func (r *RecursiveAstVisitor) VisitPipe(ast *BindingPipe, context interface{}) interface{} {
	r.visit(ast.Exp, context)
	return r.VisitAll(ast.Args, context)
}

// VisitPrefixNot visits a prefix not
func (r *RecursiveAstVisitor) VisitPrefixNot(ast *PrefixNot, context interface{}) interface{} {
	r.visit(ast.Expression, context)
	return nil
}

// VisitNonNullAssert visits a non-null assertion
func (r *RecursiveAstVisitor) VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{} {
	r.visit(ast.Expression, context)
	return nil
}

// VisitPropertyRead visits a property read
func (r *RecursiveAstVisitor) VisitPropertyRead(ast *PropertyRead, context interface{}) interface{} {
	r.visit(ast.Receiver, context)
	return nil
}

// VisitPropertyWrite visits a property write
func (r *RecursiveAstVisitor) VisitPropertyWrite(ast *PropertyWrite, context interface{}) interface{} {
	r.visit(ast.Receiver, context)
	r.visit(ast.Value, context)
	return nil
}

// VisitQuote visits a quote
func (r *RecursiveAstVisitor) VisitQuote(ast *Quote, context interface{}) interface{} {
	return nil
}

// VisitSafeMethodCall visits a safe method call
func (r *RecursiveAstVisitor) VisitSafeMethodCall(ast *SafeMethodCall, context interface{}) interface{} {
	r.visit(ast.Receiver, context)
	return r.VisitAll(ast.Args, context)
}

// VisitSafePropertyRead visits a safe property read
func (r *RecursiveAstVisitor) VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{} {
	r.visit(ast.Receiver, context)
	return nil
}

// Walk calls fn for ast and then, depth-first, for its descendants.
// The children of a node are skipped when fn returns false for it.
func Walk(ast AST, fn func(AST) bool) {
	r := &RecursiveAstVisitor{Enter: fn}
	r.visit(ast, nil)
}
