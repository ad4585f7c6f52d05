package expression_parser

// AstTransformer rebuilds every node it visits.
// Embedding transformers set Self so children reach their overrides.
type AstTransformer struct {
	Self AstVisitor
}

func (t *AstTransformer) transform(ast AST, context interface{}) AST {
	var v AstVisitor = t
	if t.Self != nil {
		v = t.Self
	}
	return ast.Visit(v, context).(AST)
}

// VisitAll transforms each of asts
func (t *AstTransformer) VisitAll(asts []AST, context interface{}) []AST {
	res := make([]AST, len(asts))
	for i, ast := range asts {
		res[i] = t.transform(ast, context)
	}
	return res
}

// VisitBinary transforms a binary expression
func (t *AstTransformer) VisitBinary(ast *Binary, context interface{}) interface{} {
	return NewBinary(ast.span, ast.sourceSpan, ast.Operation, t.transform(ast.Left, context), t.transform(ast.Right, context))
}

// VisitChain transforms a chain expression
func (t *AstTransformer) VisitChain(ast *Chain, context interface{}) interface{} {
	return NewChain(ast.span, ast.sourceSpan, t.VisitAll(ast.Expressions, context))
}

// VisitConditional transforms a conditional expression
func (t *AstTransformer) VisitConditional(ast *Conditional, context interface{}) interface{} {
	return NewConditional(ast.span, ast.sourceSpan,
		t.transform(ast.Condition, context), t.transform(ast.TrueExp, context), t.transform(ast.FalseExp, context))
}

// VisitFunctionCall transforms a function call
func (t *AstTransformer) VisitFunctionCall(ast *FunctionCall, context interface{}) interface{} {
	return NewFunctionCall(ast.span, ast.sourceSpan, t.transform(ast.Target, context), t.VisitAll(ast.Args, context))
}

// VisitBuiltinFunctionCall transforms a builtin call
func (t *AstTransformer) VisitBuiltinFunctionCall(ast *BuiltinFunctionCall, context interface{}) interface{} {
	return NewBuiltinFunctionCall(ast.span, ast.sourceSpan, t.VisitAll(ast.Args, context), ast.Converter)
}

// VisitImplicitReceiver transforms an implicit receiver
func (t *AstTransformer) VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{} {
	return ast
}

// VisitInterpolation transforms an interpolation
func (t *AstTransformer) VisitInterpolation(ast *Interpolation, context interface{}) interface{} {
	return NewInterpolation(ast.span, ast.sourceSpan, ast.Strings, t.VisitAll(ast.Expressions, context))
}

// VisitKeyedRead transforms a keyed read
func (t *AstTransformer) VisitKeyedRead(ast *KeyedRead, context interface{}) interface{} {
	return NewKeyedRead(ast.span, ast.sourceSpan, t.transform(ast.Obj, context), t.transform(ast.Key, context))
}

// VisitKeyedWrite transforms a keyed write
func (t *AstTransformer) VisitKeyedWrite(ast *KeyedWrite, context interface{}) interface{} {
	return NewKeyedWrite(ast.span, ast.sourceSpan,
		t.transform(ast.Obj, context), t.transform(ast.Key, context), t.transform(ast.Value, context))
}

// VisitLiteralArray transforms a literal array
func (t *AstTransformer) VisitLiteralArray(ast *LiteralArray, context interface{}) interface{} {
	return NewLiteralArray(ast.span, ast.sourceSpan, t.VisitAll(ast.Expressions, context))
}

// VisitLiteralMap transforms a literal map
func (t *AstTransformer) VisitLiteralMap(ast *LiteralMap, context interface{}) interface{} {
	return NewLiteralMap(ast.span, ast.sourceSpan, ast.Keys, t.VisitAll(ast.Values, context))
}

// VisitLiteralPrimitive transforms a literal primitive
func (t *AstTransformer) VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{} {
	return NewLiteralPrimitive(ast.span, ast.sourceSpan, ast.Value)
}

// VisitMethodCall transforms a method call
func (t *AstTransformer) VisitMethodCall(ast *MethodCall, context interface{}) interface{} {
	return NewMethodCall(ast.span, ast.sourceSpan, t.transform(ast.Receiver, context), ast.Name, t.VisitAll(ast.Args, context))
}

// VisitPipe transforms a pipe expression
func (t *AstTransformer) VisitPipe(ast *BindingPipe, context interface{}) interface{} {
	return NewBindingPipe(ast.span, ast.sourceSpan, t.transform(ast.Exp, context), ast.Name, t.VisitAll(ast.Args, context))
}

// VisitPrefixNot transforms a prefix not
func (t *AstTransformer) VisitPrefixNot(ast *PrefixNot, context interface{}) interface{} {
	return NewPrefixNot(ast.span, ast.sourceSpan, t.transform(ast.Expression, context))
}

// VisitNonNullAssert transforms a non-null assertion
func (t *AstTransformer) VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{} {
	return NewNonNullAssert(ast.span, ast.sourceSpan, t.transform(ast.Expression, context))
}

// VisitPropertyRead transforms a property read
func (t *AstTransformer) VisitPropertyRead(ast *PropertyRead, context interface{}) interface{} {
	return NewPropertyRead(ast.span, ast.sourceSpan, t.transform(ast.Receiver, context), ast.Name)
}

// VisitPropertyWrite transforms a property write
func (t *AstTransformer) VisitPropertyWrite(ast *PropertyWrite, context interface{}) interface{} {
	return NewPropertyWrite(ast.span, ast.sourceSpan, t.transform(ast.Receiver, context), ast.Name, t.transform(ast.Value, context))
}

// VisitQuote transforms a quote
func (t *AstTransformer) VisitQuote(ast *Quote, context interface{}) interface{} {
	return NewQuote(ast.span, ast.sourceSpan, ast.Prefix, ast.UninterpretedExpression, ast.Location)
}

// VisitSafeMethodCall transforms a safe method call
func (t *AstTransformer) VisitSafeMethodCall(ast *SafeMethodCall, context interface{}) interface{} {
	return NewSafeMethodCall(ast.span, ast.sourceSpan, t.transform(ast.Receiver, context), ast.Name, t.VisitAll(ast.Args, context))
}

// VisitSafePropertyRead transforms a safe property read
func (t *AstTransformer) VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{} {
	return NewSafePropertyRead(ast.span, ast.sourceSpan, t.transform(ast.Receiver, context), ast.Name)
}

// AstMemoryEfficientTransformer returns the original node whenever all of its
// children come back pointer-identical.
type AstMemoryEfficientTransformer struct {
	Self AstVisitor
}

func (t *AstMemoryEfficientTransformer) transform(ast AST, context interface{}) AST {
	var v AstVisitor = t
	if t.Self != nil {
		v = t.Self
	}
	return ast.Visit(v, context).(AST)
}

// VisitAll transforms each of asts, returning asts itself when nothing changed
func (t *AstMemoryEfficientTransformer) VisitAll(asts []AST, context interface{}) []AST {
	var res []AST
	for i, ast := range asts {
		value := t.transform(ast, context)
		if res == nil && value != ast {
			res = make([]AST, len(asts))
			copy(res, asts[:i])
		}
		if res != nil {
			res[i] = value
		}
	}
	if res == nil {
		return asts
	}
	return res
}

func sameList(a, b []AST) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// VisitBinary transforms a binary expression
func (t *AstMemoryEfficientTransformer) VisitBinary(ast *Binary, context interface{}) interface{} {
	left := t.transform(ast.Left, context)
	right := t.transform(ast.Right, context)
	if left != ast.Left || right != ast.Right {
		return NewBinary(ast.span, ast.sourceSpan, ast.Operation, left, right)
	}
	return ast
}

// VisitChain transforms a chain expression
func (t *AstMemoryEfficientTransformer) VisitChain(ast *Chain, context interface{}) interface{} {
	expressions := t.VisitAll(ast.Expressions, context)
	if !sameList(expressions, ast.Expressions) {
		return NewChain(ast.span, ast.sourceSpan, expressions)
	}
	return ast
}

// VisitConditional transforms a conditional expression
func (t *AstMemoryEfficientTransformer) VisitConditional(ast *Conditional, context interface{}) interface{} {
	condition := t.transform(ast.Condition, context)
	trueExp := t.transform(ast.TrueExp, context)
	falseExp := t.transform(ast.FalseExp, context)
	if condition != ast.Condition || trueExp != ast.TrueExp || falseExp != ast.FalseExp {
		return NewConditional(ast.span, ast.sourceSpan, condition, trueExp, falseExp)
	}
	return ast
}

// VisitFunctionCall transforms a function call
func (t *AstMemoryEfficientTransformer) VisitFunctionCall(ast *FunctionCall, context interface{}) interface{} {
	target := t.transform(ast.Target, context)
	args := t.VisitAll(ast.Args, context)
	if target != ast.Target || !sameList(args, ast.Args) {
		return NewFunctionCall(ast.span, ast.sourceSpan, target, args)
	}
	return ast
}

// VisitBuiltinFunctionCall transforms a builtin call
func (t *AstMemoryEfficientTransformer) VisitBuiltinFunctionCall(ast *BuiltinFunctionCall, context interface{}) interface{} {
	args := t.VisitAll(ast.Args, context)
	if !sameList(args, ast.Args) {
		return NewBuiltinFunctionCall(ast.span, ast.sourceSpan, args, ast.Converter)
	}
	return ast
}

// VisitImplicitReceiver transforms an implicit receiver
func (t *AstMemoryEfficientTransformer) VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{} {
	return ast
}

// VisitInterpolation transforms an interpolation
func (t *AstMemoryEfficientTransformer) VisitInterpolation(ast *Interpolation, context interface{}) interface{} {
	expressions := t.VisitAll(ast.Expressions, context)
	if !sameList(expressions, ast.Expressions) {
		return NewInterpolation(ast.span, ast.sourceSpan, ast.Strings, expressions)
	}
	return ast
}

// VisitKeyedRead transforms a keyed read
func (t *AstMemoryEfficientTransformer) VisitKeyedRead(ast *KeyedRead, context interface{}) interface{} {
	obj := t.transform(ast.Obj, context)
	key := t.transform(ast.Key, context)
	if obj != ast.Obj || key != ast.Key {
		return NewKeyedRead(ast.span, ast.sourceSpan, obj, key)
	}
	return ast
}

// VisitKeyedWrite transforms a keyed write
func (t *AstMemoryEfficientTransformer) VisitKeyedWrite(ast *KeyedWrite, context interface{}) interface{} {
	obj := t.transform(ast.Obj, context)
	key := t.transform(ast.Key, context)
	value := t.transform(ast.Value, context)
	if obj != ast.Obj || key != ast.Key || value != ast.Value {
		return NewKeyedWrite(ast.span, ast.sourceSpan, obj, key, value)
	}
	return ast
}

// VisitLiteralArray transforms a literal array
func (t *AstMemoryEfficientTransformer) VisitLiteralArray(ast *LiteralArray, context interface{}) interface{} {
	expressions := t.VisitAll(ast.Expressions, context)
	if !sameList(expressions, ast.Expressions) {
		return NewLiteralArray(ast.span, ast.sourceSpan, expressions)
	}
	return ast
}

// VisitLiteralMap transforms a literal map
func (t *AstMemoryEfficientTransformer) VisitLiteralMap(ast *LiteralMap, context interface{}) interface{} {
	values := t.VisitAll(ast.Values, context)
	if !sameList(values, ast.Values) {
		return NewLiteralMap(ast.span, ast.sourceSpan, ast.Keys, values)
	}
	return ast
}

// VisitLiteralPrimitive transforms a literal primitive
func (t *AstMemoryEfficientTransformer) VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{} {
	return ast
}

// VisitMethodCall transforms a method call
func (t *AstMemoryEfficientTransformer) VisitMethodCall(ast *MethodCall, context interface{}) interface{} {
	receiver := t.transform(ast.Receiver, context)
	args := t.VisitAll(ast.Args, context)
	if receiver != ast.Receiver || !sameList(args, ast.Args) {
		return NewMethodCall(ast.span, ast.sourceSpan, receiver, ast.Name, args)
	}
	return ast
}

// VisitPipe transforms a pipe expression
func (t *AstMemoryEfficientTransformer) VisitPipe(ast *BindingPipe, context interface{}) interface{} {
	exp := t.transform(ast.Exp, context)
	args := t.VisitAll(ast.Args, context)
	if exp != ast.Exp || !sameList(args, ast.Args) {
		return NewBindingPipe(ast.span, ast.sourceSpan, exp, ast.Name, args)
	}
	return ast
}

// VisitPrefixNot transforms a prefix not
func (t *AstMemoryEfficientTransformer) VisitPrefixNot(ast *PrefixNot, context interface{}) interface{} {
	expression := t.transform(ast.Expression, context)
	if expression != ast.Expression {
		return NewPrefixNot(ast.span, ast.sourceSpan, expression)
	}
	return ast
}

// VisitNonNullAssert transforms a non-null assertion
func (t *AstMemoryEfficientTransformer) VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{} {
	expression := t.transform(ast.Expression, context)
	if expression != ast.Expression {
		return NewNonNullAssert(ast.span, ast.sourceSpan, expression)
	}
	return ast
}

// VisitPropertyRead transforms a property read
func (t *AstMemoryEfficientTransformer) VisitPropertyRead(ast *PropertyRead, context interface{}) interface{} {
	receiver := t.transform(ast.Receiver, context)
	if receiver != ast.Receiver {
		return NewPropertyRead(ast.span, ast.sourceSpan, receiver, ast.Name)
	}
	return ast
}

// VisitPropertyWrite transforms a property write
func (t *AstMemoryEfficientTransformer) VisitPropertyWrite(ast *PropertyWrite, context interface{}) interface{} {
	receiver := t.transform(ast.Receiver, context)
	value := t.transform(ast.Value, context)
	if receiver != ast.Receiver || value != ast.Value {
		return NewPropertyWrite(ast.span, ast.sourceSpan, receiver, ast.Name, value)
	}
	return ast
}

// VisitQuote transforms a quote
func (t *AstMemoryEfficientTransformer) VisitQuote(ast *Quote, context interface{}) interface{} {
	return ast
}

// VisitSafeMethodCall transforms a safe method call
func (t *AstMemoryEfficientTransformer) VisitSafeMethodCall(ast *SafeMethodCall, context interface{}) interface{} {
	receiver := t.transform(ast.Receiver, context)
	args := t.VisitAll(ast.Args, context)
	if receiver != ast.Receiver || !sameList(args, ast.Args) {
		return NewSafeMethodCall(ast.span, ast.sourceSpan, receiver, ast.Name, args)
	}
	return ast
}

// VisitSafePropertyRead transforms a safe property read
func (t *AstMemoryEfficientTransformer) VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{} {
	receiver := t.transform(ast.Receiver, context)
	if receiver != ast.Receiver {
		return NewSafePropertyRead(ast.span, ast.sourceSpan, receiver, ast.Name)
	}
	return ast
}
