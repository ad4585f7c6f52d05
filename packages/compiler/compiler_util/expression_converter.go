package compiler_util

import (
	"strconv"

	"ngc-lower/packages/compiler/core"
	ep "ngc-lower/packages/compiler/expression_parser"
	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/util"
)

// EventHandlerVars holds the variables every event handler can read
var EventHandlerVars = struct {
	Event *output.ReadVarExpr
}{
	Event: output.Variable("$event"),
}

// LocalResolver resolves names that are not properties of the implicit receiver
type LocalResolver interface {
	// GetLocal returns the expression for a local name, or nil
	GetLocal(name string) output.OutputExpression
	// NotifyImplicitReceiverUse is called once per binding that read the implicit receiver
	NotifyImplicitReceiverUse()
}

// DefaultLocalResolver only knows about $event
type DefaultLocalResolver struct{}

// GetLocal implements LocalResolver
func (DefaultLocalResolver) GetLocal(name string) output.OutputExpression {
	if name == EventHandlerVars.Event.Name {
		return EventHandlerVars.Event
	}
	return nil
}

// NotifyImplicitReceiverUse implements LocalResolver
func (DefaultLocalResolver) NotifyImplicitReceiverUse() {}

// InterpolationFunction builds the call for an interpolation from its
// argument list [count, str0, expr0, str1, ..., strN].
type InterpolationFunction func(args []output.OutputExpression) output.OutputExpression

// InlineOrVariadicInterpolation calls InlineInterpolate for at most limit
// expressions and Interpolate with an array otherwise.
func InlineOrVariadicInterpolation(limit int) InterpolationFunction {
	return func(args []output.OutputExpression) output.OutputExpression {
		if (len(args)-2)/2 <= limit {
			return output.CallFn(output.ImportExpr(InlineInterpolate), args, nil)
		}
		return output.CallFn(output.ImportExpr(Interpolate),
			[]output.OutputExpression{args[0], output.LiteralArr(args[1:])}, nil)
	}
}

// ConvertActionBindingResult is the lowered body of an event handler
type ConvertActionBindingResult struct {
	Stmts []output.OutputStatement
	// PreventDefault is the `pd_<id>` variable when the last statement yields a
	// value. It holds false exactly when that value is false.
	PreventDefault *output.ReadVarExpr
}

// Render3Stmts returns Stmts with the prevent-default declaration turned into
// a return of its value, for handlers that are standalone functions.
func (r *ConvertActionBindingResult) Render3Stmts() []output.OutputStatement {
	stmts := make([]output.OutputStatement, len(r.Stmts))
	for i, stmt := range r.Stmts {
		if decl, ok := stmt.(*output.DeclareVarStmt); ok && r.PreventDefault != nil && decl.Name == r.PreventDefault.Name {
			stmts[i] = output.NewReturnStatement(decl.Value, nil)
			continue
		}
		stmts[i] = stmt
	}
	return stmts
}

// ConvertActionBinding lowers an event handler expression into statements.
// A nil localResolver means DefaultLocalResolver.
func ConvertActionBinding(
	localResolver LocalResolver,
	implicitReceiver output.OutputExpression,
	action ep.AST,
	bindingID string,
	interpolationFunction InterpolationFunction,
) (result *ConvertActionBindingResult, err error) {
	defer util.RecoverCompileError(&err)
	if localResolver == nil {
		localResolver = DefaultLocalResolver{}
	}
	actionWithoutBuiltins := ConvertPropertyBindingBuiltins(LiteralConverterFactory{}, action)
	visitor := newAstToIrVisitor(localResolver, implicitReceiver, bindingID, interpolationFunction)

	var actionStmts []output.OutputStatement
	flattenStatements(visitor.visit(actionWithoutBuiltins, modeStatement), &actionStmts)
	visitor.finish()

	stmts := append(visitor.temporaries.Declarations(), actionStmts...)
	result = &ConvertActionBindingResult{Stmts: stmts}
	if last := len(stmts) - 1; last >= 0 {
		if returnExpr := convertStmtIntoExpression(stmts[last]); returnExpr != nil {
			result.PreventDefault = output.Variable("pd_" + bindingID)
			stmts[last] = output.ToConstDecl(result.PreventDefault.Name,
				output.NotIdentical(output.Cast(returnExpr, nil), output.Literal(false)))
		}
	}
	return result, nil
}

// BindingForm selects the shape of a lowered property binding
type BindingForm int

const (
	// BindingFormGeneral always stores the value in `currVal_<id>`
	BindingFormGeneral BindingForm = iota
	// BindingFormTrySimple returns the bare expression when no temporaries are needed
	BindingFormTrySimple
)

// ConvertPropertyBindingResult is a lowered data binding
type ConvertPropertyBindingResult struct {
	Stmts       []output.OutputStatement
	CurrValExpr output.OutputExpression
}

// ConvertPropertyBinding lowers a binding expression whose pipes and literal
// collections were already replaced by ConvertPropertyBindingBuiltins.
// A nil localResolver means DefaultLocalResolver.
func ConvertPropertyBinding(
	localResolver LocalResolver,
	implicitReceiver output.OutputExpression,
	expressionWithoutBuiltins ep.AST,
	bindingID string,
	form BindingForm,
	interpolationFunction InterpolationFunction,
) (result *ConvertPropertyBindingResult, err error) {
	defer util.RecoverCompileError(&err)
	if localResolver == nil {
		localResolver = DefaultLocalResolver{}
	}
	visitor := newAstToIrVisitor(localResolver, implicitReceiver, bindingID, interpolationFunction)
	outputExpr := visitor.visitExpr(expressionWithoutBuiltins)
	visitor.finish()

	if visitor.temporaries.Count() == 0 && form == BindingFormTrySimple {
		return &ConvertPropertyBindingResult{Stmts: []output.OutputStatement{}, CurrValExpr: outputExpr}, nil
	}

	stmts := visitor.temporaries.Declarations()
	currValExpr := output.Variable("currVal_" + bindingID)
	stmts = append(stmts, output.NewDeclareVarStmt(currValExpr.Name, outputExpr, output.DynamicType, output.StmtModifierFinal, nil))
	return &ConvertPropertyBindingResult{Stmts: stmts, CurrValExpr: currValExpr}, nil
}

func flattenStatements(arg interface{}, out *[]output.OutputStatement) {
	switch a := arg.(type) {
	case []interface{}:
		for _, entry := range a {
			flattenStatements(entry, out)
		}
	case output.OutputStatement:
		*out = append(*out, a)
	default:
		util.Illegal("Expected a statement, but got %T", arg)
	}
}

func convertStmtIntoExpression(stmt output.OutputStatement) output.OutputExpression {
	switch s := stmt.(type) {
	case *output.ExpressionStatement:
		return s.Expr
	case *output.ReturnStatement:
		return s.Value
	}
	return nil
}

type mode int

const (
	modeStatement mode = iota
	modeExpression
)

func ensureStatementMode(m interface{}, ast ep.AST) {
	if m != modeStatement {
		util.Illegal("Expected a statement, but saw %s", ep.Serialize(ast))
	}
}

func ensureExpressionMode(m interface{}, ast ep.AST) {
	if m != modeExpression {
		util.Illegal("Expected an expression, but saw %s", ep.Serialize(ast))
	}
}

func convertToStatementIfNeeded(m interface{}, expr output.OutputExpression) interface{} {
	if m == modeStatement {
		return output.ToStmt(expr)
	}
	return expr
}

var binaryOperators = map[string]output.BinaryOperator{
	"+":   output.BinaryOperatorPlus,
	"-":   output.BinaryOperatorMinus,
	"/":   output.BinaryOperatorDivide,
	"*":   output.BinaryOperatorMultiply,
	"%":   output.BinaryOperatorModulo,
	"&&":  output.BinaryOperatorAnd,
	"||":  output.BinaryOperatorOr,
	"==":  output.BinaryOperatorEquals,
	"!=":  output.BinaryOperatorNotEquals,
	"===": output.BinaryOperatorIdentical,
	"!==": output.BinaryOperatorNotIdentical,
	"<":   output.BinaryOperatorLower,
	">":   output.BinaryOperatorBigger,
	"<=":  output.BinaryOperatorLowerEquals,
	">=":  output.BinaryOperatorBiggerEquals,
}

type substitution struct {
	from, to ep.AST
}

type loweredResult struct {
	node ep.AST
	expr output.OutputExpression
}

// astToIrVisitor lowers one binding. The context argument of every Visit
// method is the mode the caller expects.
type astToIrVisitor struct {
	localResolver         LocalResolver
	implicitReceiver      output.OutputExpression
	bindingID             string
	interpolationFunction InterpolationFunction
	temporaries           *TemporaryStack
	usesImplicitReceiver  bool

	// Both stacks only hold entries while a safe access rewrite is running.
	substitutions []substitution
	results       []loweredResult
}

func newAstToIrVisitor(
	localResolver LocalResolver,
	implicitReceiver output.OutputExpression,
	bindingID string,
	interpolationFunction InterpolationFunction,
) *astToIrVisitor {
	return &astToIrVisitor{
		localResolver:         localResolver,
		implicitReceiver:      implicitReceiver,
		bindingID:             bindingID,
		interpolationFunction: interpolationFunction,
		temporaries:           NewTemporaryStack(bindingID),
	}
}

func (v *astToIrVisitor) finish() {
	if v.temporaries.Depth() != 0 {
		util.Illegal("%d temporaries of binding %s were not released", v.temporaries.Depth(), v.bindingID)
	}
	if v.usesImplicitReceiver {
		v.localResolver.NotifyImplicitReceiverUse()
	}
}

func (v *astToIrVisitor) substituted(ast ep.AST) ep.AST {
	for i := len(v.substitutions) - 1; i >= 0; i-- {
		if v.substitutions[i].from == ast {
			return v.substitutions[i].to
		}
	}
	return ast
}

func (v *astToIrVisitor) pushSubstitution(from, to ep.AST) (pop func()) {
	v.substitutions = append(v.substitutions, substitution{from: from, to: to})
	n := len(v.substitutions)
	return func() { v.substitutions = v.substitutions[:n-1] }
}

func (v *astToIrVisitor) lowered(ast ep.AST) output.OutputExpression {
	for i := len(v.results) - 1; i >= 0; i-- {
		if v.results[i].node == ast {
			return v.results[i].expr
		}
	}
	return nil
}

func (v *astToIrVisitor) pushResult(node ep.AST, expr output.OutputExpression) (pop func()) {
	v.results = append(v.results, loweredResult{node: node, expr: expr})
	n := len(v.results)
	return func() { v.results = v.results[:n-1] }
}

func (v *astToIrVisitor) visit(ast ep.AST, m mode) interface{} {
	if result := v.lowered(ast); result != nil {
		return result
	}
	return v.substituted(ast).Visit(v, m)
}

func (v *astToIrVisitor) visitExpr(ast ep.AST) output.OutputExpression {
	return v.visit(ast, modeExpression).(output.OutputExpression)
}

func (v *astToIrVisitor) visitAll(asts []ep.AST, m mode) []interface{} {
	res := make([]interface{}, len(asts))
	for i, ast := range asts {
		res[i] = v.visit(ast, m)
	}
	return res
}

func (v *astToIrVisitor) visitAllExprs(asts []ep.AST) []output.OutputExpression {
	res := make([]output.OutputExpression, len(asts))
	for i, ast := range asts {
		res[i] = v.visitExpr(ast)
	}
	return res
}

func (v *astToIrVisitor) VisitBinary(ast *ep.Binary, context interface{}) interface{} {
	op, ok := binaryOperators[ast.Operation]
	if !ok {
		util.Illegal("Unsupported operation %s", ast.Operation)
	}
	return convertToStatementIfNeeded(context,
		output.Binary(op, v.visitExpr(ast.Left), v.visitExpr(ast.Right), nil))
}

func (v *astToIrVisitor) VisitChain(ast *ep.Chain, context interface{}) interface{} {
	ensureStatementMode(context, ast)
	return v.visitAll(ast.Expressions, modeStatement)
}

func (v *astToIrVisitor) VisitConditional(ast *ep.Conditional, context interface{}) interface{} {
	value := v.visitExpr(ast.Condition)
	return convertToStatementIfNeeded(context,
		output.Conditional(value, v.visitExpr(ast.TrueExp), v.visitExpr(ast.FalseExp)))
}

func (v *astToIrVisitor) VisitPipe(ast *ep.BindingPipe, context interface{}) interface{} {
	util.Illegal("Illegal state: Pipes should have been converted into functions. Pipe: %s", ast.Name)
	return nil
}

func (v *astToIrVisitor) VisitFunctionCall(ast *ep.FunctionCall, context interface{}) interface{} {
	args := v.visitAllExprs(ast.Args)
	return convertToStatementIfNeeded(context, output.CallFn(v.visitExpr(ast.Target), args, nil))
}

func (v *astToIrVisitor) VisitBuiltinFunctionCall(ast *ep.BuiltinFunctionCall, context interface{}) interface{} {
	args := v.visitAllExprs(ast.Args)
	return convertToStatementIfNeeded(context, ast.Converter(args))
}

func (v *astToIrVisitor) VisitImplicitReceiver(ast *ep.ImplicitReceiver, context interface{}) interface{} {
	ensureExpressionMode(context, ast)
	v.usesImplicitReceiver = true
	return v.implicitReceiver
}

func (v *astToIrVisitor) VisitInterpolation(ast *ep.Interpolation, context interface{}) interface{} {
	ensureExpressionMode(context, ast)
	if len(ast.Strings) != len(ast.Expressions)+1 {
		util.Illegal("Interpolation of %d expressions has %d strings", len(ast.Expressions), len(ast.Strings))
	}
	args := []output.OutputExpression{output.Literal(len(ast.Expressions))}
	for i, expr := range ast.Expressions {
		args = append(args, output.Literal(ast.Strings[i]), v.visitExpr(expr))
	}
	args = append(args, output.Literal(ast.Strings[len(ast.Strings)-1]))

	defer util.LocateExpr(exprSpan(ast))

	if v.interpolationFunction != nil {
		return v.interpolationFunction(args)
	}
	return InlineOrVariadicInterpolation(core.InlineInterpolationLimit)(args)
}

func (v *astToIrVisitor) VisitKeyedRead(ast *ep.KeyedRead, context interface{}) interface{} {
	if leftMostSafe := v.leftMostSafeNode(ast); leftMostSafe != nil {
		return v.convertSafeAccess(ast, leftMostSafe, context)
	}
	obj := v.visitExpr(ast.Obj)
	return convertToStatementIfNeeded(context, output.Key(obj, v.visitExpr(ast.Key)))
}

func (v *astToIrVisitor) VisitKeyedWrite(ast *ep.KeyedWrite, context interface{}) interface{} {
	obj := v.visitExpr(ast.Obj)
	key := v.visitExpr(ast.Key)
	value := v.visitExpr(ast.Value)
	return convertToStatementIfNeeded(context, output.Key(obj, key).Set(value))
}

func (v *astToIrVisitor) VisitLiteralArray(ast *ep.LiteralArray, context interface{}) interface{} {
	util.Illegal("Illegal State: literal arrays should have been converted into functions")
	return nil
}

func (v *astToIrVisitor) VisitLiteralMap(ast *ep.LiteralMap, context interface{}) interface{} {
	util.Illegal("Illegal State: literal maps should have been converted into functions")
	return nil
}

func (v *astToIrVisitor) VisitLiteralPrimitive(ast *ep.LiteralPrimitive, context interface{}) interface{} {
	return convertToStatementIfNeeded(context, output.Literal(ast.Value))
}

func (v *astToIrVisitor) getLocal(name string) output.OutputExpression {
	return v.localResolver.GetLocal(name)
}

func (v *astToIrVisitor) VisitMethodCall(ast *ep.MethodCall, context interface{}) interface{} {
	if _, ok := ast.Receiver.(*ep.ImplicitReceiver); ok && ast.Name == "$any" {
		args := v.visitAllExprs(ast.Args)
		if len(args) != 1 {
			received := "none"
			if len(args) > 0 {
				received = strconv.Itoa(len(args))
			}
			util.FailExpr(exprSpan(ast), "Invalid call to $any, expected 1 argument but received %s", received)
		}
		return convertToStatementIfNeeded(context, output.Cast(args[0], nil))
	}

	if leftMostSafe := v.leftMostSafeNode(ast); leftMostSafe != nil {
		return v.convertSafeAccess(ast, leftMostSafe, context)
	}

	args := v.visitAllExprs(ast.Args)
	prevUsesImplicitReceiver := v.usesImplicitReceiver
	receiver := v.visitExpr(ast.Receiver)
	var result output.OutputExpression
	if receiver == v.implicitReceiver {
		if local := v.getLocal(ast.Name); local != nil {
			// The local is called instead of a method of the receiver.
			v.usesImplicitReceiver = prevUsesImplicitReceiver
			result = output.CallFn(local, args, nil)
		}
	}
	if result == nil {
		result = output.CallMethod(receiver, ast.Name, args, nil)
	}
	return convertToStatementIfNeeded(context, result)
}

func (v *astToIrVisitor) VisitPrefixNot(ast *ep.PrefixNot, context interface{}) interface{} {
	return convertToStatementIfNeeded(context, output.Not(v.visitExpr(ast.Expression)))
}

func (v *astToIrVisitor) VisitNonNullAssert(ast *ep.NonNullAssert, context interface{}) interface{} {
	return convertToStatementIfNeeded(context, output.NewAssertNotNullExpr(v.visitExpr(ast.Expression), nil))
}

func (v *astToIrVisitor) VisitPropertyRead(ast *ep.PropertyRead, context interface{}) interface{} {
	if leftMostSafe := v.leftMostSafeNode(ast); leftMostSafe != nil {
		return v.convertSafeAccess(ast, leftMostSafe, context)
	}
	prevUsesImplicitReceiver := v.usesImplicitReceiver
	receiver := v.visitExpr(ast.Receiver)
	var result output.OutputExpression
	if receiver == v.implicitReceiver {
		if local := v.getLocal(ast.Name); local != nil {
			v.usesImplicitReceiver = prevUsesImplicitReceiver
			result = local
		}
	}
	if result == nil {
		result = output.Prop(receiver, ast.Name)
	}
	return convertToStatementIfNeeded(context, result)
}

func (v *astToIrVisitor) VisitPropertyWrite(ast *ep.PropertyWrite, context interface{}) interface{} {
	prevUsesImplicitReceiver := v.usesImplicitReceiver
	receiver := v.visitExpr(ast.Receiver)
	var target *output.ReadPropExpr
	if receiver == v.implicitReceiver {
		if local := v.getLocal(ast.Name); local != nil {
			prop, ok := local.(*output.ReadPropExpr)
			if !ok {
				value := ep.Serialize(ast.Value)
				if read, isRead := ast.Value.(*ep.PropertyRead); isRead {
					value = read.Name
				}
				util.FailExpr(exprSpan(ast), "Cannot assign value %q to template variable %q. Template variables are read-only.", value, ast.Name)
			}
			// A local aliasing a property of the context can be written through.
			v.usesImplicitReceiver = prevUsesImplicitReceiver
			target = prop
		}
	}
	if target == nil {
		target = output.Prop(receiver, ast.Name)
	}
	return convertToStatementIfNeeded(context, target.Set(v.visitExpr(ast.Value)))
}

func (v *astToIrVisitor) VisitQuote(ast *ep.Quote, context interface{}) interface{} {
	util.FailExpr(exprSpan(ast), "Quotes are not supported for evaluation!\nStatement: %s located at %s", ast.UninterpretedExpression, ast.Location)
	return nil
}

func (v *astToIrVisitor) VisitSafeMethodCall(ast *ep.SafeMethodCall, context interface{}) interface{} {
	return v.convertSafeAccess(ast, v.leftMostSafeNode(ast), context)
}

func (v *astToIrVisitor) VisitSafePropertyRead(ast *ep.SafePropertyRead, context interface{}) interface{} {
	return v.convertSafeAccess(ast, v.leftMostSafeNode(ast), context)
}

// convertSafeAccess lowers ast, which contains leftMostSafe on its receiver
// spine, into `receiver == null ? null : <ast with leftMostSafe unguarded>`.
// A receiver that may have side effects is evaluated once into a temporary.
func (v *astToIrVisitor) convertSafeAccess(ast, leftMostSafe ep.AST, context interface{}) interface{} {
	var receiver, unguarded ep.AST
	switch safe := leftMostSafe.(type) {
	case *ep.SafeMethodCall:
		receiver = safe.Receiver
		unguarded = ep.NewMethodCall(safe.Span(), safe.SourceSpan(), safe.Receiver, safe.Name, safe.Args)
	case *ep.SafePropertyRead:
		receiver = safe.Receiver
		unguarded = ep.NewPropertyRead(safe.Span(), safe.SourceSpan(), safe.Receiver, safe.Name)
	default:
		util.Illegal("Expected a safe access, but saw %T", leftMostSafe)
	}

	guardedExpression := v.visitExpr(receiver)
	var temporary *Temporary
	if v.needsTemporary(receiver) {
		temporary = v.temporaries.Allocate()
		guardedExpression = temporary.Expr().Set(guardedExpression)
		defer v.pushResult(receiver, temporary.Expr())()
	}
	condition := output.IsBlank(guardedExpression)

	defer v.pushSubstitution(leftMostSafe, unguarded)()
	access := v.visitExpr(ast)
	if temporary != nil {
		v.temporaries.Release(temporary)
	}
	return convertToStatementIfNeeded(context, output.Conditional(condition, output.Literal(nil), access))
}

// leftMostSafeNode finds the innermost safe access on the receiver spine of
// ast. Argument, operand and key subtrees are never searched.
func (v *astToIrVisitor) leftMostSafeNode(ast ep.AST) ep.AST {
	switch n := ast.(type) {
	case *ep.KeyedRead:
		return v.leftMostSafeNode(v.substituted(n.Obj))
	case *ep.MethodCall:
		return v.leftMostSafeNode(v.substituted(n.Receiver))
	case *ep.PropertyRead:
		return v.leftMostSafeNode(v.substituted(n.Receiver))
	case *ep.SafeMethodCall:
		if found := v.leftMostSafeNode(v.substituted(n.Receiver)); found != nil {
			return found
		}
		return n
	case *ep.SafePropertyRead:
		if found := v.leftMostSafeNode(v.substituted(n.Receiver)); found != nil {
			return found
		}
		return n
	case *ep.Binary, *ep.Chain, *ep.Conditional, *ep.FunctionCall, *ep.BuiltinFunctionCall,
		*ep.ImplicitReceiver, *ep.Interpolation, *ep.KeyedWrite, *ep.LiteralArray, *ep.LiteralMap,
		*ep.LiteralPrimitive, *ep.BindingPipe, *ep.PrefixNot, *ep.NonNullAssert, *ep.PropertyWrite,
		*ep.Quote:
		return nil
	default:
		util.Illegal("Unknown expression node %T", ast)
		return nil
	}
}

// needsTemporary reports whether evaluating ast twice could differ from
// evaluating it once.
func (v *astToIrVisitor) needsTemporary(ast ep.AST) bool {
	some := func(asts ...ep.AST) bool {
		for _, a := range asts {
			if a != nil && v.needsTemporary(v.substituted(a)) {
				return true
			}
		}
		return false
	}
	switch n := ast.(type) {
	case *ep.Binary:
		return some(n.Left, n.Right)
	case *ep.Conditional:
		return some(n.Condition, n.TrueExp, n.FalseExp)
	case *ep.Interpolation:
		return some(n.Expressions...)
	case *ep.PrefixNot:
		return some(n.Expression)
	case *ep.NonNullAssert:
		return some(n.Expression)
	case *ep.FunctionCall, *ep.BuiltinFunctionCall, *ep.MethodCall, *ep.SafeMethodCall,
		*ep.BindingPipe, *ep.LiteralArray, *ep.LiteralMap:
		return true
	case *ep.Chain, *ep.ImplicitReceiver, *ep.KeyedRead, *ep.KeyedWrite, *ep.LiteralPrimitive,
		*ep.PropertyRead, *ep.PropertyWrite, *ep.SafePropertyRead, *ep.Quote:
		return false
	default:
		util.Illegal("Unknown expression node %T", ast)
		return false
	}
}

func exprSpan(ast ep.AST) *util.ExprSpan {
	span := ast.Span()
	if span == nil {
		return nil
	}
	return &util.ExprSpan{Start: span.Start, End: span.End}
}
