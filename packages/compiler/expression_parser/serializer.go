package expression_parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize prints the given AST in a normalized source form
func Serialize(ast AST) string {
	return ast.Visit(&SerializeExpressionVisitor{}, nil).(string)
}

// SerializeExpressionVisitor is a visitor that serializes AST to string
type SerializeExpressionVisitor struct{}

func (s *SerializeExpressionVisitor) all(asts []AST, context interface{}) []string {
	parts := make([]string, len(asts))
	for i, ast := range asts {
		parts[i] = ast.Visit(s, context).(string)
	}
	return parts
}

func (s *SerializeExpressionVisitor) member(receiver AST, sep, name string, context interface{}) string {
	if _, ok := receiver.(*ImplicitReceiver); ok && sep == "." {
		return name
	}
	return receiver.Visit(s, context).(string) + sep + name
}

// VisitBinary visits a binary expression
func (s *SerializeExpressionVisitor) VisitBinary(ast *Binary, context interface{}) interface{} {
	return fmt.Sprintf("%s %s %s",
		ast.Left.Visit(s, context).(string),
		ast.Operation,
		ast.Right.Visit(s, context).(string))
}

// VisitChain visits a chain expression
func (s *SerializeExpressionVisitor) VisitChain(ast *Chain, context interface{}) interface{} {
	return strings.Join(s.all(ast.Expressions, context), "; ")
}

// VisitConditional visits a conditional expression
func (s *SerializeExpressionVisitor) VisitConditional(ast *Conditional, context interface{}) interface{} {
	return fmt.Sprintf("%s ? %s : %s",
		ast.Condition.Visit(s, context).(string),
		ast.TrueExp.Visit(s, context).(string),
		ast.FalseExp.Visit(s, context).(string))
}

// VisitFunctionCall visits a function call
func (s *SerializeExpressionVisitor) VisitFunctionCall(ast *FunctionCall, context interface{}) interface{} {
	return fmt.Sprintf("%s(%s)", ast.Target.Visit(s, context).(string), strings.Join(s.all(ast.Args, context), ", "))
}

// VisitBuiltinFunctionCall visits a builtin call
func (s *SerializeExpressionVisitor) VisitBuiltinFunctionCall(ast *BuiltinFunctionCall, context interface{}) interface{} {
	return fmt.Sprintf("<builtin>(%s)", strings.Join(s.all(ast.Args, context), ", "))
}

// VisitImplicitReceiver visits an implicit receiver
func (s *SerializeExpressionVisitor) VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{} {
	return "this"
}

// VisitInterpolation visits an interpolation
func (s *SerializeExpressionVisitor) VisitInterpolation(ast *Interpolation, context interface{}) interface{} {
	var b strings.Builder
	for i, str := range ast.Strings {
		b.WriteString(str)
		if i < len(ast.Expressions) {
			b.WriteString("{{ " + ast.Expressions[i].Visit(s, context).(string) + " }}")
		}
	}
	return b.String()
}

// VisitKeyedRead visits a keyed read
func (s *SerializeExpressionVisitor) VisitKeyedRead(ast *KeyedRead, context interface{}) interface{} {
	return fmt.Sprintf("%s[%s]", ast.Obj.Visit(s, context).(string), ast.Key.Visit(s, context).(string))
}

// VisitKeyedWrite visits a keyed write
func (s *SerializeExpressionVisitor) VisitKeyedWrite(ast *KeyedWrite, context interface{}) interface{} {
	return fmt.Sprintf("%s[%s] = %s",
		ast.Obj.Visit(s, context).(string),
		ast.Key.Visit(s, context).(string),
		ast.Value.Visit(s, context).(string))
}

// VisitLiteralArray visits a literal array
func (s *SerializeExpressionVisitor) VisitLiteralArray(ast *LiteralArray, context interface{}) interface{} {
	return fmt.Sprintf("[%s]", strings.Join(s.all(ast.Expressions, context), ", "))
}

// VisitLiteralMap visits a literal map
func (s *SerializeExpressionVisitor) VisitLiteralMap(ast *LiteralMap, context interface{}) interface{} {
	pairs := make([]string, len(ast.Keys))
	for i, key := range ast.Keys {
		k := key.Key
		if key.Quoted {
			k = fmt.Sprintf("'%s'", k)
		}
		pairs[i] = fmt.Sprintf("%s: %s", k, ast.Values[i].Visit(s, context).(string))
	}
	return fmt.Sprintf("{%s}", strings.Join(pairs, ", "))
}

// VisitLiteralPrimitive visits a literal primitive
func (s *SerializeExpressionVisitor) VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{} {
	switch v := ast.Value.(type) {
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return fmt.Sprintf("'%s'", strings.ReplaceAll(v, "'", "\\'"))
	default:
		panic(fmt.Sprintf("Unsupported primitive type: %T", ast.Value))
	}
}

// VisitMethodCall visits a method call
func (s *SerializeExpressionVisitor) VisitMethodCall(ast *MethodCall, context interface{}) interface{} {
	return fmt.Sprintf("%s(%s)", s.member(ast.Receiver, ".", ast.Name, context), strings.Join(s.all(ast.Args, context), ", "))
}

// VisitPipe visits a pipe expression
func (s *SerializeExpressionVisitor) VisitPipe(ast *BindingPipe, context interface{}) interface{} {
	var b strings.Builder
	b.WriteString("(" + ast.Exp.Visit(s, context).(string) + " | " + ast.Name)
	for _, arg := range s.all(ast.Args, context) {
		b.WriteString(":" + arg)
	}
	b.WriteString(")")
	return b.String()
}

// VisitPrefixNot visits a prefix not
func (s *SerializeExpressionVisitor) VisitPrefixNot(ast *PrefixNot, context interface{}) interface{} {
	return "!" + ast.Expression.Visit(s, context).(string)
}

// VisitNonNullAssert visits a non-null assertion
func (s *SerializeExpressionVisitor) VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{} {
	return ast.Expression.Visit(s, context).(string) + "!"
}

// VisitPropertyRead visits a property read
func (s *SerializeExpressionVisitor) VisitPropertyRead(ast *PropertyRead, context interface{}) interface{} {
	return s.member(ast.Receiver, ".", ast.Name, context)
}

// VisitPropertyWrite visits a property write
func (s *SerializeExpressionVisitor) VisitPropertyWrite(ast *PropertyWrite, context interface{}) interface{} {
	return s.member(ast.Receiver, ".", ast.Name, context) + " = " + ast.Value.Visit(s, context).(string)
}

// VisitQuote visits a quote
func (s *SerializeExpressionVisitor) VisitQuote(ast *Quote, context interface{}) interface{} {
	return ast.Prefix + ":" + ast.UninterpretedExpression
}

// VisitSafeMethodCall visits a safe method call
func (s *SerializeExpressionVisitor) VisitSafeMethodCall(ast *SafeMethodCall, context interface{}) interface{} {
	return fmt.Sprintf("%s(%s)", s.member(ast.Receiver, "?.", ast.Name, context), strings.Join(s.all(ast.Args, context), ", "))
}

// VisitSafePropertyRead visits a safe property read
func (s *SerializeExpressionVisitor) VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{} {
	return s.member(ast.Receiver, "?.", ast.Name, context)
}
