package compiler_util

import (
	"ngc-lower/packages/compiler/expression_parser"
	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/util"
)

// BuiltinConverterFactory creates the converters that replace pipes and literal
// collections before an expression is lowered.
type BuiltinConverterFactory interface {
	CreateLiteralArrayConverter(argCount int) expression_parser.BuiltinConverter
	CreateLiteralMapConverter(keys []expression_parser.LiteralMapKey) expression_parser.BuiltinConverter
	CreatePipeConverter(name string, argCount int) expression_parser.BuiltinConverter
}

// ConvertPropertyBindingBuiltins rewrites every pipe, literal array and literal
// map of ast into a BuiltinFunctionCall. Subtrees without builtins are shared
// with the input. Pipe arguments are passed as [exp, ...args].
func ConvertPropertyBindingBuiltins(converterFactory BuiltinConverterFactory, ast expression_parser.AST) expression_parser.AST {
	return ast.Visit(newBuiltinAstConverter(converterFactory), nil).(expression_parser.AST)
}

// TryConvertPropertyBindingBuiltins is ConvertPropertyBindingBuiltins returning
// a failing factory's CompileError instead of panicking.
func TryConvertPropertyBindingBuiltins(converterFactory BuiltinConverterFactory, ast expression_parser.AST) (result expression_parser.AST, err error) {
	defer util.RecoverCompileError(&err)
	return ConvertPropertyBindingBuiltins(converterFactory, ast), nil
}

type builtinAstConverter struct {
	expression_parser.AstMemoryEfficientTransformer
	factory BuiltinConverterFactory
}

func newBuiltinAstConverter(factory BuiltinConverterFactory) *builtinAstConverter {
	c := &builtinAstConverter{factory: factory}
	c.Self = c
	return c
}

func (c *builtinAstConverter) VisitPipe(ast *expression_parser.BindingPipe, context interface{}) interface{} {
	args := make([]expression_parser.AST, 0, len(ast.Args)+1)
	args = append(args, ast.Exp)
	args = append(args, ast.Args...)
	args = c.VisitAll(args, context)
	return expression_parser.NewBuiltinFunctionCall(ast.Span(), ast.SourceSpan(), args,
		c.createPipeConverter(ast, len(args)))
}

func (c *builtinAstConverter) createPipeConverter(ast *expression_parser.BindingPipe, argCount int) expression_parser.BuiltinConverter {
	defer util.LocateExpr(exprSpan(ast))
	return c.factory.CreatePipeConverter(ast.Name, argCount)
}

func (c *builtinAstConverter) VisitLiteralArray(ast *expression_parser.LiteralArray, context interface{}) interface{} {
	args := c.VisitAll(ast.Expressions, context)
	return expression_parser.NewBuiltinFunctionCall(ast.Span(), ast.SourceSpan(), args,
		c.factory.CreateLiteralArrayConverter(len(ast.Expressions)))
}

func (c *builtinAstConverter) VisitLiteralMap(ast *expression_parser.LiteralMap, context interface{}) interface{} {
	args := c.VisitAll(ast.Values, context)
	return expression_parser.NewBuiltinFunctionCall(ast.Span(), ast.SourceSpan(), args,
		c.factory.CreateLiteralMapConverter(ast.Keys))
}

// LiteralConverterFactory turns literal arrays and maps into plain IR literals.
// Pipes are rejected, which makes it the factory used for actions.
type LiteralConverterFactory struct{}

// CreateLiteralArrayConverter returns a converter building an array literal
func (LiteralConverterFactory) CreateLiteralArrayConverter(argCount int) expression_parser.BuiltinConverter {
	return func(args []output.OutputExpression) output.OutputExpression {
		return output.LiteralArr(args)
	}
}

// CreateLiteralMapConverter returns a converter building a map literal
func (LiteralConverterFactory) CreateLiteralMapConverter(keys []expression_parser.LiteralMapKey) expression_parser.BuiltinConverter {
	return func(values []output.OutputExpression) output.OutputExpression {
		entries := make([]*output.LiteralMapEntry, len(keys))
		for i, k := range keys {
			entries[i] = output.NewLiteralMapEntry(k.Key, values[i], k.Quoted)
		}
		return output.LiteralMap(entries)
	}
}

// CreatePipeConverter fails: pipes are not allowed in event handlers
func (LiteralConverterFactory) CreatePipeConverter(name string, argCount int) expression_parser.BuiltinConverter {
	util.Fail(nil, "Illegal State: Actions are not allowed to contain pipes. Pipe: %s", name)
	return nil
}
