package output

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ngc-lower/packages/compiler/util"
)

var (
	singleQuoteEscapeStringRe = regexp.MustCompile(`'|\\|\n|\r|\$`)
	legalIdentifierRe         = regexp.MustCompile(`(?i)^[$A-Z_][0-9A-Z_$]*$`)
	indentWith                = "  "
)

var binaryOperators = map[BinaryOperator]string{
	BinaryOperatorAnd:          "&&",
	BinaryOperatorBigger:       ">",
	BinaryOperatorBiggerEquals: ">=",
	BinaryOperatorBitwiseAnd:   "&",
	BinaryOperatorDivide:       "/",
	BinaryOperatorAssign:       "=",
	BinaryOperatorEquals:       "==",
	BinaryOperatorIdentical:    "===",
	BinaryOperatorLower:        "<",
	BinaryOperatorLowerEquals:  "<=",
	BinaryOperatorMinus:        "-",
	BinaryOperatorModulo:       "%",
	BinaryOperatorMultiply:     "*",
	BinaryOperatorNotEquals:    "!=",
	BinaryOperatorNotIdentical: "!==",
	BinaryOperatorOr:           "||",
	BinaryOperatorPlus:         "+",
}

// EmittedLine represents a line being emitted
type EmittedLine struct {
	PartsLength int
	Parts       []string
	SrcSpans    []*util.ParseSourceSpan
	Indent      int
}

// NewEmittedLine creates a new EmittedLine
func NewEmittedLine(indent int) *EmittedLine {
	return &EmittedLine{Indent: indent}
}

// EmitterVisitorContext collects emitted lines
type EmitterVisitorContext struct {
	lines  []*EmittedLine
	indent int
}

// CreateRootEmitterVisitorContext creates a root EmitterVisitorContext
func CreateRootEmitterVisitorContext() *EmitterVisitorContext {
	return NewEmitterVisitorContext(0)
}

// NewEmitterVisitorContext creates a new EmitterVisitorContext
func NewEmitterVisitorContext(indent int) *EmitterVisitorContext {
	return &EmitterVisitorContext{
		lines:  []*EmittedLine{NewEmittedLine(indent)},
		indent: indent,
	}
}

func (ctx *EmitterVisitorContext) currentLine() *EmittedLine {
	return ctx.lines[len(ctx.lines)-1]
}

// Println prints a part and ends the line
func (ctx *EmitterVisitorContext) Println(from interface{}, lastPart string) {
	ctx.Print(from, lastPart, true)
}

// LineIsEmpty checks if the current line is empty
func (ctx *EmitterVisitorContext) LineIsEmpty() bool {
	return len(ctx.currentLine().Parts) == 0
}

// LineLength returns the length of the current line
func (ctx *EmitterVisitorContext) LineLength() int {
	line := ctx.currentLine()
	return line.Indent*len(indentWith) + line.PartsLength
}

// Print prints to the context
func (ctx *EmitterVisitorContext) Print(from interface{}, part string, newLine bool) {
	if len(part) > 0 {
		line := ctx.currentLine()
		line.Parts = append(line.Parts, part)
		line.PartsLength += len(part)

		var sourceSpan *util.ParseSourceSpan
		if withSpan, ok := from.(interface {
			GetSourceSpan() *util.ParseSourceSpan
		}); ok {
			sourceSpan = withSpan.GetSourceSpan()
		}
		line.SrcSpans = append(line.SrcSpans, sourceSpan)
	}
	if newLine {
		ctx.lines = append(ctx.lines, NewEmittedLine(ctx.indent))
	}
}

// RemoveEmptyLastLine removes the empty last line
func (ctx *EmitterVisitorContext) RemoveEmptyLastLine() {
	if ctx.LineIsEmpty() {
		ctx.lines = ctx.lines[:len(ctx.lines)-1]
	}
}

// IncIndent increases the indent
func (ctx *EmitterVisitorContext) IncIndent() {
	ctx.indent++
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// DecIndent decreases the indent
func (ctx *EmitterVisitorContext) DecIndent() {
	ctx.indent--
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// ToSource converts the context to source code
func (ctx *EmitterVisitorContext) ToSource() string {
	result := []string{}
	for _, line := range ctx.sourceLines() {
		if len(line.Parts) > 0 {
			result = append(result, strings.Repeat(indentWith, line.Indent)+strings.Join(line.Parts, ""))
		} else {
			result = append(result, "")
		}
	}
	return strings.Join(result, "\n")
}

// SpanOf returns the source span printed at the given line and column
func (ctx *EmitterVisitorContext) SpanOf(lineNum, column int) *util.ParseSourceSpan {
	if lineNum < len(ctx.lines) {
		emittedLine := ctx.lines[lineNum]
		columnsLeft := column - emittedLine.Indent*len(indentWith)
		for partIndex, part := range emittedLine.Parts {
			if len(part) > columnsLeft {
				return emittedLine.SrcSpans[partIndex]
			}
			columnsLeft -= len(part)
		}
	}
	return nil
}

func (ctx *EmitterVisitorContext) sourceLines() []*EmittedLine {
	if len(ctx.lines) > 0 && len(ctx.lines[len(ctx.lines)-1].Parts) == 0 {
		return ctx.lines[:len(ctx.lines)-1]
	}
	return ctx.lines
}

// EmitterVisitor prints IR as JavaScript-like source.
// Every binary and conditional expression is parenthesized unless it is the
// top-level expression of a statement.
type EmitterVisitor struct {
	topLevel              OutputExpression
	escapeDollarInStrings bool
}

// NewEmitterVisitor creates a new EmitterVisitor
func NewEmitterVisitor(escapeDollarInStrings bool) *EmitterVisitor {
	return &EmitterVisitor{escapeDollarInStrings: escapeDollarInStrings}
}

func (v *EmitterVisitor) getContext(context interface{}) *EmitterVisitorContext {
	if ctx, ok := context.(*EmitterVisitorContext); ok {
		return ctx
	}
	panic("context must be *EmitterVisitorContext")
}

func (v *EmitterVisitor) visitTopLevel(expr OutputExpression, ctx *EmitterVisitorContext) {
	v.topLevel = expr
	expr.VisitExpression(v, ctx)
	v.topLevel = nil
}

func (v *EmitterVisitor) parenthesize(expr OutputExpression) bool {
	if expr == v.topLevel {
		v.topLevel = nil
		return false
	}
	return true
}

// VisitDeclareVarStmt visits a variable declaration
func (v *EmitterVisitor) VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	if stmt.HasModifier(StmtModifierExported) {
		ctx.Print(stmt, "export ", false)
	}
	if stmt.HasModifier(StmtModifierFinal) {
		ctx.Print(stmt, "const ", false)
	} else {
		ctx.Print(stmt, "var ", false)
	}
	ctx.Print(stmt, stmt.Name, false)
	if stmt.Value != nil {
		ctx.Print(stmt, " = ", false)
		v.visitTopLevel(stmt.Value, ctx)
	}
	ctx.Println(stmt, ";")
	return nil
}

// VisitDeclareFunctionStmt visits a function declaration
func (v *EmitterVisitor) VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	if stmt.HasModifier(StmtModifierExported) {
		ctx.Print(stmt, "export ", false)
	}
	ctx.Print(stmt, "function "+stmt.Name+"(", false)
	v.visitParams(stmt.Params, ctx)
	ctx.Println(stmt, ") {")
	ctx.IncIndent()
	v.VisitAllStatements(stmt.Statements, ctx)
	ctx.DecIndent()
	ctx.Println(stmt, "}")
	return nil
}

// VisitExpressionStmt visits an expression statement
func (v *EmitterVisitor) VisitExpressionStmt(stmt *ExpressionStatement, context interface{}) interface{} {
	ctx := v.getContext(context)
	v.visitTopLevel(stmt.Expr, ctx)
	ctx.Println(stmt, ";")
	return nil
}

// VisitReturnStmt visits a return statement
func (v *EmitterVisitor) VisitReturnStmt(stmt *ReturnStatement, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print(stmt, "return ", false)
	v.visitTopLevel(stmt.Value, ctx)
	ctx.Println(stmt, ";")
	return nil
}

// VisitIfStmt visits an if statement
func (v *EmitterVisitor) VisitIfStmt(stmt *IfStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print(stmt, "if (", false)
	v.visitTopLevel(stmt.Condition, ctx)
	ctx.Println(stmt, ") {")
	ctx.IncIndent()
	v.VisitAllStatements(stmt.TrueCase, ctx)
	ctx.DecIndent()
	if len(stmt.FalseCase) > 0 {
		ctx.Println(stmt, "} else {")
		ctx.IncIndent()
		v.VisitAllStatements(stmt.FalseCase, ctx)
		ctx.DecIndent()
	}
	ctx.Println(stmt, "}")
	return nil
}

// VisitReadVarExpr visits a read variable expression
func (v *EmitterVisitor) VisitReadVarExpr(ast *ReadVarExpr, context interface{}) interface{} {
	v.getContext(context).Print(ast, ast.Name, false)
	return nil
}

// VisitLiteralExpr visits a literal expression
func (v *EmitterVisitor) VisitLiteralExpr(ast *LiteralExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	switch val := ast.Value.(type) {
	case nil:
		ctx.Print(ast, "null", false)
	case string:
		ctx.Print(ast, EscapeIdentifier(val, v.escapeDollarInStrings, true), false)
	case float64:
		ctx.Print(ast, strconv.FormatFloat(val, 'f', -1, 64), false)
	default:
		ctx.Print(ast, fmt.Sprintf("%v", val), false)
	}
	return nil
}

// VisitLiteralArrayExpr visits a literal array expression
func (v *EmitterVisitor) VisitLiteralArrayExpr(ast *LiteralArrayExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print(ast, "[", false)
	v.VisitAllExpressions(ast.Entries, ctx, ", ")
	ctx.Print(ast, "]", false)
	return nil
}

// VisitLiteralMapExpr visits a literal map expression
func (v *EmitterVisitor) VisitLiteralMapExpr(ast *LiteralMapExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print(ast, "{", false)
	for i, entry := range ast.Entries {
		if i > 0 {
			ctx.Print(nil, ", ", false)
		}
		ctx.Print(ast, EscapeIdentifier(entry.Key, v.escapeDollarInStrings, entry.Quoted)+": ", false)
		entry.Value.VisitExpression(v, ctx)
	}
	ctx.Print(ast, "}", false)
	return nil
}

// VisitReadPropExpr visits a read property expression
func (v *EmitterVisitor) VisitReadPropExpr(ast *ReadPropExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ast.Receiver.VisitExpression(v, ctx)
	ctx.Print(ast, ".", false)
	ctx.Print(ast, ast.Name, false)
	return nil
}

// VisitReadKeyExpr visits a read key expression
func (v *EmitterVisitor) VisitReadKeyExpr(ast *ReadKeyExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ast.Receiver.VisitExpression(v, ctx)
	ctx.Print(ast, "[", false)
	ast.Index.VisitExpression(v, ctx)
	ctx.Print(ast, "]", false)
	return nil
}

// VisitInvokeFunctionExpr visits an invoke function expression
func (v *EmitterVisitor) VisitInvokeFunctionExpr(expr *InvokeFunctionExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	_, isFn := expr.Fn.(*FunctionExpr)
	if isFn {
		ctx.Print(expr.Fn, "(", false)
	}
	expr.Fn.VisitExpression(v, ctx)
	if isFn {
		ctx.Print(expr.Fn, ")", false)
	}
	ctx.Print(expr, "(", false)
	v.VisitAllExpressions(expr.Args, ctx, ", ")
	ctx.Print(expr, ")", false)
	return nil
}

// VisitBinaryOperatorExpr visits a binary operator expression
func (v *EmitterVisitor) VisitBinaryOperatorExpr(ast *BinaryOperatorExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	operator, ok := binaryOperators[ast.Operator]
	if !ok {
		panic(fmt.Sprintf("Unknown operator %d", ast.Operator))
	}
	parens := v.parenthesize(ast)
	if parens {
		ctx.Print(ast, "(", false)
	}
	ast.Lhs.VisitExpression(v, ctx)
	ctx.Print(ast, " "+operator+" ", false)
	ast.Rhs.VisitExpression(v, ctx)
	if parens {
		ctx.Print(ast, ")", false)
	}
	return nil
}

// VisitNotExpr visits a not expression
func (v *EmitterVisitor) VisitNotExpr(ast *NotExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	v.parenthesize(ast)
	ctx.Print(ast, "!", false)
	ast.Condition.VisitExpression(v, ctx)
	return nil
}

// VisitAssertNotNullExpr visits a non-null assertion
func (v *EmitterVisitor) VisitAssertNotNullExpr(ast *AssertNotNullExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	v.parenthesize(ast)
	ast.Condition.VisitExpression(v, ctx)
	ctx.Print(ast, "!", false)
	return nil
}

// VisitCastExpr visits a cast expression
func (v *EmitterVisitor) VisitCastExpr(ast *CastExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	v.parenthesize(ast)
	ctx.Print(ast, "(", false)
	ast.Value.VisitExpression(v, ctx)
	ctx.Print(ast, " as any)", false)
	return nil
}

// VisitConditionalExpr visits a conditional expression
func (v *EmitterVisitor) VisitConditionalExpr(ast *ConditionalExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	parens := v.parenthesize(ast)
	if parens {
		ctx.Print(ast, "(", false)
	}
	ast.Condition.VisitExpression(v, ctx)
	ctx.Print(ast, " ? ", false)
	ast.TrueCase.VisitExpression(v, ctx)
	ctx.Print(ast, " : ", false)
	if ast.FalseCase != nil {
		ast.FalseCase.VisitExpression(v, ctx)
	} else {
		ctx.Print(ast, "null", false)
	}
	if parens {
		ctx.Print(ast, ")", false)
	}
	return nil
}

// VisitExternalExpr visits an external reference
func (v *EmitterVisitor) VisitExternalExpr(ast *ExternalExpr, context interface{}) interface{} {
	v.getContext(context).Print(ast, ast.Value.Name, false)
	return nil
}

// VisitFunctionExpr visits a function literal
func (v *EmitterVisitor) VisitFunctionExpr(ast *FunctionExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	v.parenthesize(ast)
	ctx.Print(ast, "function", false)
	if ast.Name != "" {
		ctx.Print(ast, " "+ast.Name, false)
	}
	ctx.Print(ast, "(", false)
	v.visitParams(ast.Params, ctx)
	ctx.Println(ast, ") {")
	ctx.IncIndent()
	v.VisitAllStatements(ast.Statements, ctx)
	ctx.DecIndent()
	ctx.Print(ast, "}", false)
	return nil
}

func (v *EmitterVisitor) visitParams(params []*FnParam, ctx *EmitterVisitorContext) {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	ctx.Print(nil, strings.Join(names, ", "), false)
}

// VisitAllExpressions visits all expressions, joined by separator
func (v *EmitterVisitor) VisitAllExpressions(expressions []OutputExpression, ctx *EmitterVisitorContext, separator string) {
	for i, expr := range expressions {
		if i > 0 {
			ctx.Print(nil, separator, false)
		}
		expr.VisitExpression(v, ctx)
	}
}

// VisitAllStatements visits all statements
func (v *EmitterVisitor) VisitAllStatements(statements []OutputStatement, ctx *EmitterVisitorContext) {
	for _, stmt := range statements {
		stmt.VisitStatement(v, ctx)
	}
}

// EmitStatements prints statements, one per line
func EmitStatements(stmts []OutputStatement) string {
	ctx := CreateRootEmitterVisitorContext()
	NewEmitterVisitor(false).VisitAllStatements(stmts, ctx)
	return ctx.ToSource()
}

// EmitExpression prints a single expression
func EmitExpression(expr OutputExpression) string {
	ctx := CreateRootEmitterVisitorContext()
	v := NewEmitterVisitor(false)
	v.visitTopLevel(expr, ctx)
	return ctx.ToSource()
}

// EscapeIdentifier escapes an identifier, quoting it when required
func EscapeIdentifier(input string, escapeDollar bool, alwaysQuote bool) string {
	body := singleQuoteEscapeStringRe.ReplaceAllStringFunc(input, func(match string) string {
		switch match {
		case "$":
			if escapeDollar {
				return "\\$"
			}
			return "$"
		case "\n":
			return "\\n"
		case "\r":
			return "\\r"
		default:
			return "\\" + match
		}
	})

	if alwaysQuote || !legalIdentifierRe.MatchString(body) {
		return "'" + body + "'"
	}
	return body
}
