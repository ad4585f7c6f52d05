package expression_parser

import (
	"errors"

	"ngc-lower/packages/compiler/output"
)

// ParseSpan represents a span within an expression
type ParseSpan struct {
	Start int
	End   int
}

// NewParseSpan creates a new ParseSpan
func NewParseSpan(start, end int) *ParseSpan {
	return &ParseSpan{Start: start, End: end}
}

// ToAbsolute converts a ParseSpan to an AbsoluteSourceSpan
func (ps *ParseSpan) ToAbsolute(absoluteOffset int) *AbsoluteSourceSpan {
	return NewAbsoluteSourceSpan(absoluteOffset+ps.Start, absoluteOffset+ps.End)
}

// AbsoluteSourceSpan records the absolute position of a text span in a source file
type AbsoluteSourceSpan struct {
	Start int
	End   int
}

// NewAbsoluteSourceSpan creates a new AbsoluteSourceSpan
func NewAbsoluteSourceSpan(start, end int) *AbsoluteSourceSpan {
	return &AbsoluteSourceSpan{Start: start, End: end}
}

// AST is an expression node. The set of node kinds is closed; node identity
// is pointer identity.
type AST interface {
	Span() *ParseSpan
	SourceSpan() *AbsoluteSourceSpan
	Visit(visitor AstVisitor, context interface{}) interface{}
	astNode()
}

type astBase struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
}

// Span returns the parse span
func (a *astBase) Span() *ParseSpan {
	return a.span
}

// SourceSpan returns the absolute source span
func (a *astBase) SourceSpan() *AbsoluteSourceSpan {
	return a.sourceSpan
}

func (*astBase) astNode() {}

func newBase(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) astBase {
	if sourceSpan == nil && span != nil {
		sourceSpan = span.ToAbsolute(0)
	}
	return astBase{span: span, sourceSpan: sourceSpan}
}

// ImplicitReceiver is the receiver of a bare name; it stands for the component context
type ImplicitReceiver struct {
	astBase
}

// NewImplicitReceiver creates a new ImplicitReceiver
func NewImplicitReceiver(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *ImplicitReceiver {
	return &ImplicitReceiver{astBase: newBase(span, sourceSpan)}
}

// Visit implements the AST interface
func (i *ImplicitReceiver) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitImplicitReceiver(i, context)
}

// Chain represents multiple expressions separated by a semicolon
type Chain struct {
	astBase
	Expressions []AST
}

// NewChain creates a new Chain
func NewChain(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expressions []AST) *Chain {
	return &Chain{astBase: newBase(span, sourceSpan), Expressions: expressions}
}

// Visit implements the AST interface
func (c *Chain) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitChain(c, context)
}

// Conditional is the ternary operator
type Conditional struct {
	astBase
	Condition AST
	TrueExp   AST
	FalseExp  AST
}

// NewConditional creates a new Conditional
func NewConditional(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, condition, trueExp, falseExp AST) *Conditional {
	return &Conditional{astBase: newBase(span, sourceSpan), Condition: condition, TrueExp: trueExp, FalseExp: falseExp}
}

// Visit implements the AST interface
func (c *Conditional) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitConditional(c, context)
}

// PropertyRead reads a named property of its receiver
type PropertyRead struct {
	astBase
	Receiver AST
	Name     string
}

// NewPropertyRead creates a new PropertyRead
func NewPropertyRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, name string) *PropertyRead {
	return &PropertyRead{astBase: newBase(span, sourceSpan), Receiver: receiver, Name: name}
}

// Visit implements the AST interface
func (p *PropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPropertyRead(p, context)
}

// PropertyWrite assigns a named property of its receiver
type PropertyWrite struct {
	astBase
	Receiver AST
	Name     string
	Value    AST
}

// NewPropertyWrite creates a new PropertyWrite
func NewPropertyWrite(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, name string, value AST) *PropertyWrite {
	return &PropertyWrite{astBase: newBase(span, sourceSpan), Receiver: receiver, Name: name, Value: value}
}

// Visit implements the AST interface
func (p *PropertyWrite) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPropertyWrite(p, context)
}

// SafePropertyRead is receiver?.name
type SafePropertyRead struct {
	astBase
	Receiver AST
	Name     string
}

// NewSafePropertyRead creates a new SafePropertyRead
func NewSafePropertyRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, name string) *SafePropertyRead {
	return &SafePropertyRead{astBase: newBase(span, sourceSpan), Receiver: receiver, Name: name}
}

// Visit implements the AST interface
func (s *SafePropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafePropertyRead(s, context)
}

// KeyedRead is obj[key]
type KeyedRead struct {
	astBase
	Obj AST
	Key AST
}

// NewKeyedRead creates a new KeyedRead
func NewKeyedRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, obj, key AST) *KeyedRead {
	return &KeyedRead{astBase: newBase(span, sourceSpan), Obj: obj, Key: key}
}

// Visit implements the AST interface
func (k *KeyedRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitKeyedRead(k, context)
}

// KeyedWrite is obj[key] = value
type KeyedWrite struct {
	astBase
	Obj   AST
	Key   AST
	Value AST
}

// NewKeyedWrite creates a new KeyedWrite
func NewKeyedWrite(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, obj, key, value AST) *KeyedWrite {
	return &KeyedWrite{astBase: newBase(span, sourceSpan), Obj: obj, Key: key, Value: value}
}

// Visit implements the AST interface
func (k *KeyedWrite) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitKeyedWrite(k, context)
}

// MethodCall is receiver.name(args)
type MethodCall struct {
	astBase
	Receiver AST
	Name     string
	Args     []AST
}

// NewMethodCall creates a new MethodCall
func NewMethodCall(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, name string, args []AST) *MethodCall {
	return &MethodCall{astBase: newBase(span, sourceSpan), Receiver: receiver, Name: name, Args: args}
}

// Visit implements the AST interface
func (m *MethodCall) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitMethodCall(m, context)
}

// SafeMethodCall is receiver?.name(args)
type SafeMethodCall struct {
	astBase
	Receiver AST
	Name     string
	Args     []AST
}

// NewSafeMethodCall creates a new SafeMethodCall
func NewSafeMethodCall(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, name string, args []AST) *SafeMethodCall {
	return &SafeMethodCall{astBase: newBase(span, sourceSpan), Receiver: receiver, Name: name, Args: args}
}

// Visit implements the AST interface
func (s *SafeMethodCall) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafeMethodCall(s, context)
}

// FunctionCall calls the value of an arbitrary expression
type FunctionCall struct {
	astBase
	Target AST
	Args   []AST
}

// NewFunctionCall creates a new FunctionCall
func NewFunctionCall(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, target AST, args []AST) *FunctionCall {
	return &FunctionCall{astBase: newBase(span, sourceSpan), Target: target, Args: args}
}

// Visit implements the AST interface
func (f *FunctionCall) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitFunctionCall(f, context)
}

// Binary applies a binary operator; Operation is its source text
type Binary struct {
	astBase
	Operation string
	Left      AST
	Right     AST
}

// NewBinary creates a new Binary
func NewBinary(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, operation string, left, right AST) *Binary {
	return &Binary{astBase: newBase(span, sourceSpan), Operation: operation, Left: left, Right: right}
}

// Visit implements the AST interface
func (b *Binary) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitBinary(b, context)
}

// PrefixNot is !expression
type PrefixNot struct {
	astBase
	Expression AST
}

// NewPrefixNot creates a new PrefixNot
func NewPrefixNot(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *PrefixNot {
	return &PrefixNot{astBase: newBase(span, sourceSpan), Expression: expression}
}

// Visit implements the AST interface
func (p *PrefixNot) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPrefixNot(p, context)
}

// NonNullAssert is expression!
type NonNullAssert struct {
	astBase
	Expression AST
}

// NewNonNullAssert creates a new NonNullAssert
func NewNonNullAssert(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *NonNullAssert {
	return &NonNullAssert{astBase: newBase(span, sourceSpan), Expression: expression}
}

// Visit implements the AST interface
func (n *NonNullAssert) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitNonNullAssert(n, context)
}

// LiteralPrimitive holds nil, a bool, a float64 or a string
type LiteralPrimitive struct {
	astBase
	Value interface{}
}

// NewLiteralPrimitive creates a new LiteralPrimitive
func NewLiteralPrimitive(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, value interface{}) *LiteralPrimitive {
	return &LiteralPrimitive{astBase: newBase(span, sourceSpan), Value: value}
}

// Visit implements the AST interface
func (l *LiteralPrimitive) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralPrimitive(l, context)
}

// LiteralArray is [e0, e1, ...]
type LiteralArray struct {
	astBase
	Expressions []AST
}

// NewLiteralArray creates a new LiteralArray
func NewLiteralArray(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expressions []AST) *LiteralArray {
	return &LiteralArray{astBase: newBase(span, sourceSpan), Expressions: expressions}
}

// Visit implements the AST interface
func (l *LiteralArray) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralArray(l, context)
}

// LiteralMapKey is one key of a map literal
type LiteralMapKey struct {
	Key    string
	Quoted bool
}

// LiteralMap is {k0: v0, ...}
type LiteralMap struct {
	astBase
	Keys   []LiteralMapKey
	Values []AST
}

// NewLiteralMap creates a new LiteralMap
func NewLiteralMap(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, keys []LiteralMapKey, values []AST) *LiteralMap {
	return &LiteralMap{astBase: newBase(span, sourceSpan), Keys: keys, Values: values}
}

// Visit implements the AST interface
func (l *LiteralMap) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralMap(l, context)
}

// Interpolation alternates len(Expressions)+1 static strings with the expressions
type Interpolation struct {
	astBase
	Strings     []string
	Expressions []AST
}

// NewInterpolation creates a new Interpolation
func NewInterpolation(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, strings []string, expressions []AST) *Interpolation {
	return &Interpolation{astBase: newBase(span, sourceSpan), Strings: strings, Expressions: expressions}
}

// Visit implements the AST interface
func (i *Interpolation) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitInterpolation(i, context)
}

// BindingPipe is exp | name:arg0:arg1
type BindingPipe struct {
	astBase
	Exp  AST
	Name string
	Args []AST
}

// NewBindingPipe creates a new BindingPipe
func NewBindingPipe(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, exp AST, name string, args []AST) *BindingPipe {
	return &BindingPipe{astBase: newBase(span, sourceSpan), Exp: exp, Name: name, Args: args}
}

// Visit implements the AST interface
func (b *BindingPipe) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPipe(b, context)
}

// Quote is a `prefix: uninterpreted` escape hatch that the compiler rejects
type Quote struct {
	astBase
	Prefix                  string
	UninterpretedExpression string
	Location                string
}

// NewQuote creates a new Quote
func NewQuote(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, prefix, uninterpretedExpression, location string) *Quote {
	return &Quote{
		astBase:                 newBase(span, sourceSpan),
		Prefix:                  prefix,
		UninterpretedExpression: uninterpretedExpression,
		Location:                location,
	}
}

// Visit implements the AST interface
func (q *Quote) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitQuote(q, context)
}

// BuiltinConverter turns already lowered arguments into an IR expression
type BuiltinConverter func(args []output.OutputExpression) output.OutputExpression

// BuiltinFunctionCall replaces a pipe or a literal collection before lowering.
// Args are lowered and handed to Converter.
type BuiltinFunctionCall struct {
	astBase
	Args      []AST
	Converter BuiltinConverter
}

// NewBuiltinFunctionCall creates a new BuiltinFunctionCall
func NewBuiltinFunctionCall(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, args []AST, converter BuiltinConverter) *BuiltinFunctionCall {
	return &BuiltinFunctionCall{astBase: newBase(span, sourceSpan), Args: args, Converter: converter}
}

// Visit implements the AST interface
func (b *BuiltinFunctionCall) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitBuiltinFunctionCall(b, context)
}

// ASTWithSource pairs a parsed expression with its source text and parse errors
type ASTWithSource struct {
	AST      AST
	Source   string
	Location string
	Errors   []*ParserError
}

// NewASTWithSource creates a new ASTWithSource
func NewASTWithSource(ast AST, source, location string, errors []*ParserError) *ASTWithSource {
	return &ASTWithSource{AST: ast, Source: source, Location: location, Errors: errors}
}

// Err returns the parse errors joined into one error, or nil
func (a *ASTWithSource) Err() error {
	errs := make([]error, len(a.Errors))
	for i, e := range a.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
