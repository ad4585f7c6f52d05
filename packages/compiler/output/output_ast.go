package output

import (
	"ngc-lower/packages/compiler/util"
)

// BuiltinTypeName represents builtin type names
type BuiltinTypeName int

const (
	BuiltinTypeNameDynamic BuiltinTypeName = iota
	BuiltinTypeNameBool
	BuiltinTypeNameString
	BuiltinTypeNameNumber
	BuiltinTypeNameFunction
	BuiltinTypeNameInferred
	BuiltinTypeNameNone
)

// Type is the static type attached to an IR node
type Type interface {
	isType()
}

// BuiltinType represents a builtin type
type BuiltinType struct {
	Name BuiltinTypeName
}

// NewBuiltinType creates a new BuiltinType
func NewBuiltinType(name BuiltinTypeName) *BuiltinType {
	return &BuiltinType{Name: name}
}

func (*BuiltinType) isType() {}

var (
	DynamicType  = NewBuiltinType(BuiltinTypeNameDynamic)
	InferredType = NewBuiltinType(BuiltinTypeNameInferred)
	BoolType     = NewBuiltinType(BuiltinTypeNameBool)
	NumberType   = NewBuiltinType(BuiltinTypeNameNumber)
	StringType   = NewBuiltinType(BuiltinTypeNameString)
	FunctionType = NewBuiltinType(BuiltinTypeNameFunction)
	NoneType     = NewBuiltinType(BuiltinTypeNameNone)
)

// BinaryOperator represents binary operators
type BinaryOperator int

const (
	BinaryOperatorEquals BinaryOperator = iota
	BinaryOperatorNotEquals
	BinaryOperatorIdentical
	BinaryOperatorNotIdentical
	BinaryOperatorMinus
	BinaryOperatorPlus
	BinaryOperatorDivide
	BinaryOperatorMultiply
	BinaryOperatorModulo
	BinaryOperatorAnd
	BinaryOperatorOr
	BinaryOperatorBitwiseAnd
	BinaryOperatorLower
	BinaryOperatorLowerEquals
	BinaryOperatorBigger
	BinaryOperatorBiggerEquals
	BinaryOperatorAssign
)

// OutputExpression is the base interface for all IR expressions.
// The set of implementations is closed: every ExpressionVisitor must handle each of them.
type OutputExpression interface {
	VisitExpression(visitor ExpressionVisitor, context interface{}) interface{}
	GetType() Type
	GetSourceSpan() *util.ParseSourceSpan
	IsEquivalent(e OutputExpression) bool
	IsConstant() bool
}

// ExpressionVisitor visits every kind of IR expression
type ExpressionVisitor interface {
	VisitReadVarExpr(ast *ReadVarExpr, context interface{}) interface{}
	VisitLiteralExpr(ast *LiteralExpr, context interface{}) interface{}
	VisitLiteralArrayExpr(ast *LiteralArrayExpr, context interface{}) interface{}
	VisitLiteralMapExpr(ast *LiteralMapExpr, context interface{}) interface{}
	VisitReadPropExpr(ast *ReadPropExpr, context interface{}) interface{}
	VisitReadKeyExpr(ast *ReadKeyExpr, context interface{}) interface{}
	VisitInvokeFunctionExpr(ast *InvokeFunctionExpr, context interface{}) interface{}
	VisitBinaryOperatorExpr(ast *BinaryOperatorExpr, context interface{}) interface{}
	VisitNotExpr(ast *NotExpr, context interface{}) interface{}
	VisitAssertNotNullExpr(ast *AssertNotNullExpr, context interface{}) interface{}
	VisitCastExpr(ast *CastExpr, context interface{}) interface{}
	VisitConditionalExpr(ast *ConditionalExpr, context interface{}) interface{}
	VisitExternalExpr(ast *ExternalExpr, context interface{}) interface{}
	VisitFunctionExpr(ast *FunctionExpr, context interface{}) interface{}
}

// ExpressionBase holds the fields shared by all IR expressions
type ExpressionBase struct {
	Type       Type
	SourceSpan *util.ParseSourceSpan
}

// GetType returns the type of the expression
func (e *ExpressionBase) GetType() Type {
	return e.Type
}

// GetSourceSpan returns the source span of the expression
func (e *ExpressionBase) GetSourceSpan() *util.ParseSourceSpan {
	return e.SourceSpan
}

// ReadVarExpr reads a variable
type ReadVarExpr struct {
	ExpressionBase
	Name string
}

// NewReadVarExpr creates a new ReadVarExpr
func NewReadVarExpr(name string, typ Type, sourceSpan *util.ParseSourceSpan) *ReadVarExpr {
	return &ReadVarExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Name:           name,
	}
}

// VisitExpression implements OutputExpression
func (r *ReadVarExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadVarExpr(r, context)
}

// IsEquivalent checks if two expressions are equivalent
func (r *ReadVarExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*ReadVarExpr)
	return ok && r.Name == other.Name
}

// IsConstant checks if the expression is constant
func (r *ReadVarExpr) IsConstant() bool {
	return false
}

// Set assigns value to the variable
func (r *ReadVarExpr) Set(value OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorAssign, r, value, nil, r.SourceSpan)
}

// LiteralExpr is a primitive literal: nil, bool, float64, int or string
type LiteralExpr struct {
	ExpressionBase
	Value interface{}
}

// NewLiteralExpr creates a new LiteralExpr
func NewLiteralExpr(value interface{}, typ Type, sourceSpan *util.ParseSourceSpan) *LiteralExpr {
	return &LiteralExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Value:          value,
	}
}

// VisitExpression implements OutputExpression
func (l *LiteralExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralExpr(l, context)
}

// IsEquivalent checks if two expressions are equivalent
func (l *LiteralExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*LiteralExpr)
	return ok && l.Value == other.Value
}

// IsConstant checks if the expression is constant
func (l *LiteralExpr) IsConstant() bool {
	return true
}

// LiteralArrayExpr is an array literal
type LiteralArrayExpr struct {
	ExpressionBase
	Entries []OutputExpression
}

// NewLiteralArrayExpr creates a new LiteralArrayExpr
func NewLiteralArrayExpr(entries []OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *LiteralArrayExpr {
	return &LiteralArrayExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Entries:        entries,
	}
}

// VisitExpression implements OutputExpression
func (l *LiteralArrayExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralArrayExpr(l, context)
}

// IsEquivalent checks if two expressions are equivalent
func (l *LiteralArrayExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*LiteralArrayExpr)
	return ok && AreAllEquivalent(l.Entries, other.Entries)
}

// IsConstant checks if the expression is constant
func (l *LiteralArrayExpr) IsConstant() bool {
	for _, entry := range l.Entries {
		if !entry.IsConstant() {
			return false
		}
	}
	return true
}

// LiteralMapEntry is one key/value pair of a map literal
type LiteralMapEntry struct {
	Key    string
	Value  OutputExpression
	Quoted bool
}

// NewLiteralMapEntry creates a new LiteralMapEntry
func NewLiteralMapEntry(key string, value OutputExpression, quoted bool) *LiteralMapEntry {
	return &LiteralMapEntry{Key: key, Value: value, Quoted: quoted}
}

// LiteralMapExpr is an object literal
type LiteralMapExpr struct {
	ExpressionBase
	Entries []*LiteralMapEntry
}

// NewLiteralMapExpr creates a new LiteralMapExpr
func NewLiteralMapExpr(entries []*LiteralMapEntry, typ Type, sourceSpan *util.ParseSourceSpan) *LiteralMapExpr {
	return &LiteralMapExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Entries:        entries,
	}
}

// VisitExpression implements OutputExpression
func (l *LiteralMapExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralMapExpr(l, context)
}

// IsEquivalent checks if two expressions are equivalent
func (l *LiteralMapExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*LiteralMapExpr)
	if !ok || len(l.Entries) != len(other.Entries) {
		return false
	}
	for i, entry := range l.Entries {
		o := other.Entries[i]
		if entry.Key != o.Key || entry.Quoted != o.Quoted || !entry.Value.IsEquivalent(o.Value) {
			return false
		}
	}
	return true
}

// IsConstant checks if the expression is constant
func (l *LiteralMapExpr) IsConstant() bool {
	for _, entry := range l.Entries {
		if !entry.Value.IsConstant() {
			return false
		}
	}
	return true
}

// ReadPropExpr reads a named property of a receiver
type ReadPropExpr struct {
	ExpressionBase
	Receiver OutputExpression
	Name     string
}

// NewReadPropExpr creates a new ReadPropExpr
func NewReadPropExpr(receiver OutputExpression, name string, typ Type, sourceSpan *util.ParseSourceSpan) *ReadPropExpr {
	return &ReadPropExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Receiver:       receiver,
		Name:           name,
	}
}

// VisitExpression implements OutputExpression
func (r *ReadPropExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadPropExpr(r, context)
}

// IsEquivalent checks if two expressions are equivalent
func (r *ReadPropExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*ReadPropExpr)
	return ok && r.Name == other.Name && r.Receiver.IsEquivalent(other.Receiver)
}

// IsConstant checks if the expression is constant
func (r *ReadPropExpr) IsConstant() bool {
	return false
}

// Set assigns value to the property
func (r *ReadPropExpr) Set(value OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorAssign, r, value, nil, r.SourceSpan)
}

// ReadKeyExpr reads a keyed entry of a receiver
type ReadKeyExpr struct {
	ExpressionBase
	Receiver OutputExpression
	Index    OutputExpression
}

// NewReadKeyExpr creates a new ReadKeyExpr
func NewReadKeyExpr(receiver, index OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *ReadKeyExpr {
	return &ReadKeyExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Receiver:       receiver,
		Index:          index,
	}
}

// VisitExpression implements OutputExpression
func (r *ReadKeyExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadKeyExpr(r, context)
}

// IsEquivalent checks if two expressions are equivalent
func (r *ReadKeyExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*ReadKeyExpr)
	return ok && r.Receiver.IsEquivalent(other.Receiver) && r.Index.IsEquivalent(other.Index)
}

// IsConstant checks if the expression is constant
func (r *ReadKeyExpr) IsConstant() bool {
	return false
}

// Set assigns value to the keyed entry
func (r *ReadKeyExpr) Set(value OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorAssign, r, value, nil, r.SourceSpan)
}

// InvokeFunctionExpr calls a function value
type InvokeFunctionExpr struct {
	ExpressionBase
	Fn   OutputExpression
	Args []OutputExpression
	Pure bool
}

// NewInvokeFunctionExpr creates a new InvokeFunctionExpr
func NewInvokeFunctionExpr(fn OutputExpression, args []OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan, pure bool) *InvokeFunctionExpr {
	return &InvokeFunctionExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Fn:             fn,
		Args:           args,
		Pure:           pure,
	}
}

// VisitExpression implements OutputExpression
func (i *InvokeFunctionExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitInvokeFunctionExpr(i, context)
}

// IsEquivalent checks if two expressions are equivalent
func (i *InvokeFunctionExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*InvokeFunctionExpr)
	return ok && i.Fn.IsEquivalent(other.Fn) && AreAllEquivalent(i.Args, other.Args) && i.Pure == other.Pure
}

// IsConstant checks if the expression is constant
func (i *InvokeFunctionExpr) IsConstant() bool {
	return false
}

// BinaryOperatorExpr applies a binary operator; assignment is the Assign operator
type BinaryOperatorExpr struct {
	ExpressionBase
	Operator BinaryOperator
	Lhs      OutputExpression
	Rhs      OutputExpression
}

// NewBinaryOperatorExpr creates a new BinaryOperatorExpr
func NewBinaryOperatorExpr(operator BinaryOperator, lhs, rhs OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *BinaryOperatorExpr {
	if typ == nil {
		typ = lhs.GetType()
	}
	return &BinaryOperatorExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Operator:       operator,
		Lhs:            lhs,
		Rhs:            rhs,
	}
}

// VisitExpression implements OutputExpression
func (b *BinaryOperatorExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitBinaryOperatorExpr(b, context)
}

// IsEquivalent checks if two expressions are equivalent
func (b *BinaryOperatorExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*BinaryOperatorExpr)
	return ok && b.Operator == other.Operator && b.Lhs.IsEquivalent(other.Lhs) && b.Rhs.IsEquivalent(other.Rhs)
}

// IsConstant checks if the expression is constant
func (b *BinaryOperatorExpr) IsConstant() bool {
	return false
}

// IsAssignment reports whether the operator is an assignment
func (b *BinaryOperatorExpr) IsAssignment() bool {
	return b.Operator == BinaryOperatorAssign
}

// NotExpr negates a condition
type NotExpr struct {
	ExpressionBase
	Condition OutputExpression
}

// NewNotExpr creates a new NotExpr
func NewNotExpr(condition OutputExpression, sourceSpan *util.ParseSourceSpan) *NotExpr {
	return &NotExpr{
		ExpressionBase: ExpressionBase{Type: BoolType, SourceSpan: sourceSpan},
		Condition:      condition,
	}
}

// VisitExpression implements OutputExpression
func (n *NotExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitNotExpr(n, context)
}

// IsEquivalent checks if two expressions are equivalent
func (n *NotExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*NotExpr)
	return ok && n.Condition.IsEquivalent(other.Condition)
}

// IsConstant checks if the expression is constant
func (n *NotExpr) IsConstant() bool {
	return false
}

// AssertNotNullExpr asserts its operand is neither null nor undefined
type AssertNotNullExpr struct {
	ExpressionBase
	Condition OutputExpression
}

// NewAssertNotNullExpr creates a new AssertNotNullExpr
func NewAssertNotNullExpr(condition OutputExpression, sourceSpan *util.ParseSourceSpan) *AssertNotNullExpr {
	return &AssertNotNullExpr{
		ExpressionBase: ExpressionBase{Type: condition.GetType(), SourceSpan: sourceSpan},
		Condition:      condition,
	}
}

// VisitExpression implements OutputExpression
func (a *AssertNotNullExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitAssertNotNullExpr(a, context)
}

// IsEquivalent checks if two expressions are equivalent
func (a *AssertNotNullExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*AssertNotNullExpr)
	return ok && a.Condition.IsEquivalent(other.Condition)
}

// IsConstant checks if the expression is constant
func (a *AssertNotNullExpr) IsConstant() bool {
	return false
}

// CastExpr erases the static type of its value
type CastExpr struct {
	ExpressionBase
	Value OutputExpression
}

// NewCastExpr creates a new CastExpr
func NewCastExpr(value OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *CastExpr {
	return &CastExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Value:          value,
	}
}

// VisitExpression implements OutputExpression
func (c *CastExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitCastExpr(c, context)
}

// IsEquivalent checks if two expressions are equivalent
func (c *CastExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*CastExpr)
	return ok && c.Type == other.Type && c.Value.IsEquivalent(other.Value)
}

// IsConstant checks if the expression is constant
func (c *CastExpr) IsConstant() bool {
	return false
}

// ConditionalExpr is the ternary operator
type ConditionalExpr struct {
	ExpressionBase
	Condition OutputExpression
	TrueCase  OutputExpression
	FalseCase OutputExpression
}

// NewConditionalExpr creates a new ConditionalExpr
func NewConditionalExpr(condition, trueCase, falseCase OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *ConditionalExpr {
	if typ == nil {
		typ = trueCase.GetType()
	}
	return &ConditionalExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Condition:      condition,
		TrueCase:       trueCase,
		FalseCase:      falseCase,
	}
}

// VisitExpression implements OutputExpression
func (c *ConditionalExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitConditionalExpr(c, context)
}

// IsEquivalent checks if two expressions are equivalent
func (c *ConditionalExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*ConditionalExpr)
	return ok && c.Condition.IsEquivalent(other.Condition) &&
		c.TrueCase.IsEquivalent(other.TrueCase) &&
		NullSafeIsEquivalent(c.FalseCase, other.FalseCase)
}

// IsConstant checks if the expression is constant
func (c *ConditionalExpr) IsConstant() bool {
	return false
}

// ExternalReference names a symbol provided by the runtime
type ExternalReference struct {
	ModuleName string
	Name       string
}

// ExternalExpr references an opaque external symbol
type ExternalExpr struct {
	ExpressionBase
	Value *ExternalReference
}

// NewExternalExpr creates a new ExternalExpr
func NewExternalExpr(value *ExternalReference, typ Type, sourceSpan *util.ParseSourceSpan) *ExternalExpr {
	return &ExternalExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Value:          value,
	}
}

// VisitExpression implements OutputExpression
func (e *ExternalExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitExternalExpr(e, context)
}

// IsEquivalent checks if two expressions are equivalent
func (e *ExternalExpr) IsEquivalent(other OutputExpression) bool {
	o, ok := other.(*ExternalExpr)
	return ok && e.Value.Name == o.Value.Name && e.Value.ModuleName == o.Value.ModuleName
}

// IsConstant checks if the expression is constant
func (e *ExternalExpr) IsConstant() bool {
	return false
}

// FnParam is a function parameter
type FnParam struct {
	Name string
	Type Type
}

// NewFnParam creates a new FnParam
func NewFnParam(name string, typ Type) *FnParam {
	return &FnParam{Name: name, Type: typ}
}

// FunctionExpr is a function literal
type FunctionExpr struct {
	ExpressionBase
	Params     []*FnParam
	Statements []OutputStatement
	Name       string
}

// NewFunctionExpr creates a new FunctionExpr
func NewFunctionExpr(params []*FnParam, statements []OutputStatement, typ Type, sourceSpan *util.ParseSourceSpan, name string) *FunctionExpr {
	return &FunctionExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Params:         params,
		Statements:     statements,
		Name:           name,
	}
}

// VisitExpression implements OutputExpression
func (f *FunctionExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitFunctionExpr(f, context)
}

// IsEquivalent checks if two expressions are equivalent
func (f *FunctionExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*FunctionExpr)
	if !ok || len(f.Params) != len(other.Params) {
		return false
	}
	for i, p := range f.Params {
		if p.Name != other.Params[i].Name {
			return false
		}
	}
	return AreAllEquivalentStatements(f.Statements, other.Statements)
}

// IsConstant checks if the expression is constant
func (f *FunctionExpr) IsConstant() bool {
	return false
}

// ToDeclStmt turns the function into a named declaration
func (f *FunctionExpr) ToDeclStmt(name string, modifiers StmtModifier) *DeclareFunctionStmt {
	return NewDeclareFunctionStmt(name, f.Params, f.Statements, f.Type, modifiers, f.SourceSpan)
}

// NullSafeIsEquivalent compares two possibly nil expressions
func NullSafeIsEquivalent(base, other OutputExpression) bool {
	if base == nil || other == nil {
		return base == other
	}
	return base.IsEquivalent(other)
}

// AreAllEquivalent compares two expression lists element-wise
func AreAllEquivalent(base, other []OutputExpression) bool {
	if len(base) != len(other) {
		return false
	}
	for i := range base {
		if !base[i].IsEquivalent(other[i]) {
			return false
		}
	}
	return true
}

// StmtModifier represents statement modifiers
type StmtModifier int

const (
	StmtModifierNone     StmtModifier = 0
	StmtModifierFinal    StmtModifier = 1 << 0
	StmtModifierExported StmtModifier = 1 << 1
)

// OutputStatement is the base interface for all IR statements
type OutputStatement interface {
	VisitStatement(visitor StatementVisitor, context interface{}) interface{}
	GetSourceSpan() *util.ParseSourceSpan
	IsEquivalent(stmt OutputStatement) bool
}

// StatementVisitor visits every kind of IR statement
type StatementVisitor interface {
	VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{}
	VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{}
	VisitExpressionStmt(stmt *ExpressionStatement, context interface{}) interface{}
	VisitReturnStmt(stmt *ReturnStatement, context interface{}) interface{}
	VisitIfStmt(stmt *IfStmt, context interface{}) interface{}
}

// StatementBase holds the fields shared by all statements
type StatementBase struct {
	Modifiers  StmtModifier
	SourceSpan *util.ParseSourceSpan
}

// GetSourceSpan returns the source span of the statement
func (s *StatementBase) GetSourceSpan() *util.ParseSourceSpan {
	return s.SourceSpan
}

// HasModifier checks if the statement has a modifier
func (s *StatementBase) HasModifier(modifier StmtModifier) bool {
	return s.Modifiers&modifier != 0
}

// DeclareVarStmt declares a variable, optionally initialized
type DeclareVarStmt struct {
	StatementBase
	Name  string
	Value OutputExpression
	Type  Type
}

// NewDeclareVarStmt creates a new DeclareVarStmt
func NewDeclareVarStmt(name string, value OutputExpression, typ Type, modifiers StmtModifier, sourceSpan *util.ParseSourceSpan) *DeclareVarStmt {
	if typ == nil && value != nil {
		typ = value.GetType()
	}
	return &DeclareVarStmt{
		StatementBase: StatementBase{Modifiers: modifiers, SourceSpan: sourceSpan},
		Name:          name,
		Value:         value,
		Type:          typ,
	}
}

// VisitStatement implements OutputStatement
func (d *DeclareVarStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitDeclareVarStmt(d, context)
}

// IsEquivalent checks if two statements are equivalent
func (d *DeclareVarStmt) IsEquivalent(stmt OutputStatement) bool {
	other, ok := stmt.(*DeclareVarStmt)
	return ok && d.Name == other.Name && d.Modifiers == other.Modifiers && NullSafeIsEquivalent(d.Value, other.Value)
}

// DeclareFunctionStmt declares a named function
type DeclareFunctionStmt struct {
	StatementBase
	Name       string
	Params     []*FnParam
	Statements []OutputStatement
	Type       Type
}

// NewDeclareFunctionStmt creates a new DeclareFunctionStmt
func NewDeclareFunctionStmt(name string, params []*FnParam, statements []OutputStatement, typ Type, modifiers StmtModifier, sourceSpan *util.ParseSourceSpan) *DeclareFunctionStmt {
	return &DeclareFunctionStmt{
		StatementBase: StatementBase{Modifiers: modifiers, SourceSpan: sourceSpan},
		Name:          name,
		Params:        params,
		Statements:    statements,
		Type:          typ,
	}
}

// VisitStatement implements OutputStatement
func (d *DeclareFunctionStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitDeclareFunctionStmt(d, context)
}

// IsEquivalent checks if two statements are equivalent
func (d *DeclareFunctionStmt) IsEquivalent(stmt OutputStatement) bool {
	other, ok := stmt.(*DeclareFunctionStmt)
	return ok && d.Name == other.Name && len(d.Params) == len(other.Params) &&
		AreAllEquivalentStatements(d.Statements, other.Statements)
}

// ExpressionStatement evaluates an expression for its effects
type ExpressionStatement struct {
	StatementBase
	Expr OutputExpression
}

// NewExpressionStatement creates a new ExpressionStatement
func NewExpressionStatement(expr OutputExpression, sourceSpan *util.ParseSourceSpan) *ExpressionStatement {
	return &ExpressionStatement{
		StatementBase: StatementBase{SourceSpan: sourceSpan},
		Expr:          expr,
	}
}

// VisitStatement implements OutputStatement
func (e *ExpressionStatement) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitExpressionStmt(e, context)
}

// IsEquivalent checks if two statements are equivalent
func (e *ExpressionStatement) IsEquivalent(stmt OutputStatement) bool {
	other, ok := stmt.(*ExpressionStatement)
	return ok && e.Expr.IsEquivalent(other.Expr)
}

// ReturnStatement returns a value
type ReturnStatement struct {
	StatementBase
	Value OutputExpression
}

// NewReturnStatement creates a new ReturnStatement
func NewReturnStatement(value OutputExpression, sourceSpan *util.ParseSourceSpan) *ReturnStatement {
	return &ReturnStatement{
		StatementBase: StatementBase{SourceSpan: sourceSpan},
		Value:         value,
	}
}

// VisitStatement implements OutputStatement
func (r *ReturnStatement) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitReturnStmt(r, context)
}

// IsEquivalent checks if two statements are equivalent
func (r *ReturnStatement) IsEquivalent(stmt OutputStatement) bool {
	other, ok := stmt.(*ReturnStatement)
	return ok && r.Value.IsEquivalent(other.Value)
}

// IfStmt is a conditional block
type IfStmt struct {
	StatementBase
	Condition OutputExpression
	TrueCase  []OutputStatement
	FalseCase []OutputStatement
}

// NewIfStmt creates a new IfStmt
func NewIfStmt(condition OutputExpression, trueCase, falseCase []OutputStatement, sourceSpan *util.ParseSourceSpan) *IfStmt {
	return &IfStmt{
		StatementBase: StatementBase{SourceSpan: sourceSpan},
		Condition:     condition,
		TrueCase:      trueCase,
		FalseCase:     falseCase,
	}
}

// VisitStatement implements OutputStatement
func (i *IfStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitIfStmt(i, context)
}

// IsEquivalent checks if two statements are equivalent
func (i *IfStmt) IsEquivalent(stmt OutputStatement) bool {
	other, ok := stmt.(*IfStmt)
	return ok && i.Condition.IsEquivalent(other.Condition) &&
		AreAllEquivalentStatements(i.TrueCase, other.TrueCase) &&
		AreAllEquivalentStatements(i.FalseCase, other.FalseCase)
}

// AreAllEquivalentStatements compares two statement lists element-wise
func AreAllEquivalentStatements(base, other []OutputStatement) bool {
	if len(base) != len(other) {
		return false
	}
	for i := range base {
		if !base[i].IsEquivalent(other[i]) {
			return false
		}
	}
	return true
}
