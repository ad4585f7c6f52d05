package pool

import (
	"fmt"
	"strings"

	"ngc-lower/packages/compiler/output"
)

const (
	constantPrefix = "_c"
	// PoolInclusionLengthThresholdForStrings is the length from which string
	// literals are pooled. Shorter primitives are always inlined.
	PoolInclusionLengthThresholdForStrings = 50
)

// unknownValueKey replaces dynamic entries when keying a literal factory, so
// `[a, 1]` and `[b, 1]` share one factory. A variable read cannot collide
// with a real constant.
var unknownValueKey = output.Variable("<unknown>")

// FixupExpression stands for a pooled literal. It starts out as the literal
// itself and is redirected to a shared constant once the literal is seen twice.
type FixupExpression struct {
	output.ExpressionBase
	original output.OutputExpression
	resolved output.OutputExpression
	shared   bool
}

// NewFixupExpression creates a fixup that currently resolves to resolved
func NewFixupExpression(resolved output.OutputExpression) *FixupExpression {
	return &FixupExpression{
		ExpressionBase: output.ExpressionBase{
			Type:       resolved.GetType(),
			SourceSpan: resolved.GetSourceSpan(),
		},
		original: resolved,
		resolved: resolved,
	}
}

// VisitExpression implements output.OutputExpression
func (f *FixupExpression) VisitExpression(visitor output.ExpressionVisitor, context interface{}) interface{} {
	return f.resolved.VisitExpression(visitor, context)
}

// IsEquivalent implements output.OutputExpression
func (f *FixupExpression) IsEquivalent(e output.OutputExpression) bool {
	if other, ok := e.(*FixupExpression); ok {
		return f.resolved.IsEquivalent(other.resolved)
	}
	return false
}

// IsConstant implements output.OutputExpression
func (f *FixupExpression) IsConstant() bool {
	return true
}

// Shared reports whether the literal was moved into a constant
func (f *FixupExpression) Shared() bool {
	return f.shared
}

// Fixup redirects every use to expression
func (f *FixupExpression) Fixup(expression output.OutputExpression) {
	f.resolved = expression
	f.shared = true
}

// ConstantPool collects the constants of one compilation: shared literals
// (`const _c0 = [...]`) and pure-function literal factories.
type ConstantPool struct {
	statements       []output.OutputStatement
	literals         map[string]*FixupExpression
	literalFactories map[string]output.OutputExpression
	claimedNames     map[string]int
}

// NewConstantPool creates an empty pool
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		literals:         make(map[string]*FixupExpression),
		literalFactories: make(map[string]output.OutputExpression),
		claimedNames:     make(map[string]int),
	}
}

// GetConstLiteral returns literal, or a reference to a shared constant holding
// it. A literal becomes shared the second time it is requested, or right away
// when forceShared is set.
func (cp *ConstantPool) GetConstLiteral(literal output.OutputExpression, forceShared bool) output.OutputExpression {
	if (isLiteralExpr(literal) && !isLongStringLiteral(literal)) || isFixupExpression(literal) {
		return literal
	}
	key := KeyOf(literal)
	fixup, exists := cp.literals[key]
	if !exists {
		fixup = NewFixupExpression(literal)
		cp.literals[key] = fixup
	}

	if (exists && !fixup.shared) || (!exists && forceShared) {
		name := cp.freshName()
		cp.statements = append(cp.statements,
			output.NewDeclareVarStmt(name, literal, output.InferredType, output.StmtModifierFinal, nil))
		fixup.Fixup(output.Variable(name))
	}
	return fixup
}

// GetLiteralFactory returns a pure function building literal from its
// non-constant entries, plus those entries in order. literal must be a
// literal array or a literal map.
func (cp *ConstantPool) GetLiteralFactory(literal output.OutputExpression) (output.OutputExpression, []output.OutputExpression) {
	switch lit := literal.(type) {
	case *output.LiteralArrayExpr:
		argumentsForKey := make([]output.OutputExpression, len(lit.Entries))
		for i, e := range lit.Entries {
			if e.IsConstant() {
				argumentsForKey[i] = e
			} else {
				argumentsForKey[i] = unknownValueKey
			}
		}
		key := KeyOf(output.LiteralArr(argumentsForKey))
		return cp.literalFactory(key, lit.Entries, func(entries []output.OutputExpression) output.OutputExpression {
			return output.LiteralArr(entries)
		})

	case *output.LiteralMapExpr:
		entriesForKey := make([]*output.LiteralMapEntry, len(lit.Entries))
		values := make([]output.OutputExpression, len(lit.Entries))
		for i, e := range lit.Entries {
			value := e.Value
			if !value.IsConstant() {
				value = unknownValueKey
			}
			entriesForKey[i] = output.NewLiteralMapEntry(e.Key, value, e.Quoted)
			values[i] = e.Value
		}
		key := KeyOf(output.LiteralMap(entriesForKey))
		return cp.literalFactory(key, values, func(values []output.OutputExpression) output.OutputExpression {
			entries := make([]*output.LiteralMapEntry, len(values))
			for i, value := range values {
				entries[i] = output.NewLiteralMapEntry(lit.Entries[i].Key, value, lit.Entries[i].Quoted)
			}
			return output.LiteralMap(entries)
		})
	}
	panic(fmt.Sprintf("GetLiteralFactory only supports literal arrays and maps, got %T", literal))
}

func (cp *ConstantPool) literalFactory(
	key string,
	values []output.OutputExpression,
	resultMap func([]output.OutputExpression) output.OutputExpression,
) (output.OutputExpression, []output.OutputExpression) {
	arguments := make([]output.OutputExpression, 0, len(values))
	for _, e := range values {
		if !e.IsConstant() {
			arguments = append(arguments, e)
		}
	}
	if factory, exists := cp.literalFactories[key]; exists {
		return factory, arguments
	}

	resultExpressions := make([]output.OutputExpression, len(values))
	var params []*output.FnParam
	for i, e := range values {
		if e.IsConstant() {
			resultExpressions[i] = cp.GetConstLiteral(e, true)
			continue
		}
		name := fmt.Sprintf("a%d", len(params))
		resultExpressions[i] = output.Variable(name)
		params = append(params, output.NewFnParam(name, output.DynamicType))
	}
	pureFunction := output.Fn(params, []output.OutputStatement{
		output.NewReturnStatement(resultMap(resultExpressions), nil),
	}, "")

	name := cp.freshName()
	cp.statements = append(cp.statements,
		output.NewDeclareVarStmt(name, pureFunction, output.InferredType, output.StmtModifierFinal, nil))
	factory := output.Variable(name)
	cp.literalFactories[key] = factory
	return factory, arguments
}

// UniqueName returns name with a counter suffix that is unique within the
// pool. The suffix is left off for the first use unless alwaysIncludeSuffix is
// set. name must not end in a digit.
func (cp *ConstantPool) UniqueName(name string, alwaysIncludeSuffix bool) string {
	count := cp.claimedNames[name]
	cp.claimedNames[name] = count + 1
	if count == 0 && !alwaysIncludeSuffix {
		return name
	}
	return fmt.Sprintf("%s%d", name, count)
}

func (cp *ConstantPool) freshName() string {
	return cp.UniqueName(constantPrefix, true)
}

// Statements returns the declarations of all pooled constants, in creation order
func (cp *ConstantPool) Statements() []output.OutputStatement {
	return cp.statements
}

// AddStatement appends a statement emitted alongside the constants
func (cp *ConstantPool) AddStatement(stmt output.OutputStatement) {
	cp.statements = append(cp.statements, stmt)
}

// KeyOf returns a string that is equal for structurally equal constant
// expressions. Only literals, variable reads and external references can be
// keyed.
func KeyOf(expr output.OutputExpression) string {
	switch e := expr.(type) {
	case *FixupExpression:
		return KeyOf(e.original)
	case *output.LiteralExpr:
		if str, ok := e.Value.(string); ok {
			return fmt.Sprintf("%q", str)
		}
		return fmt.Sprintf("%v", e.Value)
	case *output.LiteralArrayExpr:
		entries := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			entries[i] = KeyOf(entry)
		}
		return "[" + strings.Join(entries, ",") + "]"
	case *output.LiteralMapExpr:
		entries := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			key := entry.Key
			if entry.Quoted {
				key = fmt.Sprintf("%q", key)
			}
			entries[i] = key + ":" + KeyOf(entry.Value)
		}
		return "{" + strings.Join(entries, ",") + "}"
	case *output.ExternalExpr:
		return fmt.Sprintf("import(%q, %q)", e.Value.ModuleName, e.Value.Name)
	case *output.ReadVarExpr:
		return "read(" + e.Name + ")"
	}
	panic(fmt.Sprintf("KeyOf does not handle expressions of type %T", expr))
}

func isLongStringLiteral(expr output.OutputExpression) bool {
	if lit, ok := expr.(*output.LiteralExpr); ok {
		if str, ok := lit.Value.(string); ok {
			return len(str) >= PoolInclusionLengthThresholdForStrings
		}
	}
	return false
}

func isLiteralExpr(expr output.OutputExpression) bool {
	_, ok := expr.(*output.LiteralExpr)
	return ok
}

func isFixupExpression(expr output.OutputExpression) bool {
	_, ok := expr.(*FixupExpression)
	return ok
}
