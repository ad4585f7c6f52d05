package view

import (
	"regexp"
	"strings"

	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/render3"
)

// UNSAFE_OBJECT_KEY_NAME_REGEXP checks whether an object key contains potentially unsafe chars
var UNSAFE_OBJECT_KEY_NAME_REGEXP = regexp.MustCompile(`[-.]`)

// TEMPORARY_NAME is the name of the temporary to use during data binding
const TEMPORARY_NAME = "_t"

// CONTEXT_NAME is the name of the context parameter passed into a template function
const CONTEXT_NAME = "ctx"

// RENDER_FLAGS is the name of the RenderFlag passed into a template function
const RENDER_FLAGS = "rf"

// REFERENCE_PREFIX starts the names of reference and template variables
const REFERENCE_PREFIX = "_r"

// IMPLICIT_REFERENCE is the context property a `let-x` without value reads
const IMPLICIT_REFERENCE = "$implicit"

// NG_CONTENT_SELECT_ATTR is the attribute holding an `<ng-content>` selector
const NG_CONTENT_SELECT_ATTR = "select"

// DEFAULT_CONTENT_SELECTOR matches all projectable content
const DEFAULT_CONTENT_SELECTOR = "*"

// TemporaryAllocatorFunc is a function that allocates a temporary variable
type TemporaryAllocatorFunc func() *output.ReadVarExpr

// TemporaryAllocator creates an allocator for a temporary variable.
// A variable declaration is added to the statements the first time the allocator is invoked.
func TemporaryAllocator(pushStatement func(output.OutputStatement), name string) TemporaryAllocatorFunc {
	var temp *output.ReadVarExpr
	return func() *output.ReadVarExpr {
		if temp == nil {
			pushStatement(output.NewDeclareVarStmt(name, nil, output.DynamicType, output.StmtModifierNone, nil))
			temp = output.Variable(name)
		}
		return temp
	}
}

// AsLiteral converts strings, numbers, booleans, nil and nested slices of
// them into a literal expression. Expressions are kept as they are.
func AsLiteral(value interface{}) output.OutputExpression {
	switch v := value.(type) {
	case output.OutputExpression:
		return v
	case []interface{}:
		literals := make([]output.OutputExpression, len(v))
		for i, entry := range v {
			literals[i] = AsLiteral(entry)
		}
		return output.LiteralArr(literals)
	case []string:
		literals := make([]output.OutputExpression, len(v))
		for i, entry := range v {
			literals[i] = output.Literal(entry)
		}
		return output.LiteralArr(literals)
	}
	return output.Literal(value)
}

// DefinitionMapEntry represents an entry in a DefinitionMap
type DefinitionMapEntry struct {
	Key    string
	Quoted bool
	Value  output.OutputExpression
}

// DefinitionMap is an ordered object literal built during codegen of
// definition objects.
type DefinitionMap struct {
	Values []DefinitionMapEntry
}

// NewDefinitionMap creates a new DefinitionMap
func NewDefinitionMap() *DefinitionMap {
	return &DefinitionMap{}
}

// Set sets a key-value pair in the map. If the key already exists, it updates the value.
// If value is nil, the key is not added.
func (dm *DefinitionMap) Set(key string, value output.OutputExpression) {
	if value == nil {
		return
	}
	for i := range dm.Values {
		if dm.Values[i].Key == key {
			dm.Values[i].Value = value
			return
		}
	}
	dm.Values = append(dm.Values, DefinitionMapEntry{
		Key:    key,
		Quoted: UNSAFE_OBJECT_KEY_NAME_REGEXP.MatchString(key),
		Value:  value,
	})
}

// ToLiteralMap converts the DefinitionMap to a LiteralMapExpr
func (dm *DefinitionMap) ToLiteralMap() *output.LiteralMapExpr {
	entries := make([]*output.LiteralMapEntry, len(dm.Values))
	for i, entry := range dm.Values {
		entries[i] = output.NewLiteralMapEntry(entry.Key, entry.Value, entry.Quoted)
	}
	return output.LiteralMap(entries)
}

// IsI18nAttribute checks if an attribute name is an i18n attribute
func IsI18nAttribute(name string) bool {
	const I18N_ATTR = "i18n"
	const I18N_ATTR_PREFIX = "i18n-"
	return name == I18N_ATTR || strings.HasPrefix(name, I18N_ATTR_PREFIX)
}

// attrsForDirectiveMatching lists the name/value pairs a directive selector
// is matched against: static attributes, then the names of property inputs
// and outputs with an empty value.
func attrsForDirectiveMatching(attributes []*render3.TextAttribute, inputs []*render3.BoundAttribute, outputs []*render3.BoundEvent) [][2]string {
	var attrs [][2]string
	for _, attr := range attributes {
		if !IsI18nAttribute(attr.Name) {
			attrs = append(attrs, [2]string{attr.Name, attr.Value})
		}
	}
	for _, input := range inputs {
		if input.Type == render3.BindingTypeProperty {
			attrs = append(attrs, [2]string{input.Name, ""})
		}
	}
	for _, out := range outputs {
		attrs = append(attrs, [2]string{out.Name, ""})
	}
	return attrs
}

// trimTrailingNulls drops trailing null literals from instruction parameters
func trimTrailingNulls(parameters []output.OutputExpression) []output.OutputExpression {
	for len(parameters) > 0 {
		lit, ok := parameters[len(parameters)-1].(*output.LiteralExpr)
		if !ok || lit.Value != nil {
			break
		}
		parameters = parameters[:len(parameters)-1]
	}
	return parameters
}

// expressionSet is an insertion ordered set of expressions, compared with
// IsEquivalent.
type expressionSet struct {
	values []output.OutputExpression
}

func (s *expressionSet) add(expr output.OutputExpression) {
	for _, v := range s.values {
		if v == expr || v.IsEquivalent(expr) {
			return
		}
	}
	s.values = append(s.values, expr)
}

func (s *expressionSet) list() []output.OutputExpression {
	return append([]output.OutputExpression(nil), s.values...)
}
