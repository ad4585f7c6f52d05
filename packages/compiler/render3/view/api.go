package view

import (
	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/render3"
)

// DirectiveMatcher finds the directives whose selector matches an element.
// attrs are name/value pairs in template order.
type DirectiveMatcher interface {
	Match(elementName string, attrs [][2]string) []output.OutputExpression
}

// R3QueryMetadata is information needed to compile a view query
type R3QueryMetadata struct {
	// Name of the property on the class to update with query results
	PropertyName string

	// Whether to read only the first matching result, or an array of results
	First bool

	// Either a []string of local references, a render3.MaybeForwardRefExpression
	// or an expression for the type to query for.
	Predicate interface{}

	// Whether to include only direct children or all descendants
	Descendants bool

	// An expression representing a type to read from each matched node, or nil
	// for the default value for a given node.
	Read output.OutputExpression
}

// TemplateMetadata configures the compilation of one component template
type TemplateMetadata struct {
	// Name of the component. The root template function is `<Name>_Template`.
	Name string

	// Variables declared on the root template, read from the root context
	Variables []*render3.Variable

	DirectiveMatcher DirectiveMatcher

	// Pipe types by pipe name. Pipes missing here are still instantiated by
	// name but are not listed in CompiledTemplate.Pipes.
	Pipes map[string]output.OutputExpression

	ViewQueries []R3QueryMetadata

	// InlineInterpolationLimit is the largest number of interpolated
	// expressions lowered to interpolation<N>. Zero means 8, the maximum.
	InlineInterpolationLimit int

	// VariadicInterpolation lowers every interpolation to interpolationV
	VariadicInterpolation bool

	// ViewQueryFunction moves the view queries out of the template function
	// into a standalone `<Name>_Query` function.
	ViewQueryFunction bool
}

// CompiledTemplate is the result of CompileTemplate
type CompiledTemplate struct {
	Template *output.FunctionExpr

	// ViewQuery is the standalone query function, when requested
	ViewQuery *output.FunctionExpr

	// Statements declared by the constant pool, to be emitted before Template
	Statements []output.OutputStatement

	Directives []output.OutputExpression
	Pipes      []output.OutputExpression
}

// DefinitionMap returns the component definition fields produced by the
// template compilation.
func (c *CompiledTemplate) DefinitionMap() *DefinitionMap {
	definitionMap := NewDefinitionMap()
	definitionMap.Set("template", c.Template)
	if c.ViewQuery != nil {
		definitionMap.Set("viewQuery", c.ViewQuery)
	}
	if len(c.Directives) > 0 {
		definitionMap.Set("directives", output.LiteralArr(c.Directives))
	}
	if len(c.Pipes) > 0 {
		definitionMap.Set("pipes", output.LiteralArr(c.Pipes))
	}
	return definitionMap
}

// Declarations returns the constant statements followed by the declarations
// of the query and template functions.
func (c *CompiledTemplate) Declarations() []output.OutputStatement {
	stmts := append([]output.OutputStatement{}, c.Statements...)
	if c.ViewQuery != nil {
		stmts = append(stmts, c.ViewQuery.ToDeclStmt(c.ViewQuery.Name, output.StmtModifierNone))
	}
	return append(stmts, c.Template.ToDeclStmt(c.Template.Name, output.StmtModifierNone))
}
