package render3

import (
	"ngc-lower/packages/compiler/expression_parser"
	"ngc-lower/packages/compiler/util"
)

// Node represents a node in the template AST
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor) interface{}
}

// BindingType is the kind of a bound element property
type BindingType int

const (
	// BindingTypeProperty is a regular property binding, e.g. `[prop]="..."`
	BindingTypeProperty BindingType = iota
	// BindingTypeAttribute is `[attr.name]="..."`
	BindingTypeAttribute
	// BindingTypeClass is `[class.name]="..."`
	BindingTypeClass
	// BindingTypeStyle is `[style.name]="..."`
	BindingTypeStyle
	// BindingTypeAnimation is `[@trigger]="..."`
	BindingTypeAnimation
)

var bindingTypeNames = [...]string{"property", "attribute", "class", "style", "animation"}

func (t BindingType) String() string {
	if int(t) < len(bindingTypeNames) {
		return bindingTypeNames[t]
	}
	return "unknown"
}

// BindingTypeNames lists the names accepted by ParseBindingType
func BindingTypeNames() []string {
	return bindingTypeNames[:]
}

// ParseBindingType returns the binding type called name
func ParseBindingType(name string) (BindingType, bool) {
	for i, n := range bindingTypeNames {
		if n == name {
			return BindingType(i), true
		}
	}
	return 0, false
}

// Text is static text
type Text struct {
	Value      string
	sourceSpan *util.ParseSourceSpan
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (t *Text) SourceSpan() *util.ParseSourceSpan { return t.sourceSpan }

// Visit visits the node with a visitor
func (t *Text) Visit(visitor Visitor) interface{} { return visitor.VisitText(t) }

// BoundText is text with interpolations
type BoundText struct {
	Value      expression_parser.AST
	sourceSpan *util.ParseSourceSpan
}

// NewBoundText creates a new BoundText node
func NewBoundText(value expression_parser.AST, sourceSpan *util.ParseSourceSpan) *BoundText {
	return &BoundText{Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (bt *BoundText) SourceSpan() *util.ParseSourceSpan { return bt.sourceSpan }

// Visit visits the node with a visitor
func (bt *BoundText) Visit(visitor Visitor) interface{} { return visitor.VisitBoundText(bt) }

// TextAttribute is a static attribute
type TextAttribute struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
}

// NewTextAttribute creates a new TextAttribute
func NewTextAttribute(name, value string, sourceSpan *util.ParseSourceSpan) *TextAttribute {
	return &TextAttribute{Name: name, Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (ta *TextAttribute) SourceSpan() *util.ParseSourceSpan { return ta.sourceSpan }

// Visit visits the node with a visitor
func (ta *TextAttribute) Visit(visitor Visitor) interface{} { return visitor.VisitTextAttribute(ta) }

// BoundAttribute is a property, attribute, class or style binding
type BoundAttribute struct {
	Name       string
	Type       BindingType
	Value      expression_parser.AST
	Unit       string
	sourceSpan *util.ParseSourceSpan
}

// NewBoundAttribute creates a new BoundAttribute
func NewBoundAttribute(name string, bindingType BindingType, value expression_parser.AST, unit string, sourceSpan *util.ParseSourceSpan) *BoundAttribute {
	return &BoundAttribute{Name: name, Type: bindingType, Value: value, Unit: unit, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (ba *BoundAttribute) SourceSpan() *util.ParseSourceSpan { return ba.sourceSpan }

// Visit visits the node with a visitor
func (ba *BoundAttribute) Visit(visitor Visitor) interface{} { return visitor.VisitBoundAttribute(ba) }

// BoundEvent is an event listener, e.g. `(click)="..."` or `(window:resize)`
type BoundEvent struct {
	Name       string
	Handler    expression_parser.AST
	Target     string
	Phase      string
	sourceSpan *util.ParseSourceSpan
}

// NewBoundEvent creates a new BoundEvent
func NewBoundEvent(name string, handler expression_parser.AST, target, phase string, sourceSpan *util.ParseSourceSpan) *BoundEvent {
	return &BoundEvent{Name: name, Handler: handler, Target: target, Phase: phase, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (be *BoundEvent) SourceSpan() *util.ParseSourceSpan { return be.sourceSpan }

// Visit visits the node with a visitor
func (be *BoundEvent) Visit(visitor Visitor) interface{} { return visitor.VisitBoundEvent(be) }

// Element is a regular element. Names may carry a namespace prefix such as
// `:svg:circle`.
type Element struct {
	Name       string
	Attributes []*TextAttribute
	Inputs     []*BoundAttribute
	Outputs    []*BoundEvent
	Children   []Node
	References []*Reference
	sourceSpan *util.ParseSourceSpan
}

// NewElement creates a new Element node
func NewElement(
	name string,
	attributes []*TextAttribute,
	inputs []*BoundAttribute,
	outputs []*BoundEvent,
	children []Node,
	references []*Reference,
	sourceSpan *util.ParseSourceSpan,
) *Element {
	return &Element{
		Name:       name,
		Attributes: attributes,
		Inputs:     inputs,
		Outputs:    outputs,
		Children:   children,
		References: references,
		sourceSpan: sourceSpan,
	}
}

// SourceSpan returns the source span
func (e *Element) SourceSpan() *util.ParseSourceSpan { return e.sourceSpan }

// Visit visits the node with a visitor
func (e *Element) Visit(visitor Visitor) interface{} { return visitor.VisitElement(e) }

// Template is an `<ng-template>`, explicit or created by a structural
// directive. Variables are its `let-` declarations.
type Template struct {
	TagName    string
	Attributes []*TextAttribute
	Inputs     []*BoundAttribute
	Outputs    []*BoundEvent
	Children   []Node
	References []*Reference
	Variables  []*Variable
	sourceSpan *util.ParseSourceSpan
}

// NewTemplate creates a new Template node
func NewTemplate(
	tagName string,
	attributes []*TextAttribute,
	inputs []*BoundAttribute,
	outputs []*BoundEvent,
	children []Node,
	references []*Reference,
	variables []*Variable,
	sourceSpan *util.ParseSourceSpan,
) *Template {
	return &Template{
		TagName:    tagName,
		Attributes: attributes,
		Inputs:     inputs,
		Outputs:    outputs,
		Children:   children,
		References: references,
		Variables:  variables,
		sourceSpan: sourceSpan,
	}
}

// SourceSpan returns the source span
func (t *Template) SourceSpan() *util.ParseSourceSpan { return t.sourceSpan }

// Visit visits the node with a visitor
func (t *Template) Visit(visitor Visitor) interface{} { return visitor.VisitTemplate(t) }

// Content is an `<ng-content>` projection point
type Content struct {
	Selector   string
	Attributes []*TextAttribute
	sourceSpan *util.ParseSourceSpan
}

// NewContent creates a new Content node
func NewContent(selector string, attributes []*TextAttribute, sourceSpan *util.ParseSourceSpan) *Content {
	return &Content{Selector: selector, Attributes: attributes, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (c *Content) SourceSpan() *util.ParseSourceSpan { return c.sourceSpan }

// Visit visits the node with a visitor
func (c *Content) Visit(visitor Visitor) interface{} { return visitor.VisitContent(c) }

// Variable is a template variable, `let-name="value"`
type Variable struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
}

// NewVariable creates a new Variable node
func NewVariable(name, value string, sourceSpan *util.ParseSourceSpan) *Variable {
	return &Variable{Name: name, Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (v *Variable) SourceSpan() *util.ParseSourceSpan { return v.sourceSpan }

// Visit visits the node with a visitor
func (v *Variable) Visit(visitor Visitor) interface{} { return visitor.VisitVariable(v) }

// Reference is a local reference, `#name="value"`
type Reference struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
}

// NewReference creates a new Reference node
func NewReference(name, value string, sourceSpan *util.ParseSourceSpan) *Reference {
	return &Reference{Name: name, Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (r *Reference) SourceSpan() *util.ParseSourceSpan { return r.sourceSpan }

// Visit visits the node with a visitor
func (r *Reference) Visit(visitor Visitor) interface{} { return visitor.VisitReference(r) }

// Visitor has one method per node kind
type Visitor interface {
	VisitElement(element *Element) interface{}
	VisitTemplate(template *Template) interface{}
	VisitContent(content *Content) interface{}
	VisitVariable(variable *Variable) interface{}
	VisitReference(reference *Reference) interface{}
	VisitTextAttribute(attribute *TextAttribute) interface{}
	VisitBoundAttribute(attribute *BoundAttribute) interface{}
	VisitBoundEvent(event *BoundEvent) interface{}
	VisitText(text *Text) interface{}
	VisitBoundText(text *BoundText) interface{}
}

// RecursiveVisitor visits every node of a tree. Embed it and set Self to
// the embedding visitor to override single methods.
type RecursiveVisitor struct {
	Self Visitor
}

func (rv *RecursiveVisitor) self() Visitor {
	if rv.Self != nil {
		return rv.Self
	}
	return rv
}

// VisitElement visits an element and all its parts
func (rv *RecursiveVisitor) VisitElement(element *Element) interface{} {
	v := rv.self()
	visitSlice(v, element.Attributes)
	visitSlice(v, element.Inputs)
	visitSlice(v, element.Outputs)
	VisitAll(v, element.Children)
	visitSlice(v, element.References)
	return nil
}

// VisitTemplate visits a template and all its parts
func (rv *RecursiveVisitor) VisitTemplate(template *Template) interface{} {
	v := rv.self()
	visitSlice(v, template.Attributes)
	visitSlice(v, template.Inputs)
	visitSlice(v, template.Outputs)
	VisitAll(v, template.Children)
	visitSlice(v, template.References)
	visitSlice(v, template.Variables)
	return nil
}

func (rv *RecursiveVisitor) VisitContent(content *Content) interface{} {
	visitSlice(rv.self(), content.Attributes)
	return nil
}

func (rv *RecursiveVisitor) VisitVariable(variable *Variable) interface{}              { return nil }
func (rv *RecursiveVisitor) VisitReference(reference *Reference) interface{}           { return nil }
func (rv *RecursiveVisitor) VisitTextAttribute(attribute *TextAttribute) interface{}   { return nil }
func (rv *RecursiveVisitor) VisitBoundAttribute(attribute *BoundAttribute) interface{} { return nil }
func (rv *RecursiveVisitor) VisitBoundEvent(event *BoundEvent) interface{}             { return nil }
func (rv *RecursiveVisitor) VisitText(text *Text) interface{}                          { return nil }
func (rv *RecursiveVisitor) VisitBoundText(text *BoundText) interface{}                { return nil }

// VisitAll visits nodes in order and collects the non-nil results
func VisitAll(visitor Visitor, nodes []Node) []interface{} {
	var result []interface{}
	for _, node := range nodes {
		if res := node.Visit(visitor); res != nil {
			result = append(result, res)
		}
	}
	return result
}

func visitSlice[N Node](visitor Visitor, nodes []N) {
	for _, node := range nodes {
		node.Visit(visitor)
	}
}
