package view

import (
	"fmt"
	"strconv"

	"ngc-lower/packages/compiler/compiler_util"
	"ngc-lower/packages/compiler/core"
	"ngc-lower/packages/compiler/css"
	ep "ngc-lower/packages/compiler/expression_parser"
	"ngc-lower/packages/compiler/output"
	constant "ngc-lower/packages/compiler/pool"
	"ngc-lower/packages/compiler/render3"
	r3_identifiers "ngc-lower/packages/compiler/render3/r3_identifiers"
	"ngc-lower/packages/compiler/util"
)

const (
	ngContainerTag = "ng-container"
	ngTemplateTag  = "ng-template"
)

// bindingInstructions maps element binding kinds to their update instruction
var bindingInstructions = map[render3.BindingType]*output.ExternalReference{
	render3.BindingTypeProperty:  r3_identifiers.ElementProperty,
	render3.BindingTypeAttribute: r3_identifiers.ElementAttribute,
	render3.BindingTypeClass:     r3_identifiers.ElementClassProp,
	render3.BindingTypeStyle:     r3_identifiers.ElementStyleProp,
}

// compilationState is shared by reference between all units of one template
type compilationState struct {
	constantPool     *constant.ConstantPool
	directiveMatcher DirectiveMatcher
	directives       *expressionSet
	pipeTypeByName   map[string]output.OutputExpression
	pipes            *expressionSet
	viewQueries      []R3QueryMetadata
	interpolation    compiler_util.InterpolationFunction

	// non-default `<ng-content>` selectors in document order
	contentSelectors []string
	contentIndex     map[*render3.Content]int
	r3Selectors      []interface{}
	hasContent       bool
}

// TemplateDefinitionBuilder compiles one template nesting level into a
// template function. Nested templates get a builder of their own.
type TemplateDefinitionBuilder struct {
	shared *compilationState

	level            int
	contextParameter string
	contextName      string
	templateName     string
	bindingScope     *BindingScope
	namespace        *output.ExternalReference

	dataIndex         int
	bindingContext    int
	pureFunctionSlots int

	prefixCode   []output.OutputStatement
	creationCode []output.OutputStatement
	variableCode []output.OutputStatement
	bindingCode  []output.OutputStatement
	postfixCode  []output.OutputStatement

	temporaryAllocator TemporaryAllocatorFunc
	valueConverter     *valueConverter
}

var _ render3.Visitor = (*TemplateDefinitionBuilder)(nil)

// NewTemplateDefinitionBuilder creates the builder of the root template
func NewTemplateDefinitionBuilder(meta TemplateMetadata, constantPool *constant.ConstantPool) *TemplateDefinitionBuilder {
	shared := &compilationState{
		constantPool:     constantPool,
		directiveMatcher: meta.DirectiveMatcher,
		directives:       &expressionSet{},
		pipeTypeByName:   meta.Pipes,
		pipes:            &expressionSet{},
		contentIndex:     make(map[*render3.Content]int),
		interpolation:    interpolationInstruction(meta.InlineInterpolationLimit),
	}
	if meta.VariadicInterpolation {
		shared.interpolation = variadicInterpolation
	}
	if !meta.ViewQueryFunction {
		shared.viewQueries = meta.ViewQueries
	}
	templateName := "Template"
	if meta.Name != "" {
		templateName = meta.Name + "_Template"
	}
	return newTemplateDefinitionBuilder(shared, RootBindingScope(), 0, CONTEXT_NAME, meta.Name, templateName)
}

func newTemplateDefinitionBuilder(
	shared *compilationState,
	parentBindingScope *BindingScope,
	level int,
	contextParameter string,
	contextName string,
	templateName string,
) *TemplateDefinitionBuilder {
	b := &TemplateDefinitionBuilder{
		shared:           shared,
		level:            level,
		contextParameter: contextParameter,
		contextName:      contextName,
		templateName:     templateName,
		namespace:        r3_identifiers.NamespaceHTML,
	}
	b.bindingScope = parentBindingScope.NestedScope(func(lhs *output.ReadVarExpr, rhs output.OutputExpression) {
		b.variableCode = append(b.variableCode,
			output.NewDeclareVarStmt(lhs.Name, rhs, output.InferredType, output.StmtModifierFinal, nil))
	})
	b.temporaryAllocator = TemporaryAllocator(func(st output.OutputStatement) {
		b.prefixCode = append(b.prefixCode, st)
	}, TEMPORARY_NAME)
	b.valueConverter = &valueConverter{builder: b}
	return b
}

// Directives returns the directives matched so far by this builder and all
// builders sharing its compilation.
func (b *TemplateDefinitionBuilder) Directives() []output.OutputExpression {
	return b.shared.directives.list()
}

// Pipes returns the types of the pipes used so far
func (b *TemplateDefinitionBuilder) Pipes() []output.OutputExpression {
	return b.shared.pipes.list()
}

// BuildTemplateFunction lowers nodes into `function <name>(rf, <ctx>) {...}`.
// variables are the `let-` declarations of the template, read from the
// context parameter. Compile errors are raised as *util.CompileError panics.
func (b *TemplateDefinitionBuilder) BuildTemplateFunction(nodes []render3.Node, variables []*render3.Variable) *output.FunctionExpr {
	for _, variable := range variables {
		value := variable.Value
		if value == "" {
			value = IMPLICIT_REFERENCE
		}
		expression := output.Prop(output.Variable(b.contextParameter), value)
		scopedName := b.bindingScope.FreshReferenceName()
		b.bindingScope.Set(variable.Name, output.Variable(variable.Name+scopedName), expression)
	}

	if b.level == 0 {
		b.collectContent(nodes)
		if b.shared.hasContent {
			var parameters []output.OutputExpression
			if len(b.shared.contentSelectors) > 0 {
				pool := b.shared.constantPool
				parameters = append(parameters,
					pool.GetConstLiteral(AsLiteral(b.shared.r3Selectors), true),
					pool.GetConstLiteral(AsLiteral(b.shared.contentSelectors), true))
			}
			b.instruction(&b.creationCode, nil, r3_identifiers.ProjectionDef, parameters...)
		}

		for _, query := range b.shared.viewQueries {
			slot := b.allocateDataSlot()
			b.creationCode = append(b.creationCode,
				output.ToStmt(CreateQueryCreateCall(query, b.shared.constantPool, slot)))
			b.bindingCode = append(b.bindingCode, createQueryRefresh(query, slot, b.temporaryAllocator()))
		}
	}

	render3.VisitAll(b, nodes)

	if b.pureFunctionSlots > 0 {
		b.instruction(&b.creationCode, nil, r3_identifiers.ReserveSlots, output.Literal(b.pureFunctionSlots))
	}

	var statements []output.OutputStatement
	statements = append(statements, b.prefixCode...)
	if len(b.creationCode) > 0 {
		statements = append(statements, renderFlagCheckIfStmt(core.RenderFlagsCreate, b.creationCode))
	}
	statements = append(statements, b.variableCode...)
	if len(b.bindingCode) > 0 {
		statements = append(statements, renderFlagCheckIfStmt(core.RenderFlagsUpdate, b.bindingCode))
	}
	statements = append(statements, b.postfixCode...)

	return output.Fn(
		[]*output.FnParam{
			output.NewFnParam(RENDER_FLAGS, output.NumberType),
			output.NewFnParam(b.contextParameter, nil),
		},
		statements,
		b.templateName,
	)
}

// VisitElement emits the creation instructions of an element, its listeners
// and bindings, then visits its children.
func (b *TemplateDefinitionBuilder) VisitElement(element *render3.Element) interface{} {
	elementIndex := b.allocateDataSlot()
	namespaceKey, elementName := util.SplitNsName(element.Name)
	isContainer := namespaceKey == "" && elementName == ngContainerTag

	b.matchDirectives(elementName, attrsForDirectiveMatching(element.Attributes, element.Inputs, element.Outputs))

	parameters := []output.OutputExpression{output.Literal(elementIndex)}
	if !isContainer {
		parameters = append(parameters, output.Literal(elementName))
	}

	var attributes []output.OutputExpression
	for _, attr := range element.Attributes {
		if !IsI18nAttribute(attr.Name) {
			attributes = append(attributes, output.Literal(attr.Name), output.Literal(attr.Value))
		}
	}
	attributes = append(attributes, selectOnlyAttributes(element.Inputs, element.Outputs)...)
	parameters = append(parameters, b.constArrayOrNull(attributes))
	parameters = append(parameters, b.prepareRefsParameter(element.References))
	parameters = trimTrailingNulls(parameters)

	if !isContainer {
		b.switchNamespace(namespaceKey, element.SourceSpan())
	}

	createSelfClosingInstruction := !isContainer && len(element.Children) == 0 && len(element.Outputs) == 0
	switch {
	case isContainer:
		b.instruction(&b.creationCode, element.SourceSpan(), r3_identifiers.ElementContainerStart, parameters...)
	case createSelfClosingInstruction:
		b.instruction(&b.creationCode, element.SourceSpan(), r3_identifiers.Element, parameters...)
	default:
		b.instruction(&b.creationCode, element.SourceSpan(), r3_identifiers.ElementStart, parameters...)
	}

	// e.g. listener('click', function Cmp_Template_div_click_listener($event) {...});
	for _, out := range element.Outputs {
		b.listener(elementName, out)
	}

	// e.g. elementProperty(1, 'hidden', bind(ctx.hide));
	for _, input := range element.Inputs {
		b.bindInput(elementIndex, input)
	}

	render3.VisitAll(b, element.Children)

	if isContainer {
		b.instruction(&b.creationCode, element.SourceSpan(), r3_identifiers.ElementContainerEnd)
	} else if !createSelfClosingInstruction {
		b.instruction(&b.creationCode, element.SourceSpan(), r3_identifiers.ElementEnd)
	}
	return nil
}

// VisitTemplate emits a container for the template and compiles its
// children into a template function appended to the postfix code.
func (b *TemplateDefinitionBuilder) VisitTemplate(template *render3.Template) interface{} {
	templateIndex := b.allocateDataSlot()

	elName := ""
	if len(template.Children) == 1 {
		if child, ok := template.Children[0].(*render3.Element); ok {
			_, localName := util.SplitNsName(child.Name)
			elName = util.SanitizeIdentifier(localName)
		}
	}
	contextName := ""
	if elName != "" {
		contextName = elName
		if b.contextName != "" {
			contextName = b.contextName + "_" + elName
		}
	}
	templateName := fmt.Sprintf("Template_%d", templateIndex)
	if contextName != "" {
		templateName = fmt.Sprintf("%s_Template_%d", contextName, templateIndex)
	}

	b.matchDirectives(ngTemplateTag, attrsForDirectiveMatching(template.Attributes, template.Inputs, template.Outputs))

	tagName := output.OutputExpression(output.NullExpr)
	if template.TagName != "" {
		tagName = output.Literal(template.TagName)
	}
	parameters := []output.OutputExpression{
		output.Literal(templateIndex),
		output.Variable(templateName),
		tagName,
	}
	var attributeNames []output.OutputExpression
	for _, attr := range template.Attributes {
		if !IsI18nAttribute(attr.Name) {
			attributeNames = append(attributeNames, output.Literal(attr.Name), output.Literal(""))
		}
	}
	parameters = append(parameters, b.constArrayOrNull(attributeNames))
	parameters = append(parameters, b.prepareRefsParameter(template.References))
	parameters = trimTrailingNulls(parameters)

	b.instruction(&b.creationCode, template.SourceSpan(), r3_identifiers.Container, parameters...)

	for _, out := range template.Outputs {
		b.listener(util.SanitizeIdentifier(ngTemplateTag), out)
	}

	// e.g. elementProperty(1, 'ngForOf', bind(ctx.items));
	for _, input := range template.Inputs {
		b.bindInput(templateIndex, input)
	}

	child := newTemplateDefinitionBuilder(
		b.shared,
		b.bindingScope,
		b.level+1,
		fmt.Sprintf("%s%d", CONTEXT_NAME, b.level),
		contextName,
		templateName,
	)
	templateFunction := child.BuildTemplateFunction(template.Children, template.Variables)
	b.postfixCode = append(b.postfixCode, templateFunction.ToDeclStmt(templateName, output.StmtModifierNone))
	return nil
}

// VisitContent emits `projection(slot, selectorIndex?, attrs?)`
func (b *TemplateDefinitionBuilder) VisitContent(content *render3.Content) interface{} {
	slot := b.allocateDataSlot()
	selectorIndex := b.shared.contentIndex[content]
	parameters := []output.OutputExpression{output.Literal(slot)}

	var attributeAsList []string
	for _, attr := range content.Attributes {
		if attr.Name != NG_CONTENT_SELECT_ATTR {
			attributeAsList = append(attributeAsList, attr.Name, attr.Value)
		}
	}
	if len(attributeAsList) > 0 {
		parameters = append(parameters, output.Literal(selectorIndex), AsLiteral(attributeAsList))
	} else if selectorIndex != 0 {
		parameters = append(parameters, output.Literal(selectorIndex))
	}
	b.instruction(&b.creationCode, content.SourceSpan(), r3_identifiers.Projection, parameters...)
	return nil
}

// VisitText emits `text(slot, 'value')`
func (b *TemplateDefinitionBuilder) VisitText(text *render3.Text) interface{} {
	b.instruction(&b.creationCode, text.SourceSpan(), r3_identifiers.Text,
		output.Literal(b.allocateDataSlot()), output.Literal(text.Value))
	return nil
}

// VisitBoundText emits `text(slot)` and its `textBinding` update
func (b *TemplateDefinitionBuilder) VisitBoundText(text *render3.BoundText) interface{} {
	defer util.Locate(text.SourceSpan())
	nodeIndex := b.allocateDataSlot()
	b.instruction(&b.creationCode, text.SourceSpan(), r3_identifiers.Text, output.Literal(nodeIndex))
	b.instruction(&b.bindingCode, text.SourceSpan(), r3_identifiers.TextBinding,
		output.Literal(nodeIndex), b.convertPropertyBinding(output.Variable(CONTEXT_NAME), text.Value))
	return nil
}

// These nodes are handled by their owning element or template.

func (b *TemplateDefinitionBuilder) VisitVariable(variable *render3.Variable) interface{} {
	return b.invalid(variable)
}

func (b *TemplateDefinitionBuilder) VisitReference(reference *render3.Reference) interface{} {
	return b.invalid(reference)
}

func (b *TemplateDefinitionBuilder) VisitTextAttribute(attribute *render3.TextAttribute) interface{} {
	return b.invalid(attribute)
}

func (b *TemplateDefinitionBuilder) VisitBoundAttribute(attribute *render3.BoundAttribute) interface{} {
	return b.invalid(attribute)
}

func (b *TemplateDefinitionBuilder) VisitBoundEvent(event *render3.BoundEvent) interface{} {
	return b.invalid(event)
}

func (b *TemplateDefinitionBuilder) invalid(node render3.Node) interface{} {
	util.Illegal("Invalid state: Visitor TemplateDefinitionBuilder doesn't handle %T", node)
	return nil
}

func (b *TemplateDefinitionBuilder) allocateDataSlot() int {
	slot := b.dataIndex
	b.dataIndex++
	return slot
}

func (b *TemplateDefinitionBuilder) allocatePureFunctionSlots(numSlots int) int {
	originalSlot := b.pureFunctionSlots
	b.pureFunctionSlots += numSlots
	return originalSlot
}

func (b *TemplateDefinitionBuilder) nextBindingID() string {
	id := strconv.Itoa(b.bindingContext)
	b.bindingContext++
	return id
}

func (b *TemplateDefinitionBuilder) instruction(
	statements *[]output.OutputStatement,
	span *util.ParseSourceSpan,
	reference *output.ExternalReference,
	params ...output.OutputExpression,
) {
	*statements = append(*statements, output.ToStmt(output.CallFn(output.ImportExpr(reference), params, span)))
}

func (b *TemplateDefinitionBuilder) matchDirectives(elementName string, attrs [][2]string) {
	if b.shared.directiveMatcher == nil {
		return
	}
	for _, directive := range b.shared.directiveMatcher.Match(elementName, attrs) {
		b.shared.directives.add(directive)
	}
}

// switchNamespace emits a namespace instruction when the element's namespace
// differs from the one currently active.
func (b *TemplateDefinitionBuilder) switchNamespace(namespaceKey string, span *util.ParseSourceSpan) {
	namespace := r3_identifiers.NamespaceHTML
	switch namespaceKey {
	case "svg":
		namespace = r3_identifiers.NamespaceSVG
	case "math":
		namespace = r3_identifiers.NamespaceMathML
	}
	if namespace != b.namespace {
		b.namespace = namespace
		b.instruction(&b.creationCode, span, namespace)
	}
}

func (b *TemplateDefinitionBuilder) constArrayOrNull(entries []output.OutputExpression) output.OutputExpression {
	if len(entries) == 0 {
		return output.NullExpr
	}
	return b.shared.constantPool.GetConstLiteral(output.LiteralArr(entries), true)
}

// prepareRefsParameter allocates a slot per reference and binds it to a
// `_r<N>` variable. The unit declares it as `load(slot)` once it is read,
// from this unit or a nested one.
// It returns the `[name, value, ...]` constant.
func (b *TemplateDefinitionBuilder) prepareRefsParameter(references []*render3.Reference) output.OutputExpression {
	if len(references) == 0 {
		return output.NullExpr
	}
	refsParam := make([]string, 0, 2*len(references))
	for _, reference := range references {
		slot := b.allocateDataSlot()
		variableName := b.bindingScope.FreshReferenceName()
		b.bindingScope.SetOwned(reference.Name, output.Variable(variableName),
			output.CallFn(output.ImportExpr(r3_identifiers.Load), []output.OutputExpression{output.Literal(slot)}, nil))
		refsParam = append(refsParam, reference.Name, reference.Value)
	}
	return b.shared.constantPool.GetConstLiteral(AsLiteral(refsParam), true)
}

// selectOnlyAttributes lists binding names that only take part in directive
// matching, after a SelectOnly marker.
func selectOnlyAttributes(inputs []*render3.BoundAttribute, outputs []*render3.BoundEvent) []output.OutputExpression {
	var names []output.OutputExpression
	for _, input := range inputs {
		if input.Type == render3.BindingTypeProperty {
			names = append(names, output.Literal(input.Name))
		}
	}
	for _, out := range outputs {
		names = append(names, output.Literal(out.Name))
	}
	if len(names) == 0 {
		return nil
	}
	return append([]output.OutputExpression{output.Literal(int(core.AttributeMarkerSelectOnly))}, names...)
}

func (b *TemplateDefinitionBuilder) listener(elementName string, event *render3.BoundEvent) {
	defer util.Locate(event.SourceSpan())
	if event.Phase != "" {
		unsupported(event.SourceSpan(), "animations")
	}
	eventName := event.Name
	if event.Target != "" {
		eventName = event.Target + ":" + event.Name
	}
	functionName := fmt.Sprintf("%s_%s_%s_listener",
		b.templateName, util.SanitizeIdentifier(elementName), util.SanitizeIdentifier(eventName))

	var localVars []output.OutputStatement
	listenerScope := b.bindingScope.NestedScope(func(lhs *output.ReadVarExpr, rhs output.OutputExpression) {
		localVars = append(localVars,
			output.NewDeclareVarStmt(lhs.Name, rhs, output.InferredType, output.StmtModifierFinal, nil))
	})

	bindingExpr, err := compiler_util.ConvertActionBinding(
		listenerScope,
		output.Variable(CONTEXT_NAME),
		event.Handler,
		"b",
		func([]output.OutputExpression) output.OutputExpression {
			util.Fail(event.SourceSpan(), "Unexpected interpolation")
			return nil
		},
	)
	if err != nil {
		panic(err)
	}

	statements := append(localVars, bindingExpr.Render3Stmts()...)
	handler := output.Fn(
		[]*output.FnParam{output.NewFnParam(compiler_util.EventHandlerVars.Event.Name, output.DynamicType)},
		statements,
		functionName,
	)
	b.instruction(&b.creationCode, event.SourceSpan(), r3_identifiers.Listener, output.Literal(eventName), handler)
}

func (b *TemplateDefinitionBuilder) bindInput(slot int, input *render3.BoundAttribute) {
	defer util.Locate(input.SourceSpan())
	if input.Type == render3.BindingTypeAnimation {
		unsupported(input.SourceSpan(), "animations")
	}
	instruction, ok := bindingInstructions[input.Type]
	if !ok {
		util.Illegal("Unsupported binding type %s", input.Type)
	}
	parameters := []output.OutputExpression{
		output.Literal(slot),
		output.Literal(input.Name),
		b.convertPropertyBinding(output.Variable(CONTEXT_NAME), input.Value),
	}
	if input.Type == render3.BindingTypeStyle && input.Unit != "" {
		parameters = append(parameters, output.Literal(input.Unit))
	}
	b.instruction(&b.bindingCode, input.SourceSpan(), instruction, parameters...)
}

// convertPropertyBinding lowers value and pushes the statements it needs to
// the binding code. Interpolations are returned as interpolation calls, other
// values wrapped in `bind()`.
func (b *TemplateDefinitionBuilder) convertPropertyBinding(implicit output.OutputExpression, value ep.AST) output.OutputExpression {
	pipesConvertedValue := compiler_util.ConvertPropertyBindingBuiltins(b.valueConverter, value)
	if _, ok := pipesConvertedValue.(*ep.Interpolation); ok {
		converted := b.lowerPropertyBinding(implicit, pipesConvertedValue, b.shared.interpolation)
		return converted.CurrValExpr
	}
	converted := b.lowerPropertyBinding(implicit, pipesConvertedValue, func([]output.OutputExpression) output.OutputExpression {
		util.Fail(nil, "Unexpected interpolation")
		return nil
	})
	return output.CallFn(output.ImportExpr(r3_identifiers.Bind), []output.OutputExpression{converted.CurrValExpr}, nil)
}

func (b *TemplateDefinitionBuilder) lowerPropertyBinding(
	implicit output.OutputExpression,
	value ep.AST,
	interpolationFunction compiler_util.InterpolationFunction,
) *compiler_util.ConvertPropertyBindingResult {
	converted, err := compiler_util.ConvertPropertyBinding(
		b.bindingScope, implicit, value, b.nextBindingID(), compiler_util.BindingFormTrySimple, interpolationFunction)
	if err != nil {
		panic(err)
	}
	b.bindingCode = append(b.bindingCode, converted.Stmts...)
	return converted
}

// maxInlineInterpolation is the largest interpolation with an instruction
// of its own
const maxInlineInterpolation = 8

// interpolationInstruction returns the interpolation function for
// [count, str0, expr0, str1, ..., strN]. The count is dropped. Interpolations
// of more than limit expressions use interpolationV.
func interpolationInstruction(limit int) compiler_util.InterpolationFunction {
	if limit <= 0 || limit > maxInlineInterpolation {
		limit = maxInlineInterpolation
	}
	return func(args []output.OutputExpression) output.OutputExpression {
		args = args[1:]
		n := len(args)
		if n < 3 || n%2 == 0 {
			util.Fail(nil, "Invalid interpolation argument length %d", n)
		}
		if count := (n - 1) / 2; count <= limit {
			return output.CallFn(output.ImportExpr(r3_identifiers.Interpolation(count)), args, nil)
		}
		return output.CallFn(output.ImportExpr(r3_identifiers.InterpolationV),
			[]output.OutputExpression{output.LiteralArr(args)}, nil)
	}
}

func variadicInterpolation(args []output.OutputExpression) output.OutputExpression {
	if n := len(args) - 1; n < 3 || n%2 == 0 {
		util.Fail(nil, "Invalid interpolation argument length %d", n)
	}
	return output.CallFn(output.ImportExpr(r3_identifiers.InterpolationV),
		[]output.OutputExpression{output.LiteralArr(args[1:])}, nil)
}

func unsupported(span *util.ParseSourceSpan, feature string) {
	util.Fail(span, "Feature %s is not supported yet", feature)
}

// collectContent numbers the `<ng-content>` selectors of the whole template,
// nested templates included, in document order.
func (b *TemplateDefinitionBuilder) collectContent(nodes []render3.Node) {
	collector := &contentCollector{state: b.shared}
	collector.Self = collector
	render3.VisitAll(collector, nodes)
}

type contentCollector struct {
	render3.RecursiveVisitor
	state *compilationState
}

func (c *contentCollector) VisitContent(content *render3.Content) interface{} {
	c.state.hasContent = true
	selector := content.Selector
	if selector == "" || selector == DEFAULT_CONTENT_SELECTOR {
		c.state.contentIndex[content] = 0
		return nil
	}
	for i, existing := range c.state.contentSelectors {
		if existing == selector {
			c.state.contentIndex[content] = i + 1
			return nil
		}
	}
	r3Selectors, err := css.ParseSelectorToR3Selector(selector)
	if err != nil {
		util.Fail(content.SourceSpan(), "%s", err.Error())
	}
	parsed := make([]interface{}, len(r3Selectors))
	for i, sel := range r3Selectors {
		parsed[i] = []interface{}(sel)
	}
	c.state.r3Selectors = append(c.state.r3Selectors, parsed)
	c.state.contentSelectors = append(c.state.contentSelectors, selector)
	c.state.contentIndex[content] = len(c.state.contentSelectors)
	return nil
}

// CompileTemplate compiles a component template. A nil constantPool gets a
// fresh pool whose statements are returned with the result.
func CompileTemplate(nodes []render3.Node, meta TemplateMetadata, constantPool *constant.ConstantPool) (result *CompiledTemplate, err error) {
	defer util.RecoverCompileError(&err)
	if constantPool == nil {
		constantPool = constant.NewConstantPool()
	}
	builder := NewTemplateDefinitionBuilder(meta, constantPool)
	template := builder.BuildTemplateFunction(nodes, meta.Variables)

	result = &CompiledTemplate{
		Template:   template,
		Directives: builder.Directives(),
		Pipes:      builder.Pipes(),
	}
	if meta.ViewQueryFunction && len(meta.ViewQueries) > 0 {
		result.ViewQuery = CreateViewQueriesFunction(meta.ViewQueries, constantPool, meta.Name)
	}
	result.Statements = constantPool.Statements()
	return result, nil
}
