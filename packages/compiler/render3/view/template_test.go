package view

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ep "ngc-lower/packages/compiler/expression_parser"
	"ngc-lower/packages/compiler/output"
	constant "ngc-lower/packages/compiler/pool"
	"ngc-lower/packages/compiler/render3"
	"ngc-lower/packages/compiler/util"
)

var exprParser = ep.NewParser(ep.NewLexer())

func bindingExpr(t *testing.T, text string) ep.AST {
	t.Helper()
	ast := exprParser.ParseBinding(text, "test", 0)
	require.NoError(t, ast.Err())
	return ast.AST
}

func actionExpr(t *testing.T, text string) ep.AST {
	t.Helper()
	ast := exprParser.ParseAction(text, "test", 0)
	require.NoError(t, ast.Err())
	return ast.AST
}

func boundText(t *testing.T, text string) *render3.BoundText {
	t.Helper()
	ast := exprParser.ParseInterpolation(text, "test", 0)
	require.NotNil(t, ast)
	require.NoError(t, ast.Err())
	return render3.NewBoundText(ast.AST, nil)
}

func text(value string) *render3.Text {
	return render3.NewText(value, nil)
}

func el(name string, children ...render3.Node) *render3.Element {
	return render3.NewElement(name, nil, nil, nil, children, nil, nil)
}

func attr(name, value string) *render3.TextAttribute {
	return render3.NewTextAttribute(name, value, nil)
}

func input(t *testing.T, kind render3.BindingType, name, expr string) *render3.BoundAttribute {
	return render3.NewBoundAttribute(name, kind, bindingExpr(t, expr), "", nil)
}

func event(t *testing.T, name, handler string) *render3.BoundEvent {
	return render3.NewBoundEvent(name, actionExpr(t, handler), "", "", nil)
}

func tpl(children ...render3.Node) *render3.Template {
	return render3.NewTemplate("", nil, nil, nil, children, nil, nil, nil)
}

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

func emit(res *CompiledTemplate) string {
	return strings.ReplaceAll(output.EmitStatements(res.Declarations()), "ɵɵ", "")
}

func compile(t *testing.T, meta TemplateMetadata, nodes ...render3.Node) (string, *CompiledTemplate) {
	t.Helper()
	res, err := CompileTemplate(nodes, meta, nil)
	require.NoError(t, err)
	return emit(res), res
}

func compileErr(t *testing.T, meta TemplateMetadata, nodes ...render3.Node) error {
	t.Helper()
	_, err := CompileTemplate(nodes, meta, nil)
	require.Error(t, err)
	return err
}

func assertCode(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("emitted code mismatch (-want +got):\n%s", diff)
	}
}

var cmpMeta = TemplateMetadata{Name: "Cmp"}

func TestStaticElements(t *testing.T) {
	div := el("div", text("Hello"))
	div.Attributes = []*render3.TextAttribute{attr("class", "greeting"), attr("title", "hi"), attr("i18n", "meaning")}

	got, _ := compile(t, cmpMeta, div, el("hr"))
	assertCode(t, lines(
		"const _c0 = ['class', 'greeting', 'title', 'hi'];",
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    elementStart(0, 'div', _c0);",
		"    text(1, 'Hello');",
		"    elementEnd();",
		"    element(2, 'hr');",
		"  }",
		"}",
	), got)
}

func TestEmptyTemplate(t *testing.T) {
	got, res := compile(t, TemplateMetadata{})
	assertCode(t, lines(
		"function Template(rf, ctx) {",
		"}",
	), got)
	assert.Empty(t, res.Directives)
	assert.Empty(t, res.Pipes)
}

func TestBindingsAndListeners(t *testing.T) {
	button := el("button", text("Save"))
	width := input(t, render3.BindingTypeStyle, "width", "w")
	width.Unit = "px"
	button.Inputs = []*render3.BoundAttribute{
		input(t, render3.BindingTypeProperty, "disabled", "busy"),
		input(t, render3.BindingTypeAttribute, "aria-label", "label"),
		input(t, render3.BindingTypeClass, "active", "on"),
		width,
	}
	button.Outputs = []*render3.BoundEvent{event(t, "click", "save($event)")}

	got, _ := compile(t, cmpMeta, button)
	assertCode(t, lines(
		"const _c0 = [1, 'disabled', 'click'];",
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    elementStart(0, 'button', _c0);",
		"    listener('click', function Cmp_Template_button_click_listener($event) {",
		"      return (ctx.save($event) as any) !== false;",
		"    });",
		"    text(1, 'Save');",
		"    elementEnd();",
		"  }",
		"  if (rf & 2) {",
		"    elementProperty(0, 'disabled', bind(ctx.busy));",
		"    elementAttribute(0, 'aria-label', bind(ctx.label));",
		"    elementClassProp(0, 'active', bind(ctx.on));",
		"    elementStyleProp(0, 'width', bind(ctx.w), 'px');",
		"  }",
		"}",
	), got)
}

func TestListenerStatements(t *testing.T) {
	div := el("div")
	div.Outputs = []*render3.BoundEvent{
		event(t, "keyup", "a = $event; b()"),
		render3.NewBoundEvent("resize", actionExpr(t, "onResize()"), "window", "", nil),
	}

	got, _ := compile(t, cmpMeta, div)
	assert.Contains(t, got, lines(
		"    listener('keyup', function Cmp_Template_div_keyup_listener($event) {",
		"      ctx.a = $event;",
		"      return (ctx.b() as any) !== false;",
		"    });",
	))
	assert.Contains(t, got, "listener('window:resize', function Cmp_Template_div_window_resize_listener($event) {")
}

func TestInterpolatedText(t *testing.T) {
	got, _ := compile(t, cmpMeta, el("span", boundText(t, "Hello {{name}}!")))
	assertCode(t, lines(
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    elementStart(0, 'span');",
		"    text(1);",
		"    elementEnd();",
		"  }",
		"  if (rf & 2) {",
		"    textBinding(1, interpolation1('Hello ', ctx.name, '!'));",
		"  }",
		"}",
	), got)
}

func TestInterpolationArity(t *testing.T) {
	var eight, nine strings.Builder
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		if i < 8 {
			eight.WriteString("{{" + name + "}}")
		}
		nine.WriteString("{{" + name + "}}")
	}

	got, _ := compile(t, cmpMeta, boundText(t, eight.String()))
	assert.Contains(t, got, "textBinding(0, interpolation8('', ctx.a, '', ctx.b, '', ctx.c, '', ctx.d, '', ctx.e, '', ctx.f, '', ctx.g, '', ctx.h, ''));")

	got, _ = compile(t, cmpMeta, boundText(t, nine.String()))
	assert.Contains(t, got, "textBinding(0, interpolationV(['', ctx.a, '', ctx.b, '', ctx.c, '', ctx.d, '', ctx.e, '', ctx.f, '', ctx.g, '', ctx.h, '', ctx.i, '']));")
}

func TestInterpolateArgumentLength(t *testing.T) {
	call := func(n int) (code string, err error) {
		defer util.RecoverCompileError(&err)
		args := []output.OutputExpression{output.Literal(n / 2)}
		for i := 0; i < n; i++ {
			args = append(args, output.Literal(i))
		}
		return strings.ReplaceAll(output.EmitExpression(interpolationInstruction(0)(args)), "ɵɵ", ""), nil
	}

	code, err := call(3)
	require.NoError(t, err)
	assert.Equal(t, "interpolation1(0, 1, 2)", code)

	code, err = call(17)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "interpolation8(0, 1,"), code)

	code, err = call(19)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "interpolationV([0, 1,"), code)

	for _, n := range []int{0, 1, 2, 4, 18} {
		_, err = call(n)
		assert.ErrorContains(t, err, "Invalid interpolation argument length", "length %d", n)
	}
}

func TestInterpolationLimits(t *testing.T) {
	meta := TemplateMetadata{Name: "Cmp", InlineInterpolationLimit: 1}
	got, _ := compile(t, meta, boundText(t, "{{a}}"), boundText(t, "{{a}}-{{b}}"))
	assert.Contains(t, got, "textBinding(0, interpolation1('', ctx.a, ''));")
	assert.Contains(t, got, "textBinding(1, interpolationV(['', ctx.a, '-', ctx.b, '']));")

	meta = TemplateMetadata{Name: "Cmp", VariadicInterpolation: true}
	got, _ = compile(t, meta, boundText(t, "x{{a}}"))
	assert.Contains(t, got, "textBinding(0, interpolationV(['x', ctx.a, '']));")
}

func TestPipes(t *testing.T) {
	meta := TemplateMetadata{
		Name:  "Cmp",
		Pipes: map[string]output.OutputExpression{"uppercase": output.Variable("UpperCasePipe")},
	}
	p := el("p")
	p.Inputs = []*render3.BoundAttribute{input(t, render3.BindingTypeProperty, "title", "name | uppercase")}

	got, res := compile(t, meta, p, el("i", boundText(t, "{{ when | date:'short':tz }}")))
	assertCode(t, lines(
		"const _c0 = [1, 'title'];",
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    element(0, 'p', _c0);",
		"    pipe(1, 'uppercase');",
		"    elementStart(2, 'i');",
		"    text(3);",
		"    pipe(4, 'date');",
		"    elementEnd();",
		"    reserveSlots(6);",
		"  }",
		"  if (rf & 2) {",
		"    elementProperty(0, 'title', bind(pipeBind1(1, 0, ctx.name)));",
		"    textBinding(3, interpolation1('', pipeBind3(4, 2, ctx.when, 'short', ctx.tz), ''));",
		"  }",
		"}",
	), got)

	// date is instantiated by name but has no known type
	require.Len(t, res.Pipes, 1)
	assert.Equal(t, "UpperCasePipe", output.EmitExpression(res.Pipes[0]))
}

func TestPipeWithManyArguments(t *testing.T) {
	got, _ := compile(t, cmpMeta, boundText(t, "{{ v | fmt:a:b:c:d }}"))
	assert.Contains(t, got, "pipe(1, 'fmt');")
	assert.Contains(t, got, "reserveSlots(6);")
	assert.Contains(t, got, "pipeBindV(1, 0, [ctx.v, ctx.a, ctx.b, ctx.c, ctx.d])")
}

func TestPureFunctions(t *testing.T) {
	myCmp := el("my-cmp")
	myCmp.Inputs = []*render3.BoundAttribute{
		input(t, render3.BindingTypeProperty, "items", "[1, x]"),
		input(t, render3.BindingTypeProperty, "cfg", "{a: 1}"),
	}

	got, _ := compile(t, cmpMeta, myCmp)
	assertCode(t, lines(
		"const _c0 = [1, 'items', 'cfg'];",
		"const _c1 = function(a0) {",
		"  return [1, a0];",
		"};",
		"const _c2 = {a: 1};",
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    element(0, 'my-cmp', _c0);",
		"    reserveSlots(2);",
		"  }",
		"  if (rf & 2) {",
		"    elementProperty(0, 'items', bind(pureFunction1(0, _c1, ctx.x)));",
		"    elementProperty(0, 'cfg', bind(_c2));",
		"  }",
		"}",
	), got)
}

func TestSafeNavigationInBinding(t *testing.T) {
	got, _ := compile(t, cmpMeta, boundText(t, "{{ user?.name }}"))
	assert.Contains(t, got, "textBinding(0, interpolation1('', ((ctx.user == null) ? null : ctx.user.name), ''));")
}

func TestReferences(t *testing.T) {
	in := el("input")
	in.References = []*render3.Reference{render3.NewReference("name", "", nil)}

	got, _ := compile(t, cmpMeta, in, el("span", boundText(t, "{{name.value}}")))
	assertCode(t, lines(
		"const _c0 = ['name', ''];",
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    element(0, 'input', null, _c0);",
		"    elementStart(2, 'span');",
		"    text(3);",
		"    elementEnd();",
		"  }",
		"  const _r0 = load(1);",
		"  if (rf & 2) {",
		"    textBinding(3, interpolation1('', _r0.value, ''));",
		"  }",
		"}",
	), got)
}

func TestUnusedReference(t *testing.T) {
	in := el("input")
	in.References = []*render3.Reference{render3.NewReference("unused", "", nil)}

	got, _ := compile(t, cmpMeta, in)
	assertCode(t, lines(
		"const _c0 = ['unused', ''];",
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    element(0, 'input', null, _c0);",
		"  }",
		"}",
	), got)
}

func TestReferenceReadFromNestedScopes(t *testing.T) {
	in := el("input")
	in.References = []*render3.Reference{render3.NewReference("box", "", nil)}
	button := el("button")
	button.Outputs = []*render3.BoundEvent{event(t, "click", "save(box.value)")}

	got, _ := compile(t, cmpMeta, in, button, tpl(boundText(t, "{{box.value}}")), el("b", boundText(t, "{{box.id}}")))
	assert.Equal(t, 1, strings.Count(got, "load("), got)
	assert.Contains(t, got, lines(
		"  }",
		"  const _r0 = load(1);",
		"  if (rf & 2) {",
	))
	assert.Contains(t, got, "return (ctx.save(_r0.value) as any) !== false;")
	assert.Contains(t, got, "textBinding(0, interpolation1('', _r0.value, ''));")
	assert.Contains(t, got, "interpolation1('', _r0.id, '')")
}

func TestBindingErrorLocation(t *testing.T) {
	file := util.NewParseSourceFile("<b [x]=\"$any()\"></b>", "cmp.html")
	span := util.SpanOf(file, 3, 15)

	b := el("b")
	b.Inputs = []*render3.BoundAttribute{
		render3.NewBoundAttribute("x", render3.BindingTypeProperty, bindingExpr(t, "$any()"), "", span),
	}
	err := compileErr(t, cmpMeta, b)
	var ce *util.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Same(t, span, ce.Span)
	assert.Equal(t, &util.ExprSpan{Start: 0, End: 6}, ce.Expr)
	assert.EqualError(t, err, "Invalid call to $any, expected 1 argument but received none at column 0 (cmp.html@0:3)")

	button := el("button")
	button.Outputs = []*render3.BoundEvent{
		render3.NewBoundEvent("click", actionExpr(t, "$event = 1"), "", "", span),
	}
	err = compileErr(t, cmpMeta, button)
	require.ErrorAs(t, err, &ce)
	assert.Same(t, span, ce.Span)

	err = compileErr(t, cmpMeta, render3.NewBoundText(bindingExpr(t, "$any(a, b)"), span))
	require.ErrorAs(t, err, &ce)
	assert.Same(t, span, ce.Span)
}

func TestDuplicateReference(t *testing.T) {
	a := el("div")
	a.References = []*render3.Reference{render3.NewReference("a", "", nil)}
	b := el("span")
	b.References = []*render3.Reference{render3.NewReference("a", "", nil)}

	err := compileErr(t, cmpMeta, a, b)
	assert.EqualError(t, err, "The name a is already defined in scope to be _r0")
}

func TestNestedTemplate(t *testing.T) {
	matcher := NewSelectorDirectiveMatcher()
	require.NoError(t, matcher.Add("[ngFor][ngForOf]", output.Variable("NgForOf")))
	require.NoError(t, matcher.Add("ul", output.Variable("List")))

	template := tpl(el("li", boundText(t, "{{item.name}} {{title}}")))
	template.Attributes = []*render3.TextAttribute{attr("ngFor", "")}
	template.Inputs = []*render3.BoundAttribute{input(t, render3.BindingTypeProperty, "ngForOf", "items")}
	template.Variables = []*render3.Variable{render3.NewVariable("item", "", nil)}

	got, res := compile(t, TemplateMetadata{Name: "Cmp", DirectiveMatcher: matcher}, el("ul", template))
	assertCode(t, lines(
		"const _c0 = ['ngFor', ''];",
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    elementStart(0, 'ul');",
		"    container(1, Cmp_li_Template_1, null, _c0);",
		"    elementEnd();",
		"  }",
		"  if (rf & 2) {",
		"    elementProperty(1, 'ngForOf', bind(ctx.items));",
		"  }",
		"  function Cmp_li_Template_1(rf, ctx0) {",
		"    if (rf & 1) {",
		"      elementStart(0, 'li');",
		"      text(1);",
		"      elementEnd();",
		"    }",
		"    const item_r0 = ctx0.$implicit;",
		"    if (rf & 2) {",
		"      textBinding(1, interpolation2('', item_r0.name, ' ', ctx.title, ''));",
		"    }",
		"  }",
		"}",
	), got)

	names := make([]string, len(res.Directives))
	for i, d := range res.Directives {
		names[i] = output.EmitExpression(d)
	}
	assert.Equal(t, []string{"List", "NgForOf"}, names)
}

func TestSiblingTemplatesHaveIndependentSlots(t *testing.T) {
	got, _ := compile(t, cmpMeta, tpl(el("span")), tpl(el("b")))
	assert.Contains(t, got, "container(0, Cmp_span_Template_0);")
	assert.Contains(t, got, "container(1, Cmp_b_Template_1);")
	assert.Contains(t, got, lines(
		"  function Cmp_span_Template_0(rf, ctx0) {",
		"    if (rf & 1) {",
		"      element(0, 'span');",
	))
	assert.Contains(t, got, lines(
		"  function Cmp_b_Template_1(rf, ctx0) {",
		"    if (rf & 1) {",
		"      element(0, 'b');",
	))
}

func TestVariablesCrossTemplateBoundaries(t *testing.T) {
	inner := tpl(el("b", boundText(t, "{{item}}")))
	outer := tpl(inner)
	outer.Variables = []*render3.Variable{render3.NewVariable("item", "", nil)}

	got, _ := compile(t, cmpMeta, outer)
	assertCode(t, lines(
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    container(0, Template_0);",
		"  }",
		"  function Template_0(rf, ctx0) {",
		"    if (rf & 1) {",
		"      container(0, b_Template_0);",
		"    }",
		"    function b_Template_0(rf, ctx1) {",
		"      if (rf & 1) {",
		"        elementStart(0, 'b');",
		"        text(1);",
		"        elementEnd();",
		"      }",
		"      const item_r0 = ctx0.$implicit;",
		"      if (rf & 2) {",
		"        textBinding(1, interpolation1('', item_r0, ''));",
		"      }",
		"    }",
		"  }",
		"}",
	), got)
}

func TestListenerInNestedTemplate(t *testing.T) {
	button := el("button")
	button.Outputs = []*render3.BoundEvent{event(t, "click", "remove(item)")}
	template := tpl(button)
	template.Variables = []*render3.Variable{render3.NewVariable("item", "", nil)}

	got, _ := compile(t, cmpMeta, template)
	assert.Contains(t, got, lines(
		"  function Cmp_button_Template_0(rf, ctx0) {",
		"    if (rf & 1) {",
		"      elementStart(0, 'button', _c0);",
		"      listener('click', function Cmp_button_Template_0_button_click_listener($event) {",
		"        const item_r0 = ctx0.$implicit;",
		"        return (ctx.remove(item_r0) as any) !== false;",
		"      });",
		"      elementEnd();",
		"    }",
		"  }",
	))
	assert.NotContains(t, got, "if (rf & 2)", "the listener declares the variable itself")
}

func TestTemplateVariableValue(t *testing.T) {
	template := tpl(boundText(t, "{{i}}"))
	template.Variables = []*render3.Variable{render3.NewVariable("i", "index", nil)}

	got, _ := compile(t, cmpMeta, template)
	assert.Contains(t, got, "const i_r0 = ctx0.index;")
}

func TestNamespaces(t *testing.T) {
	got, _ := compile(t, cmpMeta, el(":svg:svg", el(":svg:circle")), el("div"), el(":math:math"))
	assertCode(t, lines(
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    namespaceSVG();",
		"    elementStart(0, 'svg');",
		"    element(1, 'circle');",
		"    elementEnd();",
		"    namespaceHTML();",
		"    element(2, 'div');",
		"    namespaceMathML();",
		"    element(3, 'math');",
		"  }",
		"}",
	), got)
}

func TestElementContainer(t *testing.T) {
	container := el("ng-container", el("span"))
	container.Attributes = []*render3.TextAttribute{attr("role", "group")}

	got, _ := compile(t, cmpMeta, container)
	assertCode(t, lines(
		"const _c0 = ['role', 'group'];",
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    elementContainerStart(0, _c0);",
		"    element(1, 'span');",
		"    elementContainerEnd();",
		"  }",
		"}",
	), got)
}

func TestContentProjection(t *testing.T) {
	footer := render3.NewContent("footer", []*render3.TextAttribute{attr("select", "footer"), attr("class", "x")}, nil)
	got, _ := compile(t, cmpMeta,
		render3.NewContent("", nil, nil),
		render3.NewContent("[title]", nil, nil),
		footer,
	)
	assertCode(t, lines(
		"const _c0 = [[['', 'title', '']], [['footer']]];",
		"const _c1 = ['[title]', 'footer'];",
		"function Cmp_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    projectionDef(_c0, _c1);",
		"    projection(0);",
		"    projection(1, 1);",
		"    projection(2, 2, ['class', 'x']);",
		"  }",
		"}",
	), got)
}

func TestContentInNestedTemplate(t *testing.T) {
	got, _ := compile(t, cmpMeta,
		render3.NewContent("*", nil, nil),
		tpl(render3.NewContent(".a", nil, nil)),
	)
	assert.Contains(t, got, lines(
		"    projectionDef(_c0, _c1);",
		"    projection(0);",
		"    container(1, Template_1);",
	))
	assert.Contains(t, got, "      projection(0, 1);")
	assert.Equal(t, 1, strings.Count(got, "projectionDef"))
}

func TestDefaultContentOnly(t *testing.T) {
	got, _ := compile(t, cmpMeta, render3.NewContent("", nil, nil))
	assert.Contains(t, got, "    projectionDef();\n    projection(0);")
}

func TestViewQueriesInTemplate(t *testing.T) {
	meta := TemplateMetadata{
		Name: "Cmp",
		ViewQueries: []R3QueryMetadata{
			{PropertyName: "child", First: true, Predicate: []string{"ref"}, Descendants: true},
		},
	}
	got, res := compile(t, meta, el("div"))
	assertCode(t, lines(
		"const _c0 = ['ref'];",
		"function Cmp_Template(rf, ctx) {",
		"  var _t;",
		"  if (rf & 1) {",
		"    query(0, _c0, true);",
		"    element(1, 'div');",
		"  }",
		"  if (rf & 2) {",
		"    queryRefresh((_t = load(0))) && (ctx.child = _t.first);",
		"  }",
		"}",
	), got)
	assert.Nil(t, res.ViewQuery)
}

func TestViewQueryFunction(t *testing.T) {
	meta := TemplateMetadata{
		Name:              "Cmp",
		ViewQueryFunction: true,
		ViewQueries: []R3QueryMetadata{
			{PropertyName: "child", Predicate: []string{"ref"}},
		},
	}
	got, res := compile(t, meta, el("div"))
	assert.Contains(t, got, "element(0, 'div');")
	assert.NotContains(t, output.EmitExpression(res.Template), "query")
	require.NotNil(t, res.ViewQuery)
	assert.Equal(t, "Cmp_Query", res.ViewQuery.Name)
	assert.True(t, strings.HasPrefix(got, lines(
		"const _c0 = ['ref'];",
		"function Cmp_Query(rf, ctx) {",
		"  var _t;",
		"  if (rf & 1) {",
		"    query(0, _c0, false);",
		"  }",
		"  if (rf & 2) {",
		"    queryRefresh((_t = load(0))) && (ctx.child = _t);",
		"  }",
		"}",
		"function Cmp_Template(rf, ctx) {",
	)), got)

	keys := []string{}
	for _, entry := range res.DefinitionMap().Values {
		keys = append(keys, entry.Key)
	}
	assert.Equal(t, []string{"template", "viewQuery"}, keys)
}

func TestUnsupportedAnimations(t *testing.T) {
	div := el("div")
	div.Inputs = []*render3.BoundAttribute{input(t, render3.BindingTypeAnimation, "fade", "state")}
	err := compileErr(t, cmpMeta, div)
	assert.EqualError(t, err, "Feature animations is not supported yet")

	div = el("div")
	div.Outputs = []*render3.BoundEvent{render3.NewBoundEvent("fade", actionExpr(t, "done()"), "", "done", nil)}
	err = compileErr(t, cmpMeta, div)
	assert.EqualError(t, err, "Feature animations is not supported yet")
	assert.False(t, util.IsInternal(err))
}

func TestPipeInListener(t *testing.T) {
	div := el("div")
	span := ep.NewParseSpan(0, 1)
	handler := ep.NewBindingPipe(span, nil, ep.NewPropertyRead(span, nil, ep.NewImplicitReceiver(span, nil), "x"), "async", nil)
	div.Outputs = []*render3.BoundEvent{render3.NewBoundEvent("click", handler, "", "", nil)}

	err := compileErr(t, cmpMeta, div)
	assert.ErrorContains(t, err, "Actions are not allowed to contain pipes. Pipe: async")
}

func TestInvalidContentSelector(t *testing.T) {
	err := compileErr(t, cmpMeta, render3.NewContent(":not(:not(a))", nil, nil))
	assert.ErrorContains(t, err, "Nesting :not is not allowed in a selector")
}

func TestSharedConstantPool(t *testing.T) {
	pool := constant.NewConstantPool()
	a := el("div")
	a.Attributes = []*render3.TextAttribute{attr("id", "x")}
	b := el("div")
	b.Attributes = []*render3.TextAttribute{attr("id", "x")}

	res, err := CompileTemplate([]render3.Node{a, b}, cmpMeta, pool)
	require.NoError(t, err)
	code := emit(res)
	assert.Equal(t, 1, strings.Count(code, "const _c0 = ['id', 'x'];"))
	assert.Contains(t, code, "element(0, 'div', _c0);\n    element(1, 'div', _c0);")
}

func TestDefinitionMap(t *testing.T) {
	matcher := NewSelectorDirectiveMatcher()
	require.NoError(t, matcher.Add("my-cmp", output.Variable("MyCmp")))
	meta := TemplateMetadata{
		Name:             "App",
		DirectiveMatcher: matcher,
		Pipes:            map[string]output.OutputExpression{"json": output.Variable("JsonPipe")},
	}
	_, res := compile(t, meta, el("my-cmp", boundText(t, "{{ v | json }}")), el("my-cmp"))

	code := output.EmitExpression(res.DefinitionMap().ToLiteralMap())
	assert.True(t, strings.HasPrefix(code, "{template: function App_Template(rf, ctx) {"), code)
	assert.True(t, strings.HasSuffix(code, "}, directives: [MyCmp], pipes: [JsonPipe]}"), code)
}
