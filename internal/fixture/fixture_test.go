package fixture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/render3"
	"ngc-lower/packages/compiler/render3/view"
)

const todoList = `
name: TodoList
directives:
  - selector: '[ngFor][ngForOf]'
    type: NgForOf
pipes:
  uppercase: UpperCasePipe
template:
  - element: ul
    children:
      - text: '  '
      - template: ''
        attrs: {ngFor: ''}
        inputs: {ngForOf: items}
        let: {item: ''}
        children:
          - element: li
            children:
              - bound_text: '{{ item.title | uppercase }}'
`

func compileFixture(t *testing.T, f *Fixture) (string, *view.CompiledTemplate) {
	t.Helper()
	res, err := view.CompileTemplate(f.Nodes, f.Metadata(view.TemplateMetadata{}), nil)
	require.NoError(t, err)
	return strings.ReplaceAll(output.EmitStatements(res.Declarations()), "ɵɵ", ""), res
}

func TestDecodeAndCompile(t *testing.T) {
	f, err := Decode([]byte(todoList), "todo.yaml", Options{})
	require.NoError(t, err)
	require.Len(t, f.Nodes, 1)

	got, res := compileFixture(t, f)
	want := strings.Join([]string{
		"const _c0 = ['ngFor', ''];",
		"function TodoList_Template(rf, ctx) {",
		"  if (rf & 1) {",
		"    elementStart(0, 'ul');",
		"    container(1, TodoList_li_Template_1, null, _c0);",
		"    elementEnd();",
		"  }",
		"  if (rf & 2) {",
		"    elementProperty(1, 'ngForOf', bind(ctx.items));",
		"  }",
		"  function TodoList_li_Template_1(rf, ctx0) {",
		"    if (rf & 1) {",
		"      elementStart(0, 'li');",
		"      text(1);",
		"      pipe(2, 'uppercase');",
		"      elementEnd();",
		"      reserveSlots(2);",
		"    }",
		"    const item_r0 = ctx0.$implicit;",
		"    if (rf & 2) {",
		"      textBinding(1, interpolation1('', pipeBind1(2, 0, item_r0.title), ''));",
		"    }",
		"  }",
		"}",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("emitted code mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, res.Directives, 1)
	assert.Equal(t, "NgForOf", output.EmitExpression(res.Directives[0]))
	require.Len(t, res.Pipes, 1)
	assert.Equal(t, "UpperCasePipe", output.EmitExpression(res.Pipes[0]))
}

func TestPreserveWhitespaces(t *testing.T) {
	f, err := Decode([]byte(todoList), "todo.yaml", Options{PreserveWhitespaces: true})
	require.NoError(t, err)
	ul := f.Nodes[0].(*render3.Element)
	require.Len(t, ul.Children, 2)
	assert.Equal(t, "  ", ul.Children[0].(*render3.Text).Value)
}

func TestBindingNames(t *testing.T) {
	f, err := Decode([]byte(`
template:
  - element: div
    inputs:
      title: name
      attr.role: role
      class.active: isActive
      style.width.px: width
      '@fade': state
      attribute:aria-label: label
    outputs:
      click: save($event)
      window:resize: onResize()
      '@fade.done': faded()
    refs: {box: ''}
`), "bindings.yaml", Options{})
	require.NoError(t, err)
	div := f.Nodes[0].(*render3.Element)

	type binding struct {
		Name string
		Type render3.BindingType
		Unit string
	}
	var inputs []binding
	for _, in := range div.Inputs {
		inputs = append(inputs, binding{in.Name, in.Type, in.Unit})
	}
	assert.Equal(t, []binding{
		{"title", render3.BindingTypeProperty, ""},
		{"role", render3.BindingTypeAttribute, ""},
		{"active", render3.BindingTypeClass, ""},
		{"width", render3.BindingTypeStyle, "px"},
		{"fade", render3.BindingTypeAnimation, ""},
		{"aria-label", render3.BindingTypeAttribute, ""},
	}, inputs)

	require.Len(t, div.Outputs, 3)
	assert.Equal(t, "click", div.Outputs[0].Name)
	assert.Equal(t, "window", div.Outputs[1].Target)
	assert.Equal(t, "resize", div.Outputs[1].Name)
	assert.Equal(t, "fade", div.Outputs[2].Name)
	assert.Equal(t, "done", div.Outputs[2].Phase)

	require.Len(t, div.References, 1)
	assert.Equal(t, "box", div.References[0].Name)
}

func TestQueries(t *testing.T) {
	f, err := Decode([]byte(`
name: Cmp
view_query_function: true
queries:
  - property: items
    predicate: [a, b]
    descendants: true
  - property: dir
    predicate: SomeDir
    forward_ref: true
    first: true
    read: ElementRef
`), "queries.yaml", Options{})
	require.NoError(t, err)
	require.Len(t, f.Queries, 2)
	assert.Equal(t, []string{"a", "b"}, f.Queries[0].Predicate)
	assert.True(t, f.Queries[0].Descendants)
	assert.Equal(t,
		render3.CreateMaybeForwardRefExpression(output.Variable("SomeDir"), render3.ForwardRefHandlingWrapped),
		f.Queries[1].Predicate)
	assert.Equal(t, "ElementRef", output.EmitExpression(f.Queries[1].Read))

	meta := f.Metadata(view.TemplateMetadata{Name: "Ignored"})
	assert.Equal(t, "Cmp", meta.Name)
	assert.True(t, meta.ViewQueryFunction)

	got, _ := compileFixture(t, f)
	assert.Contains(t, got, "query(1, resolveForwardRef(SomeDir), false, ElementRef);")
	assert.Contains(t, got, "queryRefresh((_t = load(1))) && (ctx.dir = _t.first);")
}

func TestUnknownKeysSuggestClosestMatch(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{
			name: "node kind",
			doc:  "template:\n  - elemnt: div\n",
			want: `unknown.yaml@1:4: unknown node kind "elemnt", did you mean "element"?`,
		},
		{
			name: "element key",
			doc:  "template:\n  - element: div\n    chldren: []\n",
			want: `unknown.yaml@2:4: unknown element key "chldren", did you mean "children"?`,
		},
		{
			name: "fixture key",
			doc:  "templte: []\n",
			want: `unknown.yaml@0:0: unknown fixture key "templte", did you mean "template"?`,
		},
		{
			name: "binding type",
			doc:  "template:\n  - element: div\n    inputs:\n      clas:active: x\n",
			want: `unknown.yaml@3:6: unknown binding type "clas", did you mean "class"?`,
		},
		{
			name: "no close match",
			doc:  "template:\n  - widget: div\n",
			want: `unknown.yaml@1:4: unknown node kind "widget" (expected one of element, template, text, bound_text, content)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), "unknown.yaml", Options{})
			var fixtureErr *Error
			require.ErrorAs(t, err, &fixtureErr)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("template:\n  - bound_text: plain\n"), "e.yaml", Options{})
	assert.EqualError(t, err, "e.yaml@1:16: bound_text without interpolation")

	_, err = Decode([]byte("template:\n  - element: div\n    let: {x: ''}\n"), "e.yaml", Options{})
	assert.EqualError(t, err, "e.yaml@2:4: let is only allowed on templates")

	_, err = Decode([]byte("directives:\n  - selector: div\n"), "e.yaml", Options{})
	assert.EqualError(t, err, "e.yaml@1:4: a directive needs a selector and a type")

	_, err = Decode([]byte("template:\n  - element: div\n    inputs: {title: 'a +'}\n"), "e.yaml", Options{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "e.yaml@2:20: "), err.Error())

	_, err = Decode([]byte("template: [\n"), "e.yaml", Options{})
	assert.ErrorContains(t, err, "failed to parse fixture")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(todoList), 0o644))

	f, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "TodoList", f.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
