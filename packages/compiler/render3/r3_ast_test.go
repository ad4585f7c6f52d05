package render3

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// nodeRecorder records the kind and name of every node it sees
type nodeRecorder struct {
	RecursiveVisitor
	seen []string
}

func newNodeRecorder() *nodeRecorder {
	r := &nodeRecorder{}
	r.Self = r
	return r
}

func (r *nodeRecorder) VisitElement(element *Element) interface{} {
	r.seen = append(r.seen, "element "+element.Name)
	return r.RecursiveVisitor.VisitElement(element)
}

func (r *nodeRecorder) VisitTemplate(template *Template) interface{} {
	r.seen = append(r.seen, "template")
	return r.RecursiveVisitor.VisitTemplate(template)
}

func (r *nodeRecorder) VisitContent(content *Content) interface{} {
	r.seen = append(r.seen, "content "+content.Selector)
	return r.RecursiveVisitor.VisitContent(content)
}

func (r *nodeRecorder) VisitTextAttribute(attribute *TextAttribute) interface{} {
	r.seen = append(r.seen, "attr "+attribute.Name)
	return nil
}

func (r *nodeRecorder) VisitReference(reference *Reference) interface{} {
	r.seen = append(r.seen, "ref "+reference.Name)
	return nil
}

func (r *nodeRecorder) VisitVariable(variable *Variable) interface{} {
	r.seen = append(r.seen, "let "+variable.Name)
	return nil
}

func (r *nodeRecorder) VisitText(text *Text) interface{} {
	r.seen = append(r.seen, "text "+text.Value)
	return text.Value
}

func TestRecursiveVisitor(t *testing.T) {
	tree := []Node{
		NewElement("div",
			[]*TextAttribute{NewTextAttribute("id", "main", nil)},
			nil, nil,
			[]Node{
				NewTemplate("", nil, nil, nil,
					[]Node{NewText("inner", nil)},
					[]*Reference{NewReference("tpl", "", nil)},
					[]*Variable{NewVariable("item", "", nil)},
					nil),
				NewContent("[title]", []*TextAttribute{NewTextAttribute("class", "x", nil)}, nil),
			},
			[]*Reference{NewReference("box", "", nil)},
			nil),
		NewText("after", nil),
	}

	r := newNodeRecorder()
	results := VisitAll(r, tree)

	want := []string{
		"element div", "attr id",
		"template", "text inner", "ref tpl", "let item",
		"content [title]", "attr class",
		"ref box",
		"text after",
	}
	if diff := cmp.Diff(want, r.seen); diff != "" {
		t.Errorf("visit order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []interface{}{"after"}, results)
}

func TestParseBindingType(t *testing.T) {
	for _, name := range BindingTypeNames() {
		bindingType, ok := ParseBindingType(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, bindingType.String())
	}
	_, ok := ParseBindingType("event")
	assert.False(t, ok)
	assert.Equal(t, "unknown", BindingType(42).String())
}
