package fixture

import (
	"strings"

	"gopkg.in/yaml.v3"

	ep "ngc-lower/packages/compiler/expression_parser"
	"ngc-lower/packages/compiler/render3"
)

func (d *decoder) nodes(n *yaml.Node) ([]render3.Node, error) {
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	nodes := make([]render3.Node, 0, len(items))
	for _, item := range items {
		node, err := d.node(item)
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// node decodes one template node. The node kind is the first key of the
// mapping, its value the tag name, text or selector.
func (d *decoder) node(n *yaml.Node) (render3.Node, error) {
	pairs, err := d.entries(n)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, d.errorf(n, "empty template node")
	}
	kindKey := pairs[0][0]
	value, err := d.scalar(pairs[0][1])
	if err != nil {
		return nil, err
	}
	span := d.span(kindKey)
	rest := pairs[1:]

	switch kindKey.Value {
	case "text":
		if err := d.noKeys(rest); err != nil {
			return nil, err
		}
		if !d.opts.PreserveWhitespaces && strings.TrimSpace(value) == "" {
			return nil, nil
		}
		return render3.NewText(value, span), nil

	case "bound_text":
		if err := d.noKeys(rest); err != nil {
			return nil, err
		}
		parsed := d.parser.ParseInterpolation(value, span.Start.String(), 0)
		if parsed == nil {
			return nil, d.errorf(pairs[0][1], "bound_text without interpolation")
		}
		if err := parsed.Err(); err != nil {
			return nil, d.errorf(pairs[0][1], "%v", err)
		}
		return render3.NewBoundText(parsed.AST, span), nil

	case "content":
		var attrs []*render3.TextAttribute
		for _, kv := range rest {
			if kv[0].Value != "attrs" {
				return nil, d.unknownKey(kv[0], "content key", []string{"attrs"})
			}
			if attrs, err = d.attributes(kv[1]); err != nil {
				return nil, err
			}
		}
		return render3.NewContent(value, attrs, span), nil

	case "element", "template":
		parts := &elementParts{}
		for _, kv := range rest {
			if err := d.elementPart(kv[0], kv[1], parts, kindKey.Value == "template"); err != nil {
				return nil, err
			}
		}
		if kindKey.Value == "element" {
			return render3.NewElement(value, parts.attrs, parts.inputs, parts.outputs, parts.children, parts.refs, span), nil
		}
		return render3.NewTemplate(value, parts.attrs, parts.inputs, parts.outputs, parts.children, parts.refs, parts.variables, span), nil
	}
	return nil, d.unknownKey(kindKey, "node kind", nodeKinds)
}

type elementParts struct {
	attrs     []*render3.TextAttribute
	inputs    []*render3.BoundAttribute
	outputs   []*render3.BoundEvent
	refs      []*render3.Reference
	variables []*render3.Variable
	children  []render3.Node
}

func (d *decoder) elementPart(key, value *yaml.Node, parts *elementParts, template bool) (err error) {
	switch key.Value {
	case "attrs":
		parts.attrs, err = d.attributes(value)
	case "inputs":
		parts.inputs, err = d.inputs(value)
	case "outputs":
		parts.outputs, err = d.outputs(value)
	case "refs":
		parts.refs, err = d.references(value)
	case "children":
		parts.children, err = d.nodes(value)
	case "let":
		if !template {
			return d.errorf(key, "let is only allowed on templates")
		}
		parts.variables, err = d.variables(value)
	default:
		return d.unknownKey(key, "element key", nodeKeys)
	}
	return err
}

func (d *decoder) noKeys(pairs [][2]*yaml.Node) error {
	if len(pairs) > 0 {
		return d.errorf(pairs[0][0], "unexpected key %q", pairs[0][0].Value)
	}
	return nil
}

func (d *decoder) attributes(n *yaml.Node) ([]*render3.TextAttribute, error) {
	pairs, err := d.entries(n)
	if err != nil {
		return nil, err
	}
	attrs := make([]*render3.TextAttribute, 0, len(pairs))
	for _, kv := range pairs {
		value, err := d.scalar(kv[1])
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, render3.NewTextAttribute(kv[0].Value, value, d.span(kv[0])))
	}
	return attrs, nil
}

func (d *decoder) references(n *yaml.Node) ([]*render3.Reference, error) {
	pairs, err := d.entries(n)
	if err != nil {
		return nil, err
	}
	refs := make([]*render3.Reference, 0, len(pairs))
	for _, kv := range pairs {
		value, err := d.scalar(kv[1])
		if err != nil {
			return nil, err
		}
		refs = append(refs, render3.NewReference(kv[0].Value, value, d.span(kv[0])))
	}
	return refs, nil
}

// inputs decodes bindings keyed the way templates spell them without the
// brackets: `title`, `attr.role`, `class.active`, `style.width.px`,
// `@trigger`. `kind:name` names the binding type explicitly.
func (d *decoder) inputs(n *yaml.Node) ([]*render3.BoundAttribute, error) {
	pairs, err := d.entries(n)
	if err != nil {
		return nil, err
	}
	inputs := make([]*render3.BoundAttribute, 0, len(pairs))
	for _, kv := range pairs {
		key, value := kv[0], kv[1]
		bindingType, name, unit, err := d.bindingName(key)
		if err != nil {
			return nil, err
		}
		source, err := d.scalar(value)
		if err != nil {
			return nil, err
		}
		ast, err := d.parseBinding(value, source)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, render3.NewBoundAttribute(name, bindingType, ast, unit, d.span(key)))
	}
	return inputs, nil
}

func (d *decoder) bindingName(key *yaml.Node) (render3.BindingType, string, string, error) {
	name := key.Value
	if kind, rest, ok := strings.Cut(name, ":"); ok {
		bindingType, known := render3.ParseBindingType(kind)
		if !known {
			kindNode := *key
			kindNode.Value = kind
			return 0, "", "", d.unknownKey(&kindNode, "binding type", render3.BindingTypeNames())
		}
		return bindingType, rest, "", nil
	}
	if strings.HasPrefix(name, render3.LEGACY_ANIMATE_SYMBOL_PREFIX) {
		return render3.BindingTypeAnimation, name[1:], "", nil
	}
	prefix, rest, ok := strings.Cut(name, ".")
	if !ok {
		return render3.BindingTypeProperty, name, "", nil
	}
	switch prefix {
	case "attr":
		return render3.BindingTypeAttribute, rest, "", nil
	case "class":
		return render3.BindingTypeClass, rest, "", nil
	case "style":
		property, unit, _ := strings.Cut(rest, ".")
		return render3.BindingTypeStyle, property, unit, nil
	}
	return render3.BindingTypeProperty, name, "", nil
}

func (d *decoder) parseBinding(n *yaml.Node, source string) (ep.AST, error) {
	location := d.location(n).String()
	if parsed := d.parser.ParseInterpolation(source, location, 0); parsed != nil {
		if err := parsed.Err(); err != nil {
			return nil, d.errorf(n, "%v", err)
		}
		return parsed.AST, nil
	}
	parsed := d.parser.ParseBinding(source, location, 0)
	if err := parsed.Err(); err != nil {
		return nil, d.errorf(n, "%v", err)
	}
	return parsed.AST, nil
}

// outputs decodes listeners keyed `event`, `target:event` or
// `@trigger.phase`
func (d *decoder) outputs(n *yaml.Node) ([]*render3.BoundEvent, error) {
	pairs, err := d.entries(n)
	if err != nil {
		return nil, err
	}
	outputs := make([]*render3.BoundEvent, 0, len(pairs))
	for _, kv := range pairs {
		key, value := kv[0], kv[1]
		source, err := d.scalar(value)
		if err != nil {
			return nil, err
		}
		parsed := d.parser.ParseAction(source, d.location(value).String(), 0)
		if err := parsed.Err(); err != nil {
			return nil, d.errorf(value, "%v", err)
		}

		name, target, phase := key.Value, "", ""
		if strings.HasPrefix(name, render3.LEGACY_ANIMATE_SYMBOL_PREFIX) {
			name, phase, _ = strings.Cut(name[1:], ".")
			if phase == "" {
				return nil, d.errorf(key, "animation listener %q needs a phase", key.Value)
			}
		} else if t, event, ok := strings.Cut(name, ":"); ok {
			target, name = t, event
		}
		outputs = append(outputs, render3.NewBoundEvent(name, parsed.AST, target, phase, d.span(key)))
	}
	return outputs, nil
}
