// Package fixture decodes component templates written as YAML documents into
// template AST nodes and compilation metadata.
//
//	name: TodoList
//	directives:
//	  - selector: '[ngFor][ngForOf]'
//	    type: NgForOf
//	pipes:
//	  uppercase: UpperCasePipe
//	template:
//	  - element: ul
//	    children:
//	      - template: ''
//	        attrs: {ngFor: ''}
//	        inputs: {ngForOf: items}
//	        let: {item: ''}
//	        children:
//	          - element: li
//	            children:
//	              - bound_text: '{{ item.title | uppercase }}'
package fixture

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	ep "ngc-lower/packages/compiler/expression_parser"
	"ngc-lower/packages/compiler/output"
	"ngc-lower/packages/compiler/render3"
	"ngc-lower/packages/compiler/render3/view"
	"ngc-lower/packages/compiler/util"
)

// Fixture is a decoded component template
type Fixture struct {
	Name       string
	Nodes      []render3.Node
	Variables  []*render3.Variable
	Directives *view.SelectorDirectiveMatcher
	Pipes      map[string]output.OutputExpression
	Queries    []view.R3QueryMetadata

	// ViewQueryFunction is nil unless the fixture sets it
	ViewQueryFunction *bool
}

// Options controls decoding
type Options struct {
	// PreserveWhitespaces keeps text nodes made of whitespace only
	PreserveWhitespaces bool
}

// Metadata completes base with the name, directives, pipes and queries of
// the fixture. A fixture name overrides the configured one.
func (f *Fixture) Metadata(base view.TemplateMetadata) view.TemplateMetadata {
	meta := base
	if f.Name != "" {
		meta.Name = f.Name
	}
	meta.Variables = f.Variables
	meta.DirectiveMatcher = f.Directives
	meta.Pipes = f.Pipes
	meta.ViewQueries = f.Queries
	if f.ViewQueryFunction != nil {
		meta.ViewQueryFunction = *f.ViewQueryFunction
	}
	return meta
}

// Load reads and decodes the fixture at path
func Load(path string, opts Options) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Decode(data, path, opts)
}

// Decode decodes a fixture document. url names the document in error
// messages and source spans.
func Decode(data []byte, url string, opts Options) (*Fixture, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	d := &decoder{
		file:   util.NewParseSourceFile(string(data), url),
		parser: ep.NewParser(ep.NewLexer()),
		opts:   opts,
	}
	f := &Fixture{
		Directives: view.NewSelectorDirectiveMatcher(),
		Pipes:      map[string]output.OutputExpression{},
	}
	if len(doc.Content) == 0 {
		return f, nil
	}
	if err := d.decodeFixture(doc.Content[0], f); err != nil {
		return nil, err
	}
	return f, nil
}

// Error is a decoding error located in the fixture source
type Error struct {
	Location *util.ParseLocation
	Msg      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Msg)
}

var (
	fixtureKeys   = []string{"name", "variables", "directives", "pipes", "queries", "view_query_function", "template"}
	nodeKinds     = []string{"element", "template", "text", "bound_text", "content"}
	nodeKeys      = []string{"attrs", "inputs", "outputs", "refs", "let", "children"}
	directiveKeys = []string{"selector", "type"}
	queryKeys     = []string{"property", "predicate", "forward_ref", "first", "descendants", "read"}
)

type decoder struct {
	file   *util.ParseSourceFile
	parser *ep.Parser
	opts   Options
}

func (d *decoder) location(n *yaml.Node) *util.ParseLocation {
	offset := 0
	line := 1
	for line < n.Line {
		nl := strings.IndexByte(d.file.Content[offset:], '\n')
		if nl < 0 {
			break
		}
		offset += nl + 1
		line++
	}
	return util.LocationAt(d.file, offset+n.Column-1)
}

func (d *decoder) span(n *yaml.Node) *util.ParseSourceSpan {
	loc := d.location(n)
	return util.NewParseSourceSpan(loc, loc, "")
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return &Error{Location: d.location(n), Msg: fmt.Sprintf(format, args...)}
}

// unknownKey reports key with the closest of the accepted keys as a hint
func (d *decoder) unknownKey(n *yaml.Node, what string, accepted []string) error {
	msg := fmt.Sprintf("unknown %s %q", what, n.Value)
	if ranks := fuzzy.RankFindFold(n.Value, accepted); len(ranks) > 0 {
		sort.Sort(ranks)
		msg += fmt.Sprintf(", did you mean %q?", ranks[0].Target)
	} else {
		msg += fmt.Sprintf(" (expected one of %s)", strings.Join(accepted, ", "))
	}
	return &Error{Location: d.location(n), Msg: msg}
}

// entries returns the key/value pairs of a mapping in document order
func (d *decoder) entries(n *yaml.Node) ([][2]*yaml.Node, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping")
	}
	pairs := make([][2]*yaml.Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		pairs = append(pairs, [2]*yaml.Node{n.Content[i], n.Content[i+1]})
	}
	return pairs, nil
}

func (d *decoder) sequence(n *yaml.Node) ([]*yaml.Node, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a sequence")
	}
	return n.Content, nil
}

func (d *decoder) scalar(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", d.errorf(n, "expected a scalar")
	}
	if n.Tag == "!!null" {
		return "", nil
	}
	return n.Value, nil
}

func (d *decoder) boolean(n *yaml.Node) (bool, error) {
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, d.errorf(n, "expected a boolean")
	}
	return b, nil
}

func (d *decoder) decodeFixture(n *yaml.Node, f *Fixture) error {
	pairs, err := d.entries(n)
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		key, value := kv[0], kv[1]
		switch key.Value {
		case "name":
			f.Name, err = d.scalar(value)
		case "variables":
			f.Variables, err = d.variables(value)
		case "directives":
			err = d.directives(value, f.Directives)
		case "pipes":
			err = d.pipes(value, f.Pipes)
		case "queries":
			f.Queries, err = d.queries(value)
		case "view_query_function":
			var standalone bool
			standalone, err = d.boolean(value)
			f.ViewQueryFunction = &standalone
		case "template":
			f.Nodes, err = d.nodes(value)
		default:
			err = d.unknownKey(key, "fixture key", fixtureKeys)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) variables(n *yaml.Node) ([]*render3.Variable, error) {
	pairs, err := d.entries(n)
	if err != nil {
		return nil, err
	}
	variables := make([]*render3.Variable, 0, len(pairs))
	for _, kv := range pairs {
		value, err := d.scalar(kv[1])
		if err != nil {
			return nil, err
		}
		variables = append(variables, render3.NewVariable(kv[0].Value, value, d.span(kv[0])))
	}
	return variables, nil
}

func (d *decoder) directives(n *yaml.Node, matcher *view.SelectorDirectiveMatcher) error {
	items, err := d.sequence(n)
	if err != nil {
		return err
	}
	for _, item := range items {
		pairs, err := d.entries(item)
		if err != nil {
			return err
		}
		var selector, typeName string
		for _, kv := range pairs {
			switch kv[0].Value {
			case "selector":
				selector, err = d.scalar(kv[1])
			case "type":
				typeName, err = d.scalar(kv[1])
			default:
				err = d.unknownKey(kv[0], "directive key", directiveKeys)
			}
			if err != nil {
				return err
			}
		}
		if selector == "" || typeName == "" {
			return d.errorf(item, "a directive needs a selector and a type")
		}
		if err := matcher.Add(selector, output.Variable(typeName)); err != nil {
			return d.errorf(item, "invalid selector %q: %v", selector, err)
		}
	}
	return nil
}

func (d *decoder) pipes(n *yaml.Node, pipes map[string]output.OutputExpression) error {
	pairs, err := d.entries(n)
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		typeName, err := d.scalar(kv[1])
		if err != nil {
			return err
		}
		pipes[kv[0].Value] = output.Variable(typeName)
	}
	return nil
}

func (d *decoder) queries(n *yaml.Node) ([]view.R3QueryMetadata, error) {
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	queries := make([]view.R3QueryMetadata, 0, len(items))
	for _, item := range items {
		pairs, err := d.entries(item)
		if err != nil {
			return nil, err
		}
		query := view.R3QueryMetadata{}
		forwardRef := false
		for _, kv := range pairs {
			key, value := kv[0], kv[1]
			switch key.Value {
			case "property":
				query.PropertyName, err = d.scalar(value)
			case "predicate":
				query.Predicate, err = d.predicate(value)
			case "forward_ref":
				forwardRef, err = d.boolean(value)
			case "first":
				query.First, err = d.boolean(value)
			case "descendants":
				query.Descendants, err = d.boolean(value)
			case "read":
				var read string
				read, err = d.scalar(value)
				query.Read = output.Variable(read)
			default:
				err = d.unknownKey(key, "query key", queryKeys)
			}
			if err != nil {
				return nil, err
			}
		}
		if query.PropertyName == "" || query.Predicate == nil {
			return nil, d.errorf(item, "a query needs a property and a predicate")
		}
		if forwardRef {
			typeExpr, ok := query.Predicate.(output.OutputExpression)
			if !ok {
				return nil, d.errorf(item, "forward_ref needs a type predicate")
			}
			query.Predicate = render3.CreateMaybeForwardRefExpression(typeExpr, render3.ForwardRefHandlingWrapped)
		}
		queries = append(queries, query)
	}
	return queries, nil
}

// predicate decodes a list of reference names or a type name
func (d *decoder) predicate(n *yaml.Node) (interface{}, error) {
	if n.Kind == yaml.SequenceNode {
		names := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			name, err := d.scalar(item)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		return names, nil
	}
	typeName, err := d.scalar(n)
	if err != nil {
		return nil, err
	}
	return output.Variable(typeName), nil
}
