package expression_parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseAction(text string) *ASTWithSource {
	return NewParser(NewLexer()).ParseAction(text, "location", 0)
}

func parseBinding(text string) *ASTWithSource {
	return NewParser(NewLexer()).ParseBinding(text, "location", 0)
}

func checkAction(exp string, expected ...string) func(*testing.T) {
	return func(t *testing.T) {
		ast := parseAction(exp)
		if len(ast.Errors) > 0 {
			t.Fatalf("unexpected errors: %v", ast.Err())
		}
		want := exp
		if len(expected) > 0 {
			want = expected[0]
		}
		if got := Serialize(ast.AST); got != want {
			t.Errorf("Serialize(%q) = %q, want %q", exp, got, want)
		}
	}
}

func checkBinding(exp string, expected ...string) func(*testing.T) {
	return func(t *testing.T) {
		ast := parseBinding(exp)
		if len(ast.Errors) > 0 {
			t.Fatalf("unexpected errors: %v", ast.Err())
		}
		want := exp
		if len(expected) > 0 {
			want = expected[0]
		}
		if got := Serialize(ast.AST); got != want {
			t.Errorf("Serialize(%q) = %q, want %q", exp, got, want)
		}
	}
}

func expectError(ast *ASTWithSource, message string) func(*testing.T) {
	return func(t *testing.T) {
		if len(ast.Errors) == 0 {
			t.Fatalf("expected an error containing %q, got none", message)
		}
		for _, err := range ast.Errors {
			if strings.Contains(err.Error(), message) {
				return
			}
		}
		t.Errorf("expected an error containing %q, got %v", message, ast.Err())
	}
}

func TestParseAction(t *testing.T) {
	t.Run("literals", checkAction("1"))
	t.Run("strings", checkAction("'a'"))
	t.Run("null", checkAction("null"))
	t.Run("undefined", checkAction("undefined", "null"))
	t.Run("booleans", checkAction("true && false"))
	t.Run("arrays", checkAction("[1, 2]"))
	t.Run("maps", checkAction("{a: 1, 'b': 2}"))
	t.Run("empty map", checkAction("{}"))
	t.Run("unary minus", checkAction("-1", "0 - 1"))
	t.Run("unary plus", checkAction("+a", "a - 0"))
	t.Run("not", checkAction("!a"))
	t.Run("non-null", checkAction("a!.b"))
	t.Run("field access", checkAction("a.b.c"))
	t.Run("safe field access", checkAction("a?.b.c"))
	t.Run("method calls", checkAction("fn()"))
	t.Run("method call args", checkAction("a.add(1, 2)"))
	t.Run("safe method calls", checkAction("a?.add(1)"))
	t.Run("function calls", checkAction("fn()(1)"))
	t.Run("keyed access", checkAction("a[b]"))
	t.Run("keyed write", checkAction("a[b] = 1"))
	t.Run("property write", checkAction("a = 1"))
	t.Run("nested write", checkAction("a.b = c"))
	t.Run("chains", checkAction("a(); b()"))
	t.Run("double semicolons", checkAction("a();; b()", "a(); b()"))
	t.Run("conditional", checkAction("a ? 1 : 2"))
	t.Run("grouping", checkAction("(a)", "a"))
	t.Run("this", checkAction("this.a", "a"))
	t.Run("event", checkAction("onClick($event)"))
	t.Run("exponent", checkAction("1e3", "1000"))
	t.Run("escapes", checkAction(`'a\nb'`, "'a\nb'"))
}

func TestParseActionErrors(t *testing.T) {
	t.Run("pipes", expectError(parseAction("a | b"), "Cannot have a pipe in an action expression"))
	t.Run("safe assignment", expectError(parseAction("a?.b = 1"), "The '?.' operator cannot be used in the assignment"))
	t.Run("blank", expectError(parseAction("  "), "Blank expressions are not allowed"))
	t.Run("unterminated", expectError(parseAction("'abc"), "Unterminated quote"))
	t.Run("missing paren", expectError(parseAction("fn(1"), "Missing expected )"))
	t.Run("conditional", expectError(parseAction("a ? 1"), "Conditional expression a ? 1 requires all 3 expressions"))
	t.Run("unexpected token", expectError(parseAction("a b"), "Unexpected token 'b'"))
}

func TestParseBinding(t *testing.T) {
	t.Run("pipes", checkBinding("a | b", "(a | b)"))
	t.Run("pipe args", checkBinding("a | b:c:d", "(a | b:c:d)"))
	t.Run("chained pipes", checkBinding("a | b | c", "((a | b) | c)"))
	t.Run("literal map", checkBinding("{a: x}"))
	t.Run("safe", checkBinding("user?.profile.name"))
	t.Run("quote", func(t *testing.T) {
		ast := parseBinding("js: a.b")
		quote, ok := ast.AST.(*Quote)
		if !ok {
			t.Fatalf("expected Quote, got %T", ast.AST)
		}
		if quote.Prefix != "js" || quote.UninterpretedExpression != " a.b" {
			t.Errorf("unexpected quote %q:%q", quote.Prefix, quote.UninterpretedExpression)
		}
	})
	t.Run("assignment", expectError(parseBinding("a = 1"), "Bindings cannot contain assignments"))
	t.Run("chain", expectError(parseBinding("a; b"), "Binding expression cannot contain chained expression"))
	t.Run("interpolation", expectError(parseBinding("{{a}}"), "Got interpolation ({{}}) where expression was expected"))
}

func TestParseInterpolation(t *testing.T) {
	p := NewParser(NewLexer())

	if ast := p.ParseInterpolation("no markers", "location", 0); ast != nil {
		t.Errorf("expected nil for plain text, got %v", ast)
	}

	ast := p.ParseInterpolation("Hello {{ name }} and {{a.b}}!", "location", 0)
	if err := ast.Err(); err != nil {
		t.Fatal(err)
	}
	interp, ok := ast.AST.(*Interpolation)
	if !ok {
		t.Fatalf("expected Interpolation, got %T", ast.AST)
	}
	if diff := cmp.Diff([]string{"Hello ", " and ", "!"}, interp.Strings); diff != "" {
		t.Errorf("strings mismatch (-want +got):\n%s", diff)
	}
	if got := Serialize(interp); got != "Hello {{ name }} and {{ a.b }}!" {
		t.Errorf("Serialize = %q", got)
	}

	blank := p.ParseInterpolation("{{ }}", "location", 0)
	expectError(blank, "Blank expressions are not allowed in interpolated strings")(t)
}

func TestSplitInterpolationOffsets(t *testing.T) {
	var errs []*ParserError
	split := NewParser(NewLexer()).SplitInterpolation("a{{b}}cc{{d}}", "location", &errs)
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	want := &SplitInterpolation{
		Strings:     []string{"a", "cc", ""},
		Expressions: []string{"b", "d"},
		Offsets:     []int{3, 10},
	}
	if diff := cmp.Diff(want, split); diff != "" {
		t.Errorf("SplitInterpolation mismatch (-want +got):\n%s", diff)
	}
}

func TestSpans(t *testing.T) {
	ast := parseAction("foo.bar")
	read := ast.AST.(*PropertyRead)
	if diff := cmp.Diff(&ParseSpan{Start: 0, End: 7}, read.Span()); diff != "" {
		t.Errorf("span mismatch (-want +got):\n%s", diff)
	}
	inner := read.Receiver.(*PropertyRead)
	if inner.Span().End != 3 {
		t.Errorf("receiver span end = %d, want 3", inner.Span().End)
	}
	if _, ok := inner.Receiver.(*ImplicitReceiver); !ok {
		t.Errorf("expected implicit receiver, got %T", inner.Receiver)
	}
}
