package expression_parser

import (
	"strings"
	"testing"
)

func lex(text string) []*Token {
	return NewLexer().Tokenize(text)
}

func expectToken(t *testing.T, tok *Token, index, end int) {
	t.Helper()
	if tok.Index != index || tok.End != end {
		t.Errorf("token %q at [%d,%d), want [%d,%d)", tok, tok.Index, tok.End, index, end)
	}
}

func TestLexer(t *testing.T) {
	t.Run("identifiers", func(t *testing.T) {
		tokens := lex("j $event _x")
		if len(tokens) != 3 {
			t.Fatalf("got %d tokens", len(tokens))
		}
		for _, tok := range tokens {
			if !tok.IsIdentifier() {
				t.Errorf("%q is not an identifier", tok)
			}
		}
		expectToken(t, tokens[1], 2, 8)
	})

	t.Run("keywords", func(t *testing.T) {
		tokens := lex("null true this")
		if !tokens[0].IsKeywordNull() || !tokens[1].IsKeywordTrue() || !tokens[2].IsKeywordThis() {
			t.Errorf("unexpected keyword tokens %v", tokens)
		}
	})

	t.Run("dotted access", func(t *testing.T) {
		tokens := lex("a.b")
		if len(tokens) != 3 || !tokens[1].IsCharacter('.') {
			t.Fatalf("unexpected tokens %v", tokens)
		}
	})

	t.Run("safe navigation", func(t *testing.T) {
		tokens := lex("a?.b")
		if !tokens[1].IsOperator("?.") {
			t.Errorf("expected ?. operator, got %q", tokens[1])
		}
		expectToken(t, tokens[1], 1, 3)
	})

	t.Run("operators", func(t *testing.T) {
		for _, op := range []string{"===", "!==", "==", "!=", "<=", ">=", "&&", "||", "!", "=", "|"} {
			tokens := lex(op)
			if len(tokens) != 1 || !tokens[0].IsOperator(op) {
				t.Errorf("lex(%q) = %v", op, tokens)
			}
		}
	})

	t.Run("numbers", func(t *testing.T) {
		cases := map[string]float64{"88": 88, "0.5": 0.5, ".5": 0.5, "1e2": 100, "2E-1": 0.2}
		for text, want := range cases {
			tokens := lex(text)
			if len(tokens) != 1 || !tokens[0].IsNumber() || tokens[0].NumValue != want {
				t.Errorf("lex(%q) = %v, want %v", text, tokens, want)
			}
		}
	})

	t.Run("strings", func(t *testing.T) {
		tokens := lex(`"a\tb" 'A'`)
		if tokens[0].StrValue != "a\tb" {
			t.Errorf("got %q", tokens[0].StrValue)
		}
		if tokens[1].StrValue != "A" {
			t.Errorf("got %q", tokens[1].StrValue)
		}
	})

	t.Run("errors stop scanning", func(t *testing.T) {
		tokens := lex("a # b")
		last := tokens[len(tokens)-1]
		if !last.IsError() || len(tokens) != 2 {
			t.Fatalf("unexpected tokens %v", tokens)
		}
		if !strings.Contains(last.StrValue, "Unexpected character [#]") {
			t.Errorf("got %q", last.StrValue)
		}
	})

	t.Run("invalid exponent", func(t *testing.T) {
		tokens := lex("1e")
		if !tokens[0].IsError() || !strings.Contains(tokens[0].StrValue, "Invalid exponent") {
			t.Errorf("unexpected tokens %v", tokens)
		}
	})
}
