package expression_parser

import (
	"strconv"

	"ngc-lower/packages/compiler/core"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeCharacter TokenType = iota
	TokenTypeIdentifier
	TokenTypeKeyword
	TokenTypeString
	TokenTypeOperator
	TokenTypeNumber
	TokenTypeError
)

var keywords = map[string]bool{
	"var":       true,
	"let":       true,
	"as":        true,
	"null":      true,
	"undefined": true,
	"true":      true,
	"false":     true,
	"if":        true,
	"else":      true,
	"this":      true,
}

// Token represents a token in the expression
type Token struct {
	Index    int
	End      int
	Type     TokenType
	NumValue float64
	StrValue string
}

// NewToken creates a new Token
func NewToken(index, end int, typ TokenType, numValue float64, strValue string) *Token {
	return &Token{
		Index:    index,
		End:      end,
		Type:     typ,
		NumValue: numValue,
		StrValue: strValue,
	}
}

// IsCharacter checks if the token is a character with the given code
func (t *Token) IsCharacter(code int) bool {
	return t.Type == TokenTypeCharacter && int(t.NumValue) == code
}

// IsNumber checks if the token is a number
func (t *Token) IsNumber() bool {
	return t.Type == TokenTypeNumber
}

// IsString checks if the token is a string
func (t *Token) IsString() bool {
	return t.Type == TokenTypeString
}

// IsOperator checks if the token is an operator with the given value
func (t *Token) IsOperator(operator string) bool {
	return t.Type == TokenTypeOperator && t.StrValue == operator
}

// IsIdentifier checks if the token is an identifier
func (t *Token) IsIdentifier() bool {
	return t.Type == TokenTypeIdentifier
}

// IsKeyword checks if the token is a keyword
func (t *Token) IsKeyword() bool {
	return t.Type == TokenTypeKeyword
}

func (t *Token) isKeyword(word string) bool {
	return t.Type == TokenTypeKeyword && t.StrValue == word
}

// IsKeywordNull checks if the token is the 'null' keyword
func (t *Token) IsKeywordNull() bool {
	return t.isKeyword("null")
}

// IsKeywordUndefined checks if the token is the 'undefined' keyword
func (t *Token) IsKeywordUndefined() bool {
	return t.isKeyword("undefined")
}

// IsKeywordTrue checks if the token is the 'true' keyword
func (t *Token) IsKeywordTrue() bool {
	return t.isKeyword("true")
}

// IsKeywordFalse checks if the token is the 'false' keyword
func (t *Token) IsKeywordFalse() bool {
	return t.isKeyword("false")
}

// IsKeywordThis checks if the token is the 'this' keyword
func (t *Token) IsKeywordThis() bool {
	return t.isKeyword("this")
}

// IsError checks if the token is an error
func (t *Token) IsError() bool {
	return t.Type == TokenTypeError
}

// String returns the string representation of the token
func (t *Token) String() string {
	if t.Type == TokenTypeNumber {
		return strconv.FormatFloat(t.NumValue, 'f', -1, 64)
	}
	return t.StrValue
}

// EOF represents the end of input
var EOF = NewToken(-1, -1, TokenTypeCharacter, 0, "")

// Lexer tokenizes expressions
type Lexer struct{}

// NewLexer creates a new Lexer
func NewLexer() *Lexer {
	return &Lexer{}
}

// Tokenize tokenizes the given text. Scanning stops after the first error token.
func (l *Lexer) Tokenize(text string) []*Token {
	s := &scanner{input: text, length: len(text), index: -1}
	s.advance()
	var tokens []*Token
	for tok := s.scanToken(); tok != nil; tok = s.scanToken() {
		tokens = append(tokens, tok)
		if tok.IsError() {
			break
		}
	}
	return tokens
}

type scanner struct {
	input  string
	length int
	peek   int
	index  int
}

func (s *scanner) advance() {
	s.index++
	if s.index >= s.length {
		s.peek = core.CharEOF
	} else {
		s.peek = int(s.input[s.index])
	}
}

func (s *scanner) scanToken() *Token {
	for s.index < s.length && s.peek <= core.CharSPACE {
		s.advance()
	}
	if s.index >= s.length {
		return nil
	}

	peek := s.peek
	start := s.index
	if isIdentifierStart(peek) {
		return s.scanIdentifier()
	}
	if core.IsDigit(peek) {
		return s.scanNumber(start)
	}

	switch peek {
	case core.CharPERIOD:
		s.advance()
		if core.IsDigit(s.peek) {
			return s.scanNumber(start)
		}
		return newCharacterToken(start, s.index, core.CharPERIOD)
	case core.CharLPAREN, core.CharRPAREN, core.CharLBRACE, core.CharRBRACE, core.CharLBRACKET,
		core.CharRBRACKET, core.CharCOMMA, core.CharCOLON, core.CharSEMICOLON:
		s.advance()
		return newCharacterToken(start, s.index, peek)
	case core.CharSQ, core.CharDQ:
		return s.scanString()
	case core.CharPLUS, core.CharMINUS, core.CharSTAR, core.CharSLASH, core.CharPERCENT:
		s.advance()
		return newOperatorToken(start, s.index, string(rune(peek)))
	case core.CharQUESTION:
		s.advance()
		if s.peek == core.CharPERIOD {
			s.advance()
			return newOperatorToken(start, s.index, "?.")
		}
		return newOperatorToken(start, s.index, "?")
	case core.CharLT, core.CharGT:
		return s.scanComplexOperator(start, string(rune(peek)), core.CharEQ, "=")
	case core.CharBANG, core.CharEQ:
		return s.scanComplexOperator(start, string(rune(peek)), core.CharEQ, "=", core.CharEQ)
	case core.CharAMPERSAND:
		return s.scanComplexOperator(start, "&", core.CharAMPERSAND, "&")
	case core.CharBAR:
		return s.scanComplexOperator(start, "|", core.CharBAR, "|")
	case core.CharNBSP:
		for core.IsWhitespace(s.peek) {
			s.advance()
		}
		return s.scanToken()
	}

	s.advance()
	return s.error("Unexpected character ["+string(rune(peek))+"]", 0)
}

func (s *scanner) scanComplexOperator(start int, one string, twoCode int, two string, threeCode ...int) *Token {
	s.advance()
	str := one
	if s.peek == twoCode {
		s.advance()
		str += two
		if len(threeCode) > 0 && s.peek == threeCode[0] {
			s.advance()
			str += string(rune(threeCode[0]))
		}
	}
	return newOperatorToken(start, s.index, str)
}

func (s *scanner) scanIdentifier() *Token {
	start := s.index
	s.advance()
	for isIdentifierPart(s.peek) {
		s.advance()
	}
	str := s.input[start:s.index]
	if keywords[str] {
		return NewToken(start, s.index, TokenTypeKeyword, 0, str)
	}
	return NewToken(start, s.index, TokenTypeIdentifier, 0, str)
}

func (s *scanner) scanNumber(start int) *Token {
	simple := s.index == start
	s.advance()
	for {
		if core.IsDigit(s.peek) {
			// keep going
		} else if s.peek == core.CharPERIOD {
			simple = false
		} else if s.peek == core.CharE || s.peek == core.CharLowerE {
			s.advance()
			if s.peek == core.CharMINUS || s.peek == core.CharPLUS {
				s.advance()
			}
			if !core.IsDigit(s.peek) {
				return s.error("Invalid exponent", -1)
			}
			simple = false
		} else {
			break
		}
		s.advance()
	}

	str := s.input[start:s.index]
	var value float64
	if simple {
		n, _ := strconv.ParseInt(str, 10, 64)
		value = float64(n)
	} else {
		value, _ = strconv.ParseFloat(str, 64)
	}
	return NewToken(start, s.index, TokenTypeNumber, value, "")
}

func (s *scanner) scanString() *Token {
	start := s.index
	quote := s.peek
	s.advance()

	buffer := ""
	marker := s.index
	for s.peek != quote {
		if s.peek == core.CharBACKSLASH {
			buffer += s.input[marker:s.index]
			s.advance()
			var unescaped rune
			if s.peek == core.CharLowerU {
				if s.index+5 > s.length {
					return s.error("Invalid unicode escape", 0)
				}
				hex := s.input[s.index+1 : s.index+5]
				code, err := strconv.ParseInt(hex, 16, 32)
				if err != nil {
					return s.error("Invalid unicode escape [\\u"+hex+"]", 0)
				}
				unescaped = rune(code)
				for i := 0; i < 5; i++ {
					s.advance()
				}
			} else {
				unescaped = unescape(s.peek)
				s.advance()
			}
			buffer += string(unescaped)
			marker = s.index
		} else if s.peek == core.CharEOF {
			return s.error("Unterminated quote", 0)
		} else {
			s.advance()
		}
	}

	last := s.input[marker:s.index]
	s.advance()
	return NewToken(start, s.index, TokenTypeString, 0, buffer+last)
}

func (s *scanner) error(message string, offset int) *Token {
	position := s.index + offset
	return NewToken(position, s.index, TokenTypeError, 0,
		"Lexer Error: "+message+" at column "+strconv.Itoa(position)+" in expression ["+s.input+"]")
}

func isIdentifierStart(code int) bool {
	return core.IsAsciiLetter(code) || code == core.CharUnderscore || code == core.CharDollar
}

func isIdentifierPart(code int) bool {
	return core.IsAsciiLetter(code) || core.IsDigit(code) || code == core.CharUnderscore || code == core.CharDollar
}

func unescape(code int) rune {
	switch code {
	case core.CharLowerN:
		return core.CharLF
	case core.CharLowerF:
		return core.CharFF
	case core.CharLowerR:
		return core.CharCR
	case core.CharLowerT:
		return core.CharTAB
	case core.CharLowerV:
		return core.CharVTAB
	default:
		return rune(code)
	}
}

func newCharacterToken(index, end int, code int) *Token {
	return NewToken(index, end, TokenTypeCharacter, float64(code), string(rune(code)))
}

func newOperatorToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeOperator, 0, text)
}
