package expression_parser

import (
	"fmt"
	"regexp"
	"strings"

	"ngc-lower/packages/compiler/core"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

const (
	interpolationStart = "{{"
	interpolationEnd   = "}}"
)

// ParserError describes a syntax error in an expression
type ParserError struct {
	Message     string
	Input       string
	ErrLocation string
	CtxLocation string
}

// NewParserError creates a new ParserError
func NewParserError(message, input, errLocation, ctxLocation string) *ParserError {
	return &ParserError{
		Message:     message,
		Input:       input,
		ErrLocation: errLocation,
		CtxLocation: ctxLocation,
	}
}

// Error implements the error interface
func (e *ParserError) Error() string {
	msg := fmt.Sprintf("Parser Error: %s %s [%s]", e.Message, e.ErrLocation, e.Input)
	if e.CtxLocation != "" {
		msg += " in " + e.CtxLocation
	}
	return msg
}

// ParseFlags represents parse flags
type ParseFlags int

const (
	ParseFlagsNone ParseFlags = 0
	// ParseFlagsAction allows assignments and chains, forbids pipes
	ParseFlagsAction ParseFlags = 1 << 0
)

// SplitInterpolation is the result of splitting text on {{ }} markers
type SplitInterpolation struct {
	Strings     []string
	Expressions []string
	Offsets     []int
}

// Parser parses expressions
type Parser struct {
	lexer *Lexer
}

// NewParser creates a new Parser
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// ParseAction parses an event handler expression
func (p *Parser) ParseAction(input, location string, absoluteOffset int) *ASTWithSource {
	var errors []*ParserError
	ast := p.parse(input, location, absoluteOffset, 0, ParseFlagsAction, &errors)
	return NewASTWithSource(ast, input, location, errors)
}

// ParseBinding parses a property binding expression. A leading `prefix:` with
// an identifier prefix yields a Quote.
func (p *Parser) ParseBinding(input, location string, absoluteOffset int) *ASTWithSource {
	var errors []*ParserError
	if quote := p.parseQuote(input, location, absoluteOffset); quote != nil {
		return NewASTWithSource(quote, input, location, errors)
	}
	p.checkNoInterpolation(input, location, &errors)
	if len(errors) > 0 {
		return NewASTWithSource(nil, input, location, errors)
	}
	ast := p.parse(input, location, absoluteOffset, 0, ParseFlagsNone, &errors)
	return NewASTWithSource(ast, input, location, errors)
}

// ParseInterpolation parses text containing {{ }} markers.
// It returns nil when the text has no interpolation.
func (p *Parser) ParseInterpolation(input, location string, absoluteOffset int) *ASTWithSource {
	var errors []*ParserError
	split := p.SplitInterpolation(input, location, &errors)
	if split == nil {
		return nil
	}
	if len(errors) > 0 {
		return NewASTWithSource(nil, input, location, errors)
	}

	expressions := make([]AST, 0, len(split.Expressions))
	for i, expr := range split.Expressions {
		ast := p.parse(expr, location, absoluteOffset, split.Offsets[i], ParseFlagsNone, &errors)
		if ast == nil {
			return NewASTWithSource(nil, input, location, errors)
		}
		expressions = append(expressions, ast)
	}
	span := NewParseSpan(0, len(input))
	interpolation := NewInterpolation(span, span.ToAbsolute(absoluteOffset), split.Strings, expressions)
	return NewASTWithSource(interpolation, input, location, errors)
}

// SplitInterpolation splits input into static strings and expression sources
func (p *Parser) SplitInterpolation(input, location string, errors *[]*ParserError) *SplitInterpolation {
	if !strings.Contains(input, interpolationStart) {
		return nil
	}
	result := &SplitInterpolation{}
	rest := input
	offset := 0
	for {
		start := strings.Index(rest, interpolationStart)
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+len(interpolationStart):], interpolationEnd)
		if end < 0 {
			break
		}
		exprStart := start + len(interpolationStart)
		expr := rest[exprStart : exprStart+end]
		if strings.TrimSpace(expr) == "" {
			*errors = append(*errors, NewParserError(
				"Blank expressions are not allowed in interpolated strings", input,
				fmt.Sprintf("at column %d in", offset+start), location))
		}
		result.Strings = append(result.Strings, rest[:start])
		result.Expressions = append(result.Expressions, expr)
		result.Offsets = append(result.Offsets, offset+exprStart)
		consumed := exprStart + end + len(interpolationEnd)
		rest = rest[consumed:]
		offset += consumed
	}
	if len(result.Expressions) == 0 {
		return nil
	}
	result.Strings = append(result.Strings, rest)
	return result
}

func (p *Parser) checkNoInterpolation(input, location string, errors *[]*ParserError) {
	split := p.SplitInterpolation(input, location, errors)
	if split != nil {
		*errors = append(*errors, NewParserError(
			"Got interpolation ({{}}) where expression was expected", input,
			fmt.Sprintf("at column %d in", len(split.Strings[0])), location))
	}
}

func (p *Parser) parseQuote(input, location string, absoluteOffset int) AST {
	idx := strings.Index(input, ":")
	if idx < 0 {
		return nil
	}
	prefix := strings.TrimSpace(input[:idx])
	if !identifierRe.MatchString(prefix) {
		return nil
	}
	span := NewParseSpan(0, len(input))
	return NewQuote(span, span.ToAbsolute(absoluteOffset), prefix, input[idx+1:], location)
}

func (p *Parser) parse(input, location string, absoluteOffset, offset int, flags ParseFlags, errors *[]*ParserError) (ast AST) {
	tokens := p.lexer.Tokenize(input)
	for _, tok := range tokens {
		if tok.IsError() {
			*errors = append(*errors, NewParserError(tok.StrValue, input, "", location))
			return nil
		}
	}
	if strings.TrimSpace(input) == "" {
		*errors = append(*errors, NewParserError("Blank expressions are not allowed", input, "", location))
		return nil
	}
	pa := &parseAST{
		input:          input,
		location:       location,
		absoluteOffset: absoluteOffset,
		tokens:         tokens,
		parseFlags:     flags,
		errors:         errors,
		offset:         offset,
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); !ok {
				panic(r)
			}
			ast = nil
		}
	}()
	return pa.parseChain()
}

// parseAbort unwinds the recursive descent after an error was recorded
type parseAbort struct{}

type parseAST struct {
	input          string
	location       string
	absoluteOffset int
	tokens         []*Token
	parseFlags     ParseFlags
	errors         *[]*ParserError
	offset         int
	index          int
}

func (p *parseAST) peek(offset int) *Token {
	i := p.index + offset
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return EOF
}

func (p *parseAST) next() *Token {
	return p.peek(0)
}

func (p *parseAST) atEOF() bool {
	return p.index >= len(p.tokens)
}

func (p *parseAST) inputIndex() int {
	if p.atEOF() {
		return p.currentEndIndex()
	}
	return p.next().Index + p.offset
}

func (p *parseAST) currentEndIndex() int {
	if p.index > 0 {
		return p.peek(-1).End + p.offset
	}
	return p.offset
}

func (p *parseAST) span(start int) *ParseSpan {
	return NewParseSpan(start, p.currentEndIndex())
}

func (p *parseAST) sourceSpan(start int) *AbsoluteSourceSpan {
	return p.span(start).ToAbsolute(p.absoluteOffset)
}

func (p *parseAST) advance() {
	p.index++
}

func (p *parseAST) error(message string) {
	var errLocation string
	if p.atEOF() {
		errLocation = "at the end of the expression"
	} else {
		errLocation = fmt.Sprintf("at column %d in", p.next().Index+1)
	}
	*p.errors = append(*p.errors, NewParserError(message, p.input, errLocation, p.location))
	panic(parseAbort{})
}

func (p *parseAST) consumeOptionalCharacter(code int) bool {
	if p.next().IsCharacter(code) {
		p.advance()
		return true
	}
	return false
}

func (p *parseAST) expectCharacter(code int) {
	if !p.consumeOptionalCharacter(code) {
		p.error(fmt.Sprintf("Missing expected %c", rune(code)))
	}
}

func (p *parseAST) consumeOptionalOperator(op string) bool {
	if p.next().IsOperator(op) {
		p.advance()
		return true
	}
	return false
}

func (p *parseAST) expectIdentifierOrKeyword() string {
	n := p.next()
	if !n.IsIdentifier() && !n.IsKeyword() {
		p.error(fmt.Sprintf("Unexpected token %s, expected identifier or keyword", n))
	}
	p.advance()
	return n.String()
}

func (p *parseAST) expectIdentifierOrKeywordOrString() string {
	n := p.next()
	if !n.IsIdentifier() && !n.IsKeyword() && !n.IsString() {
		p.error(fmt.Sprintf("Unexpected token %s, expected identifier, keyword, or string", n))
	}
	p.advance()
	return n.String()
}

func (p *parseAST) parseChain() AST {
	var exprs []AST
	start := p.inputIndex()
	for !p.atEOF() {
		exprs = append(exprs, p.parsePipe())
		if p.consumeOptionalCharacter(core.CharSEMICOLON) {
			if p.parseFlags&ParseFlagsAction == 0 {
				p.error("Binding expression cannot contain chained expression")
			}
			for p.consumeOptionalCharacter(core.CharSEMICOLON) {
			}
		} else if !p.atEOF() {
			p.error(fmt.Sprintf("Unexpected token '%s'", p.next()))
		}
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return NewChain(p.span(start), p.sourceSpan(start), exprs)
}

func (p *parseAST) parsePipe() AST {
	start := p.inputIndex()
	result := p.parseExpression()
	if p.consumeOptionalOperator("|") {
		if p.parseFlags&ParseFlagsAction != 0 {
			p.error("Cannot have a pipe in an action expression")
		}
		for {
			name := p.expectIdentifierOrKeyword()
			var args []AST
			for p.consumeOptionalCharacter(core.CharCOLON) {
				args = append(args, p.parseExpression())
			}
			result = NewBindingPipe(p.span(start), p.sourceSpan(start), result, name, args)
			if !p.consumeOptionalOperator("|") {
				break
			}
		}
	}
	return result
}

func (p *parseAST) parseExpression() AST {
	return p.parseConditional()
}

func (p *parseAST) parseConditional() AST {
	start := p.inputIndex()
	result := p.parseLogicalOr()
	if p.consumeOptionalOperator("?") {
		yes := p.parsePipe()
		if !p.consumeOptionalCharacter(core.CharCOLON) {
			end := p.inputIndex()
			p.error(fmt.Sprintf("Conditional expression %s requires all 3 expressions", p.input[start-p.offset:end-p.offset]))
		}
		no := p.parsePipe()
		return NewConditional(p.span(start), p.sourceSpan(start), result, yes, no)
	}
	return result
}

func (p *parseAST) parseBinaryLevel(operators []string, operand func() AST) AST {
	start := p.inputIndex()
	result := operand()
	for p.next().Type == TokenTypeOperator {
		operator := p.next().StrValue
		matched := false
		for _, op := range operators {
			if op == operator {
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		p.advance()
		right := operand()
		result = NewBinary(p.span(start), p.sourceSpan(start), operator, result, right)
	}
	return result
}

func (p *parseAST) parseLogicalOr() AST {
	return p.parseBinaryLevel([]string{"||"}, p.parseLogicalAnd)
}

func (p *parseAST) parseLogicalAnd() AST {
	return p.parseBinaryLevel([]string{"&&"}, p.parseEquality)
}

func (p *parseAST) parseEquality() AST {
	return p.parseBinaryLevel([]string{"==", "===", "!=", "!=="}, p.parseRelational)
}

func (p *parseAST) parseRelational() AST {
	return p.parseBinaryLevel([]string{"<", ">", "<=", ">="}, p.parseAdditive)
}

func (p *parseAST) parseAdditive() AST {
	return p.parseBinaryLevel([]string{"+", "-"}, p.parseMultiplicative)
}

func (p *parseAST) parseMultiplicative() AST {
	return p.parseBinaryLevel([]string{"*", "%", "/"}, p.parsePrefix)
}

// parsePrefix rewrites unary minus as 0 - x and unary plus as x - 0.
func (p *parseAST) parsePrefix() AST {
	if p.next().Type == TokenTypeOperator {
		start := p.inputIndex()
		switch p.next().StrValue {
		case "+":
			p.advance()
			result := p.parsePrefix()
			zero := NewLiteralPrimitive(NewParseSpan(start, start), nil, 0.0)
			return NewBinary(p.span(start), p.sourceSpan(start), "-", result, zero)
		case "-":
			p.advance()
			result := p.parsePrefix()
			zero := NewLiteralPrimitive(NewParseSpan(start, start), nil, 0.0)
			return NewBinary(p.span(start), p.sourceSpan(start), "-", zero, result)
		case "!":
			p.advance()
			result := p.parsePrefix()
			return NewPrefixNot(p.span(start), p.sourceSpan(start), result)
		}
	}
	return p.parseCallChain()
}

func (p *parseAST) parseCallChain() AST {
	start := p.inputIndex()
	result := p.parsePrimary()
	for {
		if p.consumeOptionalCharacter(core.CharPERIOD) {
			result = p.parseAccessMemberOrMethodCall(result, start, false)
		} else if p.consumeOptionalOperator("?.") {
			result = p.parseAccessMemberOrMethodCall(result, start, true)
		} else if p.consumeOptionalCharacter(core.CharLBRACKET) {
			key := p.parsePipe()
			p.expectCharacter(core.CharRBRACKET)
			if p.consumeOptionalOperator("=") {
				p.checkAssignmentAllowed()
				value := p.parseConditional()
				result = NewKeyedWrite(p.span(start), p.sourceSpan(start), result, key, value)
			} else {
				result = NewKeyedRead(p.span(start), p.sourceSpan(start), result, key)
			}
		} else if p.consumeOptionalCharacter(core.CharLPAREN) {
			args := p.parseCallArguments()
			p.expectCharacter(core.CharRPAREN)
			result = NewFunctionCall(p.span(start), p.sourceSpan(start), result, args)
		} else if p.consumeOptionalOperator("!") {
			result = NewNonNullAssert(p.span(start), p.sourceSpan(start), result)
		} else {
			return result
		}
	}
}

func (p *parseAST) parsePrimary() AST {
	start := p.inputIndex()
	next := p.next()
	switch {
	case p.consumeOptionalCharacter(core.CharLPAREN):
		result := p.parsePipe()
		p.expectCharacter(core.CharRPAREN)
		return result
	case next.IsKeywordNull(), next.IsKeywordUndefined():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), nil)
	case next.IsKeywordTrue():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), true)
	case next.IsKeywordFalse():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), false)
	case next.IsKeywordThis():
		p.advance()
		return NewImplicitReceiver(p.span(start), p.sourceSpan(start))
	case p.consumeOptionalCharacter(core.CharLBRACKET):
		elements := p.parseExpressionList(core.CharRBRACKET)
		p.expectCharacter(core.CharRBRACKET)
		return NewLiteralArray(p.span(start), p.sourceSpan(start), elements)
	case next.IsCharacter(core.CharLBRACE):
		return p.parseLiteralMap()
	case next.IsIdentifier():
		receiver := NewImplicitReceiver(NewParseSpan(start, start), nil)
		receiver.sourceSpan = receiver.span.ToAbsolute(p.absoluteOffset)
		return p.parseAccessMemberOrMethodCall(receiver, start, false)
	case next.IsNumber():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), next.NumValue)
	case next.IsString():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), next.StrValue)
	case p.atEOF():
		p.error(fmt.Sprintf("Unexpected end of expression: %s", p.input))
	default:
		p.error(fmt.Sprintf("Unexpected token %s", next))
	}
	return nil
}

func (p *parseAST) parseExpressionList(terminator int) []AST {
	var result []AST
	if !p.next().IsCharacter(terminator) {
		for {
			result = append(result, p.parsePipe())
			if !p.consumeOptionalCharacter(core.CharCOMMA) {
				break
			}
		}
	}
	return result
}

func (p *parseAST) parseLiteralMap() *LiteralMap {
	var keys []LiteralMapKey
	var values []AST
	start := p.inputIndex()
	p.expectCharacter(core.CharLBRACE)
	if !p.consumeOptionalCharacter(core.CharRBRACE) {
		for {
			quoted := p.next().IsString()
			key := p.expectIdentifierOrKeywordOrString()
			keys = append(keys, LiteralMapKey{Key: key, Quoted: quoted})
			p.expectCharacter(core.CharCOLON)
			values = append(values, p.parsePipe())
			if !p.consumeOptionalCharacter(core.CharCOMMA) {
				break
			}
		}
		p.expectCharacter(core.CharRBRACE)
	}
	return NewLiteralMap(p.span(start), p.sourceSpan(start), keys, values)
}

func (p *parseAST) parseAccessMemberOrMethodCall(receiver AST, start int, isSafe bool) AST {
	id := p.expectIdentifierOrKeyword()

	if p.consumeOptionalCharacter(core.CharLPAREN) {
		args := p.parseCallArguments()
		p.expectCharacter(core.CharRPAREN)
		if isSafe {
			return NewSafeMethodCall(p.span(start), p.sourceSpan(start), receiver, id, args)
		}
		return NewMethodCall(p.span(start), p.sourceSpan(start), receiver, id, args)
	}

	if isSafe {
		if p.next().IsOperator("=") {
			p.error("The '?.' operator cannot be used in the assignment")
		}
		return NewSafePropertyRead(p.span(start), p.sourceSpan(start), receiver, id)
	}
	if p.consumeOptionalOperator("=") {
		p.checkAssignmentAllowed()
		value := p.parseConditional()
		return NewPropertyWrite(p.span(start), p.sourceSpan(start), receiver, id, value)
	}
	return NewPropertyRead(p.span(start), p.sourceSpan(start), receiver, id)
}

func (p *parseAST) checkAssignmentAllowed() {
	if p.parseFlags&ParseFlagsAction == 0 {
		p.error("Bindings cannot contain assignments")
	}
}

func (p *parseAST) parseCallArguments() []AST {
	if p.next().IsCharacter(core.CharRPAREN) {
		return nil
	}
	var positionals []AST
	for {
		positionals = append(positionals, p.parsePipe())
		if !p.consumeOptionalCharacter(core.CharCOMMA) {
			break
		}
	}
	return positionals
}
