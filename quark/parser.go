package quark

import (
	"errors"
	"log/slog"
)

// ParserState is the coarse position of the parser in its statement loop.
type ParserState int

const (
	StateReadyForStatement ParserState = iota
	StateInExpression
	StateAtEndOfInput
	StateErrored
)

func (s ParserState) String() string {
	switch s {
	case StateReadyForStatement:
		return "ready"
	case StateInExpression:
		return "expression"
	case StateAtEndOfInput:
		return "eof"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Parser turns a token sequence into a Program, checking types as it goes.
type Parser struct {
	tokens  []Token
	pos     int
	symbols *SymbolTable
	logger  *slog.Logger
	source  string

	state      ParserState
	recovering bool
	// depth counts the blocks currently open; skipDepth counts the blocks
	// entered by a failed statement that recovery has not yet closed.
	depth     int
	skipDepth int
	errors    []error
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithSymbols makes the parser declare into table instead of a fresh one.
func WithSymbols(table *SymbolTable) ParserOption {
	return func(p *Parser) {
		if table != nil {
			p.symbols = table
		}
	}
}

func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSource attaches the original text so errors can render a code frame.
func WithSource(source string) ParserOption {
	return func(p *Parser) {
		p.source = source
	}
}

func NewParser(tokens []Token, opts ...ParserOption) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Kind != TokenEOF {
		var pos Position
		if n > 0 {
			pos = tokens[n-1].Pos
		}
		tokens = append(tokens[:n:n], NewEOF(pos))
	}
	p := &Parser{
		tokens:  tokens,
		symbols: NewSymbolTable(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is shorthand for NewParser(tokens).ParseProgram().
func Parse(tokens []Token, opts ...ParserOption) (*Program, []error) {
	return NewParser(tokens, opts...).ParseProgram()
}

// ParseSource tokenizes and parses source with a fresh symbol table.
func ParseSource(source string) (*Program, *SymbolTable, []error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, nil, []error{err}
	}
	p := NewParser(tokens, WithSource(source))
	program, errs := p.ParseProgram()
	return program, p.symbols, errs
}

func (p *Parser) Symbols() *SymbolTable { return p.symbols }

func (p *Parser) State() ParserState { return p.state }

// ParseProgram parses statements until eof. A failed statement is reported
// and one token is discarded before trying the next statement, so the
// returned program may be missing statements when errors are returned.
// Tokens left inside a block the failed statement opened are discarded up to
// the block's closing '}'. Declarations made by a failed statement, including
// those nested in its blocks, are rolled back.
func (p *Parser) ParseProgram() (*Program, []error) {
	program := &Program{base: newBase(p.peek().Pos)}

	for {
		tok := p.peek()
		if tok.Kind == TokenEOF {
			p.state = StateAtEndOfInput
			program.Body = append(program.Body, &EndOfInput{base: newBase(tok.Pos)})
			break
		}
		if p.skipDepth > 0 {
			p.resync()
			continue
		}

		p.state = StateReadyForStatement
		snapshot := p.symbols.Clone()
		stmt, err := p.parseStatement()
		if err != nil {
			p.state = StateErrored
			p.symbols.restore(snapshot)
			p.report(err)
			p.skipDepth += p.depth
			p.depth = 0
			p.resync()
			continue
		}
		p.recovering = false
		program.Body = append(program.Body, stmt)
	}

	p.logger.Debug("parsed program",
		"statements", len(program.Body)-1,
		"symbols", p.symbols.Len(),
		"errors", len(p.errors),
	)
	return program, p.errors
}

// report records err unless it is the tail of an error already reported for
// the same run of discarded tokens. A run ends at a ';' or '}' that closes
// every block the failed statement had opened.
func (p *Parser) report(err error) {
	var qe *Error
	if errors.As(err, &qe) && p.source != "" {
		err = qe.WithSource(p.source)
	}
	if p.recovering {
		p.logger.Debug("suppressed cascading error", "error", err)
		return
	}
	p.errors = append(p.errors, err)
	p.recovering = true
}

func (p *Parser) resync() {
	skipped := p.advance()
	p.logger.Debug("resynchronizing", "skipped", skipped.String(), "line", skipped.Pos.Line, "column", skipped.Pos.Column)
	switch {
	case skipped.Is(TokenPunctuation, "{"):
		p.skipDepth++
	case skipped.Is(TokenPunctuation, "}"):
		if p.skipDepth > 0 {
			p.skipDepth--
		}
		if p.skipDepth == 0 {
			p.recovering = false
		}
	case skipped.Is(TokenPunctuation, ";"):
		if p.skipDepth == 0 {
			p.recovering = false
		}
	}
}

func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

// advance returns the current token and moves past it. It never moves past
// the final eof token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind, text string) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind || (text != "" && tok.Text != text) {
		label := string(kind)
		if text != "" {
			label = "'" + text + "'"
		}
		return tok, p.errorExpected(tok, label)
	}
	return p.advance(), nil
}

func (p *Parser) expectPunctuation(text string) (Token, error) {
	return p.expect(TokenPunctuation, text)
}
