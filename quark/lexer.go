package quark

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch    rune
	atEnd bool
}

// Tokenize scans the whole source in one pass. The result always ends with a
// single eof token. Lexical errors abort the scan.
func Tokenize(source string) ([]Token, error) {
	l := newLexer(source)
	tokens := make([]Token, 0, len(source)/3+1)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err.WithSource(source)
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		if !l.atEnd && l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.width = 0
		l.ch = 0
		l.atEnd = true
		return
	}

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.column++
	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) position() Position {
	return Position{Line: l.line, Column: l.column}
}

// NextToken returns the next token or a lexical error.
func (l *lexer) NextToken() (Token, *Error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	pos := l.position()
	if l.atEnd {
		return NewEOF(Position{Line: l.line, Column: l.column + 1}), nil
	}

	switch {
	case isIdentifierStart(l.ch):
		word := l.readIdentifier()
		lower := strings.ToLower(word)
		if lower == "true" || lower == "false" {
			return NewBool(lower, pos), nil
		}
		if _, ok := keywords[lower]; ok {
			return NewKeyword(lower, pos), nil
		}
		return NewIdentifier(word, pos), nil
	case isDigit(l.ch):
		literal, err := l.readNumber()
		if err != nil {
			return Token{}, err
		}
		return NewNumber(literal, pos), nil
	case l.ch == '"':
		literal, err := l.readText()
		if err != nil {
			return Token{}, err
		}
		return NewText(literal, pos), nil
	case strings.ContainsRune("(){}[];,", l.ch):
		tok := NewPunctuation(string(l.ch), pos)
		l.readRune()
		return tok, nil
	case l.ch == '?' || strings.ContainsRune(operatorStarts, l.ch):
		return l.readOperator(pos), nil
	default:
		return Token{}, newError(LexicalError, pos, "unexpected character %q", l.ch)
	}
}

const operatorStarts = "+-*/%^&|~!=<>.:"

var twoCharOperators = map[string]struct{}{
	"++": {}, "+=": {},
	"--": {}, "-=": {}, "->": {},
	"*=": {}, "/=": {}, "%=": {}, "^=": {},
	"&&": {}, "&=": {},
	"||": {}, "|=": {},
	"~=": {}, "!=": {}, "==": {},
	"<=": {}, ">=": {},
	"?.": {}, "??": {},
}

func (l *lexer) readOperator(pos Position) Token {
	first := l.ch
	pair := string(first) + string(l.peekRune())
	if _, ok := twoCharOperators[pair]; ok {
		l.readRune()
		l.readRune()
		return NewOperator(pair, pos)
	}
	l.readRune()
	if first == '?' {
		return NewPunctuation("?", pos)
	}
	return NewOperator(string(first), pos)
}

func (l *lexer) skipWhitespaceAndComments() *Error {
	for !l.atEnd {
		switch {
		case unicode.IsSpace(l.ch):
			l.readRune()
		case l.ch == '/' && l.peekRune() == '/':
			for !l.atEnd && l.ch != '\n' {
				l.readRune()
			}
		case l.ch == '/' && l.peekRune() == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) skipBlockComment() *Error {
	start := l.position()
	l.readRune()
	l.readRune()
	for !l.atEnd {
		if l.ch == '*' && l.peekRune() == '/' {
			l.readRune()
			l.readRune()
			return nil
		}
		l.readRune()
	}
	return newError(LexicalError, start, "unterminated comment")
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for !l.atEnd && isIdentifierRune(l.ch) {
		l.readRune()
	}
	return l.input[start:l.currentOffset()]
}

func (l *lexer) readNumber() (string, *Error) {
	start := l.currentOffset()
	for !l.atEnd && isDigit(l.ch) {
		l.readRune()
	}
	if l.ch == '.' && !l.atEnd {
		l.readRune()
		for !l.atEnd && isDigit(l.ch) {
			l.readRune()
		}
		if l.ch == '.' && !l.atEnd {
			return "", newError(LexicalError, l.position(), "number cannot have multiple decimal points")
		}
	}
	if !l.atEnd && isIdentifierStart(l.ch) {
		return "", newError(LexicalError, l.position(), "invalid number format: unexpected character %q after number", l.ch)
	}
	return l.input[start:l.currentOffset()], nil
}

// readText has no escape sequences; the first quote closes the literal.
func (l *lexer) readText() (string, *Error) {
	pos := l.position()
	l.readRune()
	start := l.currentOffset()
	for !l.atEnd && l.ch != '"' {
		l.readRune()
	}
	if l.atEnd {
		return "", newError(LexicalError, pos, "unterminated text literal")
	}
	literal := l.input[start:l.currentOffset()]
	l.readRune()
	return literal, nil
}

func isIdentifierStart(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
}

func isIdentifierRune(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
