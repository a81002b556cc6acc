package quark

import "fmt"

// TokenKind identifies the lexical category of a token.
type TokenKind string

const (
	TokenKeyword     TokenKind = "keyword"
	TokenIdentifier  TokenKind = "identifier"
	TokenNumber      TokenKind = "number"
	TokenText        TokenKind = "text"
	TokenBool        TokenKind = "bool"
	TokenOperator    TokenKind = "operator"
	TokenPunctuation TokenKind = "punctuation"
	TokenEOF         TokenKind = "eof"
)

// Token captures lexical information for the parser.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// Position identifies a line and column in the source, both starting at 1.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "eof"
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

func NewKeyword(text string, pos Position) Token {
	return Token{Kind: TokenKeyword, Text: text, Pos: pos}
}

func NewIdentifier(text string, pos Position) Token {
	return Token{Kind: TokenIdentifier, Text: text, Pos: pos}
}

func NewNumber(text string, pos Position) Token {
	return Token{Kind: TokenNumber, Text: text, Pos: pos}
}

func NewText(text string, pos Position) Token {
	return Token{Kind: TokenText, Text: text, Pos: pos}
}

func NewBool(text string, pos Position) Token {
	return Token{Kind: TokenBool, Text: text, Pos: pos}
}

func NewOperator(text string, pos Position) Token {
	return Token{Kind: TokenOperator, Text: text, Pos: pos}
}

func NewPunctuation(text string, pos Position) Token {
	return Token{Kind: TokenPunctuation, Text: text, Pos: pos}
}

func NewEOF(pos Position) Token {
	return Token{Kind: TokenEOF, Pos: pos}
}

var keywords = map[string]struct{}{
	"var": {}, "const": {},
	"number": {}, "text": {}, "bool": {}, "char": {},
	"if": {}, "else": {},
	"for": {}, "while": {},
	"switch": {}, "case": {}, "default": {}, "continue": {}, "break": {},
	"function": {}, "class": {}, "new": {}, "this": {},
	"absorb": {}, "radiate": {}, "null": {},
	"void": {}, "return": {},
	"exit": {},
}

// Keywords returns the reserved words of the language in no particular order.
func Keywords() []string {
	out := make([]string, 0, len(keywords)+2)
	for k := range keywords {
		out = append(out, k)
	}
	return append(out, "true", "false")
}

func isTypeKeyword(word string) bool {
	switch word {
	case "number", "text", "bool", "char":
		return true
	}
	return false
}
