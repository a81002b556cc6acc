package quark

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	integerPattern = regexp.MustCompile(`^\d+$`)
	floatPattern   = regexp.MustCompile(`^(?:\d+\.\d*|\d*\.\d+|\d+)$`)
)

func (p *Parser) parseLiteral() (Node, error) {
	tok := p.advance()
	switch tok.Kind {
	case TokenBool:
		switch strings.ToLower(tok.Text) {
		case "true":
			return &BoolLiteral{base: newBase(tok.Pos), Value: true}, nil
		case "false":
			return &BoolLiteral{base: newBase(tok.Pos), Value: false}, nil
		}
		return nil, newError(SyntaxError, tok.Pos, "expected true or false, got %q", tok.Text)
	case TokenText:
		return &TextLiteral{base: newBase(tok.Pos), Value: tok.Text}, nil
	case TokenNumber:
		return parseNumberLiteral(tok)
	default:
		return nil, newError(SyntaxError, tok.Pos, "unsupported literal %s", tokenLabel(tok))
	}
}

func parseNumberLiteral(tok Token) (Node, error) {
	integer := integerPattern.MatchString(tok.Text)
	if !integer && !floatPattern.MatchString(tok.Text) {
		return nil, newError(SyntaxError, tok.Pos, "invalid number %s", tok.Text)
	}
	value, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return nil, newError(SyntaxError, tok.Pos, "invalid number %s: out of range", tok.Text)
	}
	return &NumberLiteral{base: newBase(tok.Pos), Value: value, Integer: integer}, nil
}
