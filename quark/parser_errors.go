package quark

import "fmt"

func (p *Parser) errorExpected(tok Token, expected string) *Error {
	return newError(SyntaxError, tok.Pos, "expected %s, got %s", expected, tokenLabel(tok))
}

func (p *Parser) errorUnexpected(tok Token) *Error {
	return newError(SyntaxError, tok.Pos, "unexpected %s", tokenLabel(tok))
}

func (p *Parser) errorSemantic(pos Position, format string, args ...any) *Error {
	return newError(SemanticError, pos, format, args...)
}

func tokenLabel(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return fmt.Sprintf("identifier %q", tok.Text)
	case TokenKeyword:
		return fmt.Sprintf("keyword '%s'", tok.Text)
	case TokenNumber:
		return fmt.Sprintf("number %s", tok.Text)
	case TokenText:
		return fmt.Sprintf("text %q", tok.Text)
	case TokenBool:
		return fmt.Sprintf("bool %s", tok.Text)
	default:
		return fmt.Sprintf("%s '%s'", tok.Kind, tok.Text)
	}
}
