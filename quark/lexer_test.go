package quark

import (
	"strings"
	"testing"
)

func TestTokenizeExitStatement(t *testing.T) {
	tokens, err := Tokenize("exit(0);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Token{
		NewKeyword("exit", Position{Line: 1, Column: 1}),
		NewPunctuation("(", Position{Line: 1, Column: 5}),
		NewNumber("0", Position{Line: 1, Column: 6}),
		NewPunctuation(")", Position{Line: 1, Column: 7}),
		NewPunctuation(";", Position{Line: 1, Column: 8}),
		NewEOF(Position{Line: 1, Column: 9}),
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d: expected %v at %s, got %v at %s", i, want[i], want[i].Pos, tokens[i], tokens[i].Pos)
		}
	}
}

func TestTokenizeOperatorDisambiguation(t *testing.T) {
	source := "= == < <= + ++ += & && &= ? ?. ?? - -- -= -> ! != | || ~ ~= ."
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.Fields(source)
	if len(tokens) != len(want)+1 {
		t.Fatalf("expected %d tokens, got %d: %v", len(want)+1, len(tokens), tokens)
	}
	for i, text := range want {
		tok := tokens[i]
		if tok.Text != text {
			t.Fatalf("token %d: expected %q, got %q", i, text, tok.Text)
		}
		wantKind := TokenOperator
		if text == "?" {
			wantKind = TokenPunctuation
		}
		if tok.Kind != wantKind {
			t.Fatalf("token %q: expected kind %s, got %s", text, wantKind, tok.Kind)
		}
	}
	if last := tokens[len(tokens)-1]; last.Kind != TokenEOF {
		t.Fatalf("expected trailing eof, got %v", last)
	}
}

func TestTokenizeAdjacentOperatorsWithoutSpaces(t *testing.T) {
	tokens, err := Tokenize("a+=b++;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		got = append(got, tok.String())
	}
	want := "identifier(a) operator(+=) identifier(b) operator(++) punctuation(;) eof"
	if strings.Join(got, " ") != want {
		t.Fatalf("unexpected tokens:\n got: %s\nwant: %s", strings.Join(got, " "), want)
	}
}

func TestTokenizeKeywordsAreCaseInsensitive(t *testing.T) {
	tokens, err := Tokenize("NUMBER Total = TRUE; Bool flag = False;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		index int
		kind  TokenKind
		text  string
	}{
		{0, TokenKeyword, "number"},
		{1, TokenIdentifier, "Total"},
		{3, TokenBool, "true"},
		{5, TokenKeyword, "bool"},
		{6, TokenIdentifier, "flag"},
		{8, TokenBool, "false"},
	}
	for _, check := range checks {
		tok := tokens[check.index]
		if tok.Kind != check.kind || tok.Text != check.text {
			t.Fatalf("token %d: expected %s(%s), got %v", check.index, check.kind, check.text, tok)
		}
	}
}

func TestTokenizeLiterals(t *testing.T) {
	tokens, err := Tokenize(`12 3.75 "hello world" ""`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Token{
		NewNumber("12", Position{Line: 1, Column: 1}),
		NewNumber("3.75", Position{Line: 1, Column: 4}),
		NewText("hello world", Position{Line: 1, Column: 9}),
		NewText("", Position{Line: 1, Column: 23}),
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d: expected %v at %s, got %v at %s", i, want[i], want[i].Pos, tokens[i], tokens[i].Pos)
		}
	}
}

func TestTokenizeSkipsCommentsAndTracksLines(t *testing.T) {
	source := "// leading comment\nnumber x /* inline */ = 1;\n/* multi\nline */\n  x = 2;"
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tokens[0].Text != "number" || tokens[0].Pos != (Position{Line: 2, Column: 1}) {
		t.Fatalf("expected number at 2:1, got %v at %s", tokens[0], tokens[0].Pos)
	}
	if tokens[2].Text != "=" || tokens[2].Pos != (Position{Line: 2, Column: 23}) {
		t.Fatalf("expected = at 2:23, got %v at %s", tokens[2], tokens[2].Pos)
	}
	if tokens[5].Text != "x" || tokens[5].Pos != (Position{Line: 5, Column: 3}) {
		t.Fatalf("expected x at 5:3, got %v at %s", tokens[5], tokens[5].Pos)
	}
	for _, tok := range tokens {
		if strings.Contains(tok.Text, "comment") || strings.Contains(tok.Text, "inline") {
			t.Fatalf("comment text leaked into token %v", tok)
		}
	}
}

func TestTokenizeEmptySource(t *testing.T) {
	tokens, err := Tokenize("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Kind != TokenEOF {
		t.Fatalf("expected only eof, got %v", tokens)
	}
}

func TestTokenizeLexicalErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		msg    string
		pos    Position
	}{
		{name: "unterminated_text", source: `text s = "abc`, msg: "unterminated text literal", pos: Position{Line: 1, Column: 10}},
		{name: "unterminated_comment", source: "number x = 1; /* never closed", msg: "unterminated comment", pos: Position{Line: 1, Column: 15}},
		{name: "multiple_decimal_points", source: "number x = 1.2.3;", msg: "multiple decimal points", pos: Position{Line: 1, Column: 15}},
		{name: "letter_after_number", source: "number x = 12ab;", msg: "unexpected character 'a' after number", pos: Position{Line: 1, Column: 14}},
		{name: "unexpected_character", source: "number x = @;", msg: "unexpected character '@'", pos: Position{Line: 1, Column: 12}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tokenize(tc.source)
			if err == nil {
				t.Fatalf("expected lexical error")
			}
			if !IsLexical(err) {
				t.Fatalf("expected lexical error, got %v", err)
			}
			qe := err.(*Error)
			if !strings.Contains(qe.Msg, tc.msg) {
				t.Fatalf("expected message containing %q, got %q", tc.msg, qe.Msg)
			}
			if qe.Pos != tc.pos {
				t.Fatalf("expected position %s, got %s", tc.pos, qe.Pos)
			}
			if !strings.Contains(err.Error(), "^") {
				t.Fatalf("expected code frame in %q", err.Error())
			}
		})
	}
}
