package quark

import "testing"

func FuzzTokenize(f *testing.F) {
	f.Add("")
	f.Add("exit(0);")
	f.Add("number x = 2 + 3 * 4;")
	f.Add(`text s = "unterminated`)
	f.Add("/* open comment")
	f.Add("1.2.3 12ab ?? ?. -> @")

	f.Fuzz(func(t *testing.T, source string) {
		tokens, err := Tokenize(source)
		if err != nil {
			if !IsLexical(err) {
				t.Fatalf("expected lexical error, got %v", err)
			}
			return
		}
		if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
			t.Fatalf("expected trailing eof, got %v", tokens)
		}
		for _, tok := range tokens[:len(tokens)-1] {
			if tok.Kind == TokenEOF {
				t.Fatalf("eof before end of stream: %v", tokens)
			}
		}
	})
}

func FuzzParse(f *testing.F) {
	f.Add("number x = 1; number x = 2;")
	f.Add("y = 1;")
	f.Add("if (true) { number q = \"s\"; } number ok = 1;")
	f.Add("number a = 1; number y = if (a > 0) { a; } else { a + 1; };")
	f.Add("while ((((")
	f.Add("}}}; ; {")

	f.Fuzz(func(t *testing.T, source string) {
		if len(source) > 4096 {
			source = source[:4096]
		}
		first, _, errs := ParseSource(source)
		if first == nil {
			return
		}
		second, _, _ := ParseSource(source)
		if Sexp(first) != Sexp(second) {
			t.Fatalf("parse is not deterministic for %q", source)
		}
		if len(errs) == 0 {
			if _, ok := first.Body[len(first.Body)-1].(*EndOfInput); !ok {
				t.Fatalf("expected program to end with EndOfInput")
			}
		}
	})
}
