package token

import (
	"context"
	"testing"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/diag"
)

func TestTokenize(t *testing.T) {
	ctx := context.Background()

	toks, err := Tokenize(ctx, []byte("let x = 12 + 3;"))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	want := []Token{
		{KwLet, "let", 1, 1},
		{Ident, "x", 1, 5},
		{Assign, "=", 1, 7},
		{Number, "12", 1, 9},
		{Op, "+", 1, 12},
		{Number, "3", 1, 14},
		{Semi, ";", 1, 15},
		{EOF, "", 1, 16},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, wanted %d", len(toks), len(want))
	}

	for i, w := range want {
		if toks[i] != w {
			t.Errorf("token %d: got %v, wanted %v", i, toks[i], w)
		}
	}
}

func TestTokenizeOperators(t *testing.T) {
	ctx := context.Background()

	toks, err := Tokenize(ctx, []byte("== != <= >= && || -> < > ! = + - * /"))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	want := []Token{
		{Kind: Op, Lexeme: "=="},
		{Kind: Op, Lexeme: "!="},
		{Kind: Op, Lexeme: "<="},
		{Kind: Op, Lexeme: ">="},
		{Kind: Op, Lexeme: "&&"},
		{Kind: Op, Lexeme: "||"},
		{Kind: Arrow, Lexeme: "->"},
		{Kind: Op, Lexeme: "<"},
		{Kind: Op, Lexeme: ">"},
		{Kind: Op, Lexeme: "!"},
		{Kind: Assign, Lexeme: "="},
		{Kind: Op, Lexeme: "+"},
		{Kind: Op, Lexeme: "-"},
		{Kind: Op, Lexeme: "*"},
		{Kind: Op, Lexeme: "/"},
		{Kind: EOF},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, wanted %d", len(toks), len(want))
	}

	for i, w := range want {
		if toks[i].Kind != w.Kind || toks[i].Lexeme != w.Lexeme {
			t.Errorf("token %d: got %v, wanted %v %q", i, toks[i], w.Kind, w.Lexeme)
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	ctx := context.Background()

	toks, err := Tokenize(ctx, []byte("// heading\nlet x = 1; // trailing\nx = 2;\n"))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	want := []Token{
		{KwLet, "let", 2, 1},
		{Ident, "x", 2, 5},
		{Assign, "=", 2, 7},
		{Number, "1", 2, 9},
		{Semi, ";", 2, 10},
		{Ident, "x", 3, 1},
		{Assign, "=", 3, 3},
		{Number, "2", 3, 5},
		{Semi, ";", 3, 6},
		{EOF, "", 4, 1},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, wanted %d", len(toks), len(want))
	}

	for i, w := range want {
		if toks[i] != w {
			t.Errorf("token %d: got %v, wanted %v", i, toks[i], w)
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	ctx := context.Background()

	toks, err := Tokenize(ctx, []byte(`"a\nb\tc\x41B\q"`))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	if len(toks) != 2 {
		t.Fatalf("got %d tokens, wanted 2", len(toks))
	}

	if toks[0].Kind != String || toks[0].Lexeme != "a\nb\tcAB\\q" {
		t.Errorf("got %v", toks[0])
	}
}

func TestTokenizeStringMultiline(t *testing.T) {
	ctx := context.Background()

	toks, err := Tokenize(ctx, []byte("let s = \"two\nlines\";\nlet t = 1;"))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	want := []Token{
		{KwLet, "let", 1, 1},
		{Ident, "s", 1, 5},
		{Assign, "=", 1, 7},
		{String, "two\nlines", 1, 9},
		{Semi, ";", 2, 7},
		{KwLet, "let", 3, 1},
		{Ident, "t", 3, 5},
		{Assign, "=", 3, 7},
		{Number, "1", 3, 9},
		{Semi, ";", 3, 10},
		{EOF, "", 3, 11},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, wanted %d", len(toks), len(want))
	}

	for i, w := range want {
		if toks[i] != w {
			t.Errorf("token %d: got %v, wanted %v", i, toks[i], w)
		}
	}
}

func TestTokenizeUnknownChar(t *testing.T) {
	ctx := context.Background()

	_, err := Tokenize(ctx, []byte("let x = ?;"))

	e, ok := err.(diag.LexError)
	if !ok {
		t.Fatalf("got %T (%v), wanted a lex error", err, err)
	}

	if e.Msg != "unknown character '?'" || e.Line != 1 || e.Col != 9 {
		t.Errorf("got %v", e)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	ctx := context.Background()

	_, err := Tokenize(ctx, []byte("let s = \"abc"))

	e, ok := err.(diag.LexError)
	if !ok {
		t.Fatalf("got %T (%v), wanted a lex error", err, err)
	}

	// the opening quote is reported, not the end of input
	if e.Msg != `unknown character '"'` || e.Line != 1 || e.Col != 9 {
		t.Errorf("got %v", e)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	ctx := context.Background()

	src := []byte(`fn main() -> int { let s = "a\nb"; println(s, 1 <= 2); return 0; }`)

	toks, err := Tokenize(ctx, src)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	b := Render(toks)
	t.Logf("rendered: %s", b)

	again, err := Tokenize(ctx, b)
	if err != nil {
		t.Fatalf("tokenize rendered: %v", err)
	}

	if len(again) != len(toks) {
		t.Fatalf("got %d tokens, wanted %d", len(again), len(toks))
	}

	for i := range toks {
		if again[i].Kind != toks[i].Kind || again[i].Lexeme != toks[i].Lexeme {
			t.Errorf("token %d: got %v, wanted %v", i, again[i], toks[i])
		}
	}
}
