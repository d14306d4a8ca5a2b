package token

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"tlog.app/go/tlog"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/diag"
)

type (
	lexer struct {
		b []byte
		i int

		line int
		bol  int // offset of the current line start
	}
)

// two-char operators are tried before their one-char prefixes
var ops2 = []string{"==", "!=", "<=", ">=", "&&", "||"}

// Tokenize splits src into tokens, ending with an EOF sentinel.
// It stops at the first byte it cannot recognize.
func Tokenize(ctx context.Context, src []byte) (toks []Token, err error) {
	tr := tlog.SpanFromContext(ctx)

	l := &lexer{b: src, line: 1}

	for {
		l.skipSpaces()

		if l.i == len(l.b) {
			break
		}

		tk, err := l.scan()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tk)

		if tr.If("token") {
			tr.Printw("token", "kind", tk.Kind, "lexeme", tk.Lexeme, "line", tk.Line, "col", tk.Col)
		}
	}

	toks = append(toks, Token{Kind: EOF, Line: l.line, Col: l.col()})

	return toks, nil
}

// Render writes tokens back as source-like text, one space between
// lexemes, strings re-quoted. Retokenizing the result yields the same
// kind/lexeme sequence.
func Render(toks []Token) []byte {
	var b []byte

	for _, tk := range toks {
		if tk.Kind == EOF {
			break
		}

		if len(b) != 0 {
			b = append(b, ' ')
		}

		if tk.Kind == String {
			b = strconv.AppendQuote(b, tk.Lexeme)
			continue
		}

		b = append(b, tk.Lexeme...)
	}

	return b
}

func (l *lexer) scan() (tk Token, err error) {
	line, col := l.line, l.col()
	c := l.b[l.i]

	switch {
	case c == '"':
		return l.scanString()
	case isDigit(c):
		e := skipNum(l.b, l.i)
		tk = Token{Kind: Number, Lexeme: string(l.b[l.i:e]), Line: line, Col: col}
		l.i = e

		return tk, nil
	case isLetter(c):
		e := skipIdent(l.b, l.i)
		lex := string(l.b[l.i:e])
		l.i = e

		k, ok := keywords[lex]
		if !ok {
			k = Ident
		}

		return Token{Kind: k, Lexeme: lex, Line: line, Col: col}, nil
	}

	// -> goes before the operator set so it is not split into - and >
	if c == '-' && l.i+1 < len(l.b) && l.b[l.i+1] == '>' {
		l.i += 2

		return Token{Kind: Arrow, Lexeme: "->", Line: line, Col: col}, nil
	}

	for _, op := range ops2 {
		if len(l.b)-l.i >= 2 && string(l.b[l.i:l.i+2]) == op {
			l.i += 2

			return Token{Kind: Op, Lexeme: op, Line: line, Col: col}, nil
		}
	}

	switch c {
	case '+', '-', '*', '/', '<', '>', '!':
		l.i++

		return Token{Kind: Op, Lexeme: string(c), Line: line, Col: col}, nil
	}

	var k Kind

	switch c {
	case '(':
		k = LParen
	case ')':
		k = RParen
	case '{':
		k = LBrace
	case '}':
		k = RBrace
	case ',':
		k = Comma
	case ':':
		k = Colon
	case ';':
		k = Semi
	case '=':
		k = Assign
	default:
		return tk, diag.LexError{Msg: fmt.Sprintf("unknown character %q", c), Line: line, Col: col}
	}

	l.i++

	return Token{Kind: k, Lexeme: string(c), Line: line, Col: col}, nil
}

// scanString decodes escapes in place. Strings may span lines. An
// unterminated string reports the opening quote as unknown.
func (l *lexer) scanString() (tk Token, err error) {
	line, col := l.line, l.col()

	nline, nbol := l.line, l.bol
	i := l.i + 1

	var val []byte

	for i < len(l.b) {
		c := l.b[i]

		switch {
		case c == '"':
			l.i = i + 1
			l.line, l.bol = nline, nbol

			return Token{Kind: String, Lexeme: string(val), Line: line, Col: col}, nil
		case c == '\\' && i+1 < len(l.b):
			val, i = decodeEscape(val, l.b, i)
		case c == '\n':
			val = append(val, c)
			i++
			nline++
			nbol = i
		default:
			val = append(val, c)
			i++
		}
	}

	return tk, diag.LexError{Msg: `unknown character '"'`, Line: line, Col: col}
}

func decodeEscape(val, b []byte, i int) ([]byte, int) {
	e := b[i+1]

	switch e {
	case 'n':
		return append(val, '\n'), i + 2
	case 't':
		return append(val, '\t'), i + 2
	case 'r':
		return append(val, '\r'), i + 2
	case 'a':
		return append(val, '\a'), i + 2
	case 'b':
		return append(val, '\b'), i + 2
	case 'f':
		return append(val, '\f'), i + 2
	case 'v':
		return append(val, '\v'), i + 2
	case '0':
		return append(val, 0), i + 2
	case '\\', '"', '\'':
		return append(val, e), i + 2
	case 'x':
		if r, ok := hexRune(b, i+2, 2); ok {
			return utf8.AppendRune(val, r), i + 4
		}
	case 'u':
		if r, ok := hexRune(b, i+2, 4); ok {
			return utf8.AppendRune(val, r), i + 6
		}
	}

	// unknown escapes keep the backslash
	return append(val, '\\', e), i + 2
}

func hexRune(b []byte, i, n int) (rune, bool) {
	if i+n > len(b) {
		return 0, false
	}

	var r rune

	for _, c := range b[i : i+n] {
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return 0, false
		}
	}

	return r, true
}

func (l *lexer) skipSpaces() {
	for l.i < len(l.b) {
		c := l.b[l.i]

		switch {
		case c == '\n':
			l.i++
			l.line++
			l.bol = l.i
		case c == ' ' || c == '\t' || c == '\r' || c == '\f':
			l.i++
		case c == '/' && l.i+1 < len(l.b) && l.b[l.i+1] == '/':
			for l.i < len(l.b) && l.b[l.i] != '\n' {
				l.i++
			}
		default:
			return
		}
	}
}

func (l *lexer) col() int { return l.i - l.bol + 1 }

func skipIdent(b []byte, i int) int {
	for i < len(b) && (isLetter(b[i]) || isDigit(b[i])) {
		i++
	}

	return i
}

func skipNum(b []byte, i int) int {
	for i < len(b) && isDigit(b[i]) {
		i++
	}

	return i
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
