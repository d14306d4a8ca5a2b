// Package token defines the lexical vocabulary and the lexer.
package token

import "fmt"

type (
	// Kind classifies a token. All operators share the Op kind and are
	// told apart by lexeme; keywords get their own kinds.
	Kind int

	// Token is a single lexeme with its 1-based source position.
	// String tokens carry the decoded value in Lexeme.
	Token struct {
		Kind   Kind
		Lexeme string
		Line   int
		Col    int
	}
)

const (
	EOF Kind = iota
	Number
	String
	Ident
	Op

	LParen
	RParen
	LBrace
	RBrace
	Comma
	Colon
	Semi
	Arrow
	Assign

	KwFn
	KwLet
	KwIf
	KwElse
	KwWhile
	KwReturn
	KwTrue
	KwFalse
	KwInt
	KwBool
	KwString
)

var kindNames = []string{
	EOF:    "EOF",
	Number: "Number",
	String: "String",
	Ident:  "Ident",
	Op:     "Op",

	LParen: "LParen",
	RParen: "RParen",
	LBrace: "LBrace",
	RBrace: "RBrace",
	Comma:  "Comma",
	Colon:  "Colon",
	Semi:   "Semi",
	Arrow:  "Arrow",
	Assign: "Assign",

	KwFn:     "fn",
	KwLet:    "let",
	KwIf:     "if",
	KwElse:   "else",
	KwWhile:  "while",
	KwReturn: "return",
	KwTrue:   "true",
	KwFalse:  "false",
	KwInt:    "int",
	KwBool:   "bool",
	KwString: "string",
}

var keywords = map[string]Kind{
	"fn":     KwFn,
	"let":    KwLet,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"return": KwReturn,
	"true":   KwTrue,
	"false":  KwFalse,
	"int":    KwInt,
	"bool":   KwBool,
	"string": KwString,
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

func (t Token) String() string {
	return fmt.Sprintf("%v(%q) %d:%d", t.Kind, t.Lexeme, t.Line, t.Col)
}
