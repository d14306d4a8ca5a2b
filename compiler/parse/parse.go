// Package parse builds the syntax tree: recursive descent for
// declarations and statements, precedence climbing for expressions.
package parse

import (
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/tlog"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/ast"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/diag"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/token"
)

type (
	parser struct {
		toks []token.Token
		pos  int
	}
)

// binding powers; all binary operators are left-associative,
// the right side is parsed with lbp+1
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, ">": 4, "<=": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6,
}

// Parse builds the program tree from a token stream produced by
// token.Tokenize. The stream must end with an EOF token.
func Parse(ctx context.Context, toks []token.Token) (prog *ast.Program, err error) {
	p := &parser{toks: toks}

	return p.program(ctx)
}

// ParseSource tokenizes src and parses it.
func ParseSource(ctx context.Context, src []byte) (*ast.Program, error) {
	toks, err := token.Tokenize(ctx, src)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, toks)
}

func (p *parser) program(ctx context.Context) (prog *ast.Program, err error) {
	tr := tlog.SpanFromContext(ctx)

	prog = &ast.Program{Pos: pos(p.peek())}

	for p.peek().Kind != token.EOF {
		f, err := p.fnDecl()
		if err != nil {
			return nil, err
		}

		prog.Decls = append(prog.Decls, f)

		tr.Printw("parsed function", "name", f.Name, "params", len(f.Params), "ret", f.RetType)
	}

	return prog, nil
}

func (p *parser) fnDecl() (f *ast.FuncDecl, err error) {
	kw, err := p.expect(token.KwFn)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.LParen)
	if err != nil {
		return nil, err
	}

	var params []ast.Param

	if p.peek().Kind != token.RParen {
		for {
			pm, err := p.param()
			if err != nil {
				return nil, err
			}

			params = append(params, pm)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	_, err = p.expect(token.RParen)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.Arrow)
	if err != nil {
		return nil, err
	}

	ret, err := p.typeName()
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	f = &ast.FuncDecl{
		Pos:     pos(kw),
		Name:    name.Lexeme,
		Params:  params,
		RetType: ret,
		Body:    body,
	}

	return f, nil
}

func (p *parser) param() (pm ast.Param, err error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return pm, err
	}

	_, err = p.expect(token.Colon)
	if err != nil {
		return pm, err
	}

	typ, err := p.typeName()
	if err != nil {
		return pm, err
	}

	return ast.Param{Name: name.Lexeme, Type: typ}, nil
}

// typeName accepts the builtin type keywords and bare identifiers.
// Unknown names are not rejected here, they fail on mismatch later.
func (p *parser) typeName() (string, error) {
	t := p.peek()

	switch t.Kind {
	case token.KwInt, token.KwBool, token.KwString, token.Ident:
		p.pos++

		return t.Lexeme, nil
	}

	return "", diag.ParseError{Msg: "expected type", Line: t.Line, Col: t.Col}
}

func (p *parser) block() (b *ast.Block, err error) {
	lb, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}

	b = &ast.Block{Pos: pos(lb)}

	for p.peek().Kind != token.RBrace && p.peek().Kind != token.EOF {
		st, err := p.statement()
		if err != nil {
			return nil, err
		}

		b.Stmts = append(b.Stmts, st)
	}

	_, err = p.expect(token.RBrace)
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (p *parser) statement() (ast.Stmt, error) {
	t := p.peek()

	switch t.Kind {
	case token.KwLet:
		return p.varDecl()
	case token.KwIf:
		return p.ifStmt()
	case token.KwWhile:
		return p.whileStmt()
	case token.KwReturn:
		return p.returnStmt()
	}

	// second token of lookahead tells an assignment from an
	// expression statement starting with the same identifier
	if t.Kind == token.Ident && p.peek2().Kind == token.Assign {
		return p.assignStmt()
	}

	e, err := p.expr()
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.Semi)
	if err != nil {
		return nil, err
	}

	return &ast.ExprStmt{X: e}, nil
}

func (p *parser) varDecl() (st ast.Stmt, err error) {
	kw, err := p.expect(token.KwLet)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.Colon)
	if err != nil {
		return nil, err
	}

	typ, err := p.typeName()
	if err != nil {
		return nil, err
	}

	d := &ast.VarDecl{Pos: pos(kw), Name: name.Lexeme, TypeName: typ}

	if p.match(token.Assign) {
		d.Init, err = p.expr()
		if err != nil {
			return nil, err
		}
	}

	_, err = p.expect(token.Semi)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (p *parser) ifStmt() (st ast.Stmt, err error) {
	kw, err := p.expect(token.KwIf)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.LParen)
	if err != nil {
		return nil, err
	}

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.RParen)
	if err != nil {
		return nil, err
	}

	then, err := p.block()
	if err != nil {
		return nil, err
	}

	s := &ast.IfStmt{Pos: pos(kw), Cond: cond, Then: then}

	if p.match(token.KwElse) {
		s.Else, err = p.block()
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (p *parser) whileStmt() (st ast.Stmt, err error) {
	kw, err := p.expect(token.KwWhile)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.LParen)
	if err != nil {
		return nil, err
	}

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.RParen)
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.WhileStmt{Pos: pos(kw), Cond: cond, Body: body}, nil
}

func (p *parser) returnStmt() (st ast.Stmt, err error) {
	kw, err := p.expect(token.KwReturn)
	if err != nil {
		return nil, err
	}

	s := &ast.ReturnStmt{Pos: pos(kw)}

	if p.peek().Kind != token.Semi {
		s.Value, err = p.expr()
		if err != nil {
			return nil, err
		}
	}

	_, err = p.expect(token.Semi)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (p *parser) assignStmt() (st ast.Stmt, err error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.Assign)
	if err != nil {
		return nil, err
	}

	val, err := p.expr()
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.Semi)
	if err != nil {
		return nil, err
	}

	return &ast.Assign{Pos: pos(name), Name: name.Lexeme, Value: val}, nil
}

func (p *parser) expr() (ast.Expr, error) {
	return p.binExpr(0)
}

func (p *parser) binExpr(minBP int) (left ast.Expr, err error) {
	left, err = p.primary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.Kind != token.Op {
			break
		}

		lbp, ok := precedence[t.Lexeme]
		if !ok || lbp < minBP {
			break
		}

		p.pos++

		right, err := p.binExpr(lbp + 1)
		if err != nil {
			return nil, err
		}

		left = &ast.BinOp{Pos: pos(t), Op: t.Lexeme, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) primary() (ast.Expr, error) {
	t := p.peek()

	switch t.Kind {
	case token.Number:
		p.pos++

		v, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			return nil, diag.ParseError{Msg: fmt.Sprintf("bad number %v", t.Lexeme), Line: t.Line, Col: t.Col}
		}

		return &ast.Literal{Pos: pos(t), Value: v}, nil
	case token.String:
		p.pos++

		return &ast.Literal{Pos: pos(t), Value: t.Lexeme}, nil
	case token.KwTrue:
		p.pos++

		return &ast.Literal{Pos: pos(t), Value: true}, nil
	case token.KwFalse:
		p.pos++

		return &ast.Literal{Pos: pos(t), Value: false}, nil
	case token.Ident:
		if p.peek2().Kind == token.LParen {
			return p.call()
		}

		p.pos++

		return &ast.Var{Pos: pos(t), Name: t.Lexeme}, nil
	case token.LParen:
		p.pos++

		e, err := p.expr()
		if err != nil {
			return nil, err
		}

		_, err = p.expect(token.RParen)
		if err != nil {
			return nil, err
		}

		return e, nil
	}

	// unary operators bind tighter than any binary operator
	if t.Kind == token.Op && (t.Lexeme == "-" || t.Lexeme == "!") {
		p.pos++

		operand, err := p.primary()
		if err != nil {
			return nil, err
		}

		return &ast.UnOp{Pos: pos(t), Op: t.Lexeme, Operand: operand}, nil
	}

	return nil, diag.ParseError{Msg: fmt.Sprintf("unexpected token %v", t.Kind), Line: t.Line, Col: t.Col}
}

func (p *parser) call() (e ast.Expr, err error) {
	name := p.peek()
	p.pos += 2 // consume Ident, LParen

	c := &ast.Call{Pos: pos(name), Name: name.Lexeme}

	if p.peek().Kind != token.RParen {
		for {
			a, err := p.expr()
			if err != nil {
				return nil, err
			}

			c.Args = append(c.Args, a)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	_, err = p.expect(token.RParen)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (p *parser) peek() token.Token { return p.toks[p.pos] }

// peek2 is only called when peek is not EOF, so the index is in range.
func (p *parser) peek2() token.Token { return p.toks[p.pos+1] }

func (p *parser) match(k token.Kind) bool {
	if p.peek().Kind != k {
		return false
	}

	p.pos++

	return true
}

func (p *parser) expect(k token.Kind) (tk token.Token, err error) {
	tk = p.peek()
	if tk.Kind != k {
		return tk, diag.ParseError{Msg: fmt.Sprintf("expected %v, got %v", k, tk.Kind), Line: tk.Line, Col: tk.Col}
	}

	p.pos++

	return tk, nil
}

func pos(tk token.Token) ast.Pos { return ast.Pos{Line: tk.Line, Col: tk.Col} }
