// Package ast defines the tree produced by the parser and consumed by
// the analyzer, the lowering pass and the interpreter.
//
// Statement and expression sets are closed: each variant carries an
// unexported marker method, so a switch over them is exhaustive.
package ast

type (
	// Pos is the defining token position, 1-based.
	Pos struct {
		Line int
		Col  int
	}

	Node interface {
		Position() (line, col int)
	}

	Stmt interface {
		Node
		stmt()
	}

	Expr interface {
		Node
		expr()
	}

	Program struct {
		Pos

		Decls []*FuncDecl
	}

	FuncDecl struct {
		Pos

		Name    string
		Params  []Param
		RetType string
		Body    *Block
	}

	// Param carries no position of its own.
	Param struct {
		Name string
		Type string
	}

	Block struct {
		Pos

		Stmts []Stmt
	}

	// VarDecl init is nil when the declaration has no initializer.
	VarDecl struct {
		Pos

		Name     string
		TypeName string
		Init     Expr
	}

	Assign struct {
		Pos

		Name  string
		Value Expr
	}

	IfStmt struct {
		Pos

		Cond Expr
		Then *Block
		Else *Block // nil when omitted
	}

	WhileStmt struct {
		Pos

		Cond Expr
		Body *Block
	}

	// ReturnStmt value is nil for a bare return.
	ReturnStmt struct {
		Pos

		Value Expr
	}

	// ExprStmt is an expression evaluated for its effect.
	ExprStmt struct {
		X Expr
	}

	// Literal value is int64, bool or string.
	Literal struct {
		Pos

		Value any
	}

	Var struct {
		Pos

		Name string
	}

	BinOp struct {
		Pos

		Op    string
		Left  Expr
		Right Expr
	}

	UnOp struct {
		Pos

		Op      string
		Operand Expr
	}

	Call struct {
		Pos

		Name string
		Args []Expr
	}
)

func (p Pos) Position() (line, col int) { return p.Line, p.Col }

func (s *ExprStmt) Position() (line, col int) { return s.X.Position() }

func (*Block) stmt()      {}
func (*VarDecl) stmt()    {}
func (*Assign) stmt()     {}
func (*IfStmt) stmt()     {}
func (*WhileStmt) stmt()  {}
func (*ReturnStmt) stmt() {}
func (*ExprStmt) stmt()   {}

func (*Literal) expr() {}
func (*Var) expr()     {}
func (*BinOp) expr()   {}
func (*UnOp) expr()    {}
func (*Call) expr()    {}
