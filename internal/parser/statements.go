package parser

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/token"
)

// parseStmt parses one statement inside a block. Block-like expressions
// (`if`, `loop`, `{ ... }`) used in statement position don't require a
// trailing separator; everything else does (spec §6, "Statement
// separators").
func (p *Parser) parseStmt() ast.Stmt {
	tok := p.cur

	if p.at(token.IDENT) && p.peek.Kind == token.DEFINE {
		return p.parseDefine(false)
	}
	if p.at(token.MUT) {
		p.advance()
		return p.parseDefine(true)
	}

	x := p.parseExpr()

	if p.at(token.ASSIGN) {
		p.advance()
		value := p.parseExpr()
		p.acceptStmtEnd()
		return &ast.AssignStmt{Base: ast.NewBase(p.newID(), tok), Target: x, Value: value}
	}

	p.acceptStmtEnd()
	return &ast.ExprStmt{Base: ast.NewBase(p.newID(), tok), X: x}
}

func (p *Parser) parseDefine(mut bool) ast.Stmt {
	tok := p.cur
	name := p.expect(token.IDENT)
	p.expect(token.DEFINE)
	value := p.parseExpr()
	p.acceptStmtEnd()
	return &ast.DefineStmt{Base: ast.NewBase(p.newID(), tok), Name: name.Lexeme, Mut: mut, Value: value}
}

// acceptStmtEnd consumes an optional trailing `;`. The grammar never
// requires one before `}` (spec §6 examples terminate the last statement
// of a block without one).
func (p *Parser) acceptStmtEnd() {
	p.accept(token.SEMI)
}
