package parser

import (
	"strconv"

	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/token"
)

// parseExpr is the entry point for expression parsing: comparisons bind
// loosest, then additive, then multiplicative, then unary/postfix (spec §6,
// "Expression grammar").
func (p *Parser) parseExpr() ast.Expr {
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for {
		op, ok := comparisonOp(p.cur.Kind)
		if !ok {
			return left
		}
		tok := p.cur
		p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Base: ast.NewBase(p.newID(), tok), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		tok := p.cur
		op := ast.Add
		if tok.Kind == token.MINUS {
			op = ast.Sub
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Base: ast.NewBase(p.newID(), tok), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		tok := p.cur
		var op ast.BinaryOp
		switch tok.Kind {
		case token.STAR:
			op = ast.Mul
		case token.SLASH:
			op = ast.Div
		default:
			op = ast.Mod
		}
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Base: ast.NewBase(p.newID(), tok), Op: op, Left: left, Right: right}
	}
	return left
}

// parseUnary has no dedicated AST node for unary minus in the current
// grammar (spec §6 gives only binary operators); `-x` is sugar for
// `0 - x`, matching original_source's desugaring in
// src/parser/src/expr.rs.
func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.MINUS) {
		tok := p.cur
		p.advance()
		operand := p.parseUnary()
		zero := &ast.IntLitExpr{Base: ast.NewBase(p.newID(), tok), Value: 0}
		return &ast.BinaryExpr{Base: ast.NewBase(p.newID(), tok), Op: ast.Sub, Left: zero, Right: operand}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch {
		case p.at(token.LPAREN):
			tok := p.cur
			p.advance()
			var args []ast.Expr
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				args = append(args, p.parseExpr())
				if !p.accept(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
			x = &ast.CallExpr{Base: ast.NewBase(p.newID(), tok), Callee: x, Args: args}
		case p.at(token.DOT):
			tok := p.cur
			p.advance()
			if p.at(token.INT) {
				idxTok := p.cur
				p.advance()
				x = &ast.TupleFieldExpr{Base: ast.NewBase(p.newID(), tok), X: x, Index: parseTupleIndex(idxTok.Lexeme)}
				continue
			}
			name := p.expect(token.IDENT)
			x = &ast.FieldExpr{Base: ast.NewBase(p.newID(), tok), X: x, Field: name.Lexeme}
		case p.at(token.LBRACKET):
			tok := p.cur
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACKET)
			x = &ast.IndexExpr{Base: ast.NewBase(p.newID(), tok), X: x, Index: idx}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur
	switch tok.Kind {
	case token.INT:
		p.advance()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.errorf(diagnostics.ErrUnexpectedToken, "invalid integer literal %q", tok.Lexeme)
		}
		return &ast.IntLitExpr{Base: ast.NewBase(p.newID(), tok), Value: v}
	case token.FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.errorf(diagnostics.ErrUnexpectedToken, "invalid float literal %q", tok.Lexeme)
		}
		return &ast.FloatLitExpr{Base: ast.NewBase(p.newID(), tok), Value: v}
	case token.TRUE:
		p.advance()
		return &ast.BoolLitExpr{Base: ast.NewBase(p.newID(), tok), Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolLitExpr{Base: ast.NewBase(p.newID(), tok), Value: false}
	case token.NULL:
		p.advance()
		return &ast.NullLitExpr{Base: ast.NewBase(p.newID(), tok)}
	case token.STRING:
		p.advance()
		return &ast.StringLitExpr{Base: ast.NewBase(p.newID(), tok), Value: tok.Lexeme}
	case token.SELFVALUE:
		p.advance()
		return &ast.IdentExpr{Base: ast.NewBase(p.newID(), tok), Name: "self"}
	case token.BREAK:
		p.advance()
		var v ast.Expr
		if p.exprStartsHere() {
			v = p.parseExpr()
		}
		return &ast.BreakExpr{Base: ast.NewBase(p.newID(), tok), Value: v}
	case token.CONTINUE:
		p.advance()
		return &ast.ContinueExpr{Base: ast.NewBase(p.newID(), tok)}
	case token.RETURN:
		p.advance()
		var v ast.Expr
		if p.exprStartsHere() {
			v = p.parseExpr()
		}
		return &ast.ReturnExpr{Base: ast.NewBase(p.newID(), tok), Value: v}
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.LOOP:
		p.advance()
		body := p.parseBlock()
		return &ast.LoopExpr{Base: ast.NewBase(p.newID(), tok), Body: body}
	case token.LPAREN:
		p.advance()
		first := p.parseExpr()
		if p.accept(token.COMMA) {
			elems := []ast.Expr{first}
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				elems = append(elems, p.parseExpr())
				if !p.accept(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
			return &ast.TupleExpr{Base: ast.NewBase(p.newID(), tok), Elems: elems}
		}
		p.expect(token.RPAREN)
		return &ast.GroupExpr{Base: ast.NewBase(p.newID(), tok), X: first}
	case token.IDENT, token.SELFTYPE:
		return p.parseIdentOrStructLit()
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, "expected an expression, got %s %q", tok.Kind, tok.Lexeme)
		p.advance()
		return &ast.IdentExpr{Base: ast.NewBase(p.newID(), tok), Name: "{error}"}
	}
}

// parseIdentOrStructLit disambiguates a bare identifier/path from a
// struct-literal head `Name { f: v, ... }`. Dotted paths (`pkg.Name`) are
// never struct-literal heads themselves; only the final simple identifier
// position can open a `{`.
func (p *Parser) parseIdentOrStructLit() ast.Expr {
	tok := p.cur
	name := p.cur.Lexeme
	p.advance()

	if p.at(token.DOT) {
		segments := []string{name}
		for p.at(token.DOT) {
			p.advance()
			seg := p.expect(token.IDENT)
			segments = append(segments, seg.Lexeme)
		}
		return &ast.PathExpr{Base: ast.NewBase(p.newID(), tok), Segments: segments}
	}

	if p.at(token.LBRACE) && p.structLitAllowed {
		return p.parseStructLit(tok, name)
	}
	return &ast.IdentExpr{Base: ast.NewBase(p.newID(), tok), Name: name}
}

func (p *Parser) parseStructLit(tok token.Token, name string) ast.Expr {
	p.expect(token.LBRACE)
	var fields []ast.StructLitField
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		fieldName := p.expect(token.IDENT)
		p.expect(token.COLON)
		value := p.parseExpr()
		fields = append(fields, ast.StructLitField{Name: fieldName.Lexeme, Value: value})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.StructLitExpr{Base: ast.NewBase(p.newID(), tok), Name: name, Fields: fields}
}

func (p *Parser) parseBlock() *ast.BlockExpr {
	tok := p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(token.RBRACE)
	return &ast.BlockExpr{Base: ast.NewBase(p.newID(), tok), Stmts: stmts}
}

// parseIf handles `if`/`elif`/`else` chains and the `if let` pattern-match
// form (spec §4.3, §4.4), both sharing the same leading `if` keyword.
func (p *Parser) parseIf() ast.Expr {
	tok := p.expect(token.IF)
	if p.at(token.IDENT) && p.isLetKeyword() {
		p.advance() // consume `let`-as-identifier; see isLetKeyword
		pat := p.parsePattern()
		p.expect(token.ASSIGN)
		value := p.withoutStructLit(p.parseExpr)
		then := p.parseBlock()
		var els *ast.BlockExpr
		if p.accept(token.ELSE) {
			els = p.parseBlock()
		}
		return &ast.IfLetExpr{Base: ast.NewBase(p.newID(), tok), Pattern: pat, Value: value, Then: then, Else: els}
	}

	var branches []ast.IfBranch
	cond := p.withoutStructLit(p.parseExpr)
	body := p.parseBlock()
	branches = append(branches, ast.IfBranch{Cond: cond, Body: body})
	for p.accept(token.ELIF) {
		c := p.withoutStructLit(p.parseExpr)
		b := p.parseBlock()
		branches = append(branches, ast.IfBranch{Cond: c, Body: b})
	}
	var els *ast.BlockExpr
	if p.accept(token.ELSE) {
		els = p.parseBlock()
	}
	return &ast.IfExpr{Base: ast.NewBase(p.newID(), tok), Branches: branches, Else: els}
}

// isLetKeyword reports whether the current IDENT token is literally "let",
// viskum's one context-sensitive keyword (only meaningful right after
// `if`, so it is not reserved anywhere else in token.go).
func (p *Parser) isLetKeyword() bool {
	return p.cur.Kind == token.IDENT && p.cur.Lexeme == "let"
}

// exprStartsHere reports whether the current token can begin an
// expression, used to tell `return`/`break` with a value apart from the
// bare forms followed directly by `}` or `;`.
func (p *Parser) exprStartsHere() bool {
	switch p.cur.Kind {
	case token.RBRACE, token.SEMI, token.EOF, token.ELSE, token.ELIF:
		return false
	default:
		return true
	}
}

func comparisonOp(k token.Kind) (ast.BinaryOp, bool) {
	switch k {
	case token.EQ:
		return ast.Eq, true
	case token.NEQ:
		return ast.Ne, true
	case token.GE:
		return ast.Ge, true
	case token.GT:
		return ast.Gt, true
	case token.LE:
		return ast.Le, true
	case token.LT:
		return ast.Lt, true
	default:
		return 0, false
	}
}
