package parser

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/token"
)

// parseType parses one type expression (spec §6, "Type expressions").
func (p *Parser) parseType() ast.TypeExpr {
	tok := p.cur
	switch {
	case p.at(token.STAR):
		p.advance()
		mut := ir.Immutable
		if p.at(token.MUT) {
			p.advance()
			mut = ir.Mutable
		}
		elem := p.parseType()
		return &ast.PtrTypeExpr{Base: ast.NewBase(p.newID(), tok), Elem: elem, Mut: mut}
	case p.at(token.LBRACKET):
		p.advance()
		p.expect(token.STAR)
		p.expect(token.RBRACKET)
		elem := p.parseType()
		return &ast.ManyPtrTypeExpr{Base: ast.NewBase(p.newID(), tok), Elem: elem}
	case p.at(token.LPAREN):
		p.advance()
		var elems []ast.TypeExpr
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			elems = append(elems, p.parseType())
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		return &ast.TupleTypeExpr{Base: ast.NewBase(p.newID(), tok), Elems: elems}
	case p.at(token.FN):
		p.advance()
		p.expect(token.LPAREN)
		var params []ast.TypeExpr
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			params = append(params, p.parseType())
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		var ret ast.TypeExpr
		if !p.at(token.LBRACE) && !p.at(token.SEMI) && !p.at(token.RPAREN) && !p.at(token.COMMA) {
			ret = p.parseType()
		}
		return &ast.FnTypeExpr{Base: ast.NewBase(p.newID(), tok), Params: params, Ret: ret}
	case p.at(token.ELLIPSIS):
		p.advance()
		return &ast.VariadicTypeExpr{Base: ast.NewBase(p.newID(), tok)}
	case p.at(token.SELFTYPE):
		p.advance()
		return &ast.IdentTypeExpr{Base: ast.NewBase(p.newID(), tok), Name: "Self"}
	case p.at(token.IDENT):
		p.advance()
		return &ast.IdentTypeExpr{Base: ast.NewBase(p.newID(), tok), Name: tok.Lexeme}
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, "expected a type, got %s", p.cur.Kind)
		p.advance()
		return &ast.IdentTypeExpr{Base: ast.NewBase(p.newID(), tok), Name: "{error}"}
	}
}
