package parser

import (
	"strconv"

	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/token"
)

// parsePattern parses the pattern half of `if let P = E { ... }` (spec §6,
// §4.3 "Pattern matching"): a bare identifier binding, or a dotted
// tuple-struct pattern `Path.Segment(sub, ...)`.
func (p *Parser) parsePattern() ast.Pattern {
	tok := p.cur
	if !p.at(token.IDENT) {
		p.errorf(diagnostics.ErrUnexpectedToken, "expected a pattern, got %s", p.cur.Kind)
		p.advance()
		return &ast.IdentPat{Base: ast.NewBase(p.newID(), tok), Name: "{error}"}
	}

	path := []string{p.cur.Lexeme}
	p.advance()
	for p.at(token.DOT) {
		p.advance()
		seg := p.expect(token.IDENT)
		path = append(path, seg.Lexeme)
	}

	if !p.at(token.LPAREN) {
		if len(path) == 1 {
			return &ast.IdentPat{Base: ast.NewBase(p.newID(), tok), Name: path[0]}
		}
		return &ast.TupleStructPat{Base: ast.NewBase(p.newID(), tok), Path: path}
	}

	p.advance() // consume '('
	var subs []ast.Pattern
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		subs = append(subs, p.parseSubPattern())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return &ast.TupleStructPat{Base: ast.NewBase(p.newID(), tok), Path: path, SubPats: subs}
}

// parseSubPattern parses one element inside a tuple-struct pattern's
// parens: either a nested tuple-struct pattern or a plain binding name.
func (p *Parser) parseSubPattern() ast.Pattern {
	return p.parsePattern()
}

// parseTupleIndex converts an INT token's lexeme (used after `.` in a
// tuple-field access, e.g. `t.0`) into an index.
func parseTupleIndex(lexeme string) int {
	n, err := strconv.Atoi(lexeme)
	if err != nil {
		return 0
	}
	return n
}
