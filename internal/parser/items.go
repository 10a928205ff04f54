package parser

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/token"
)

// parseImport parses `import path [, path]* [from path]` (spec §6).
func (p *Parser) parseImport() *ast.ImportItem {
	tok := p.expect(token.IMPORT)
	var paths []string
	for {
		seg := p.parseDottedPath()
		paths = append(paths, seg)
		if !p.accept(token.COMMA) {
			break
		}
	}
	from := ""
	if p.accept(token.FROM) {
		from = p.parseDottedPath()
	}
	p.acceptStmtEnd()
	return &ast.ImportItem{Base: ast.NewBase(p.newID(), tok), Paths: paths, From: from}
}

func (p *Parser) parseDottedPath() string {
	seg := p.expect(token.IDENT).Lexeme
	for p.at(token.DOT) {
		p.advance()
		seg += "." + p.expect(token.IDENT).Lexeme
	}
	return seg
}

// parseItem dispatches on the leading keyword of a package-scope item
// (spec §6, "Items"). Returns nil (without advancing) when the current
// token cannot start an item so ParseFile's caller can apply its own
// recovery.
func (p *Parser) parseItem() ast.Item {
	switch p.cur.Kind {
	case token.FN:
		return p.parseFn("")
	case token.DECLARE:
		return p.parseDeclareFn()
	case token.STRUCT:
		return p.parseStruct()
	case token.ENUM:
		return p.parseEnum()
	case token.TYPEDEF:
		return p.parseTypedef()
	case token.IMPL:
		return p.parseImpl()
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, "expected an item, got %s %q", p.cur.Kind, p.cur.Lexeme)
		return nil
	}
}

// parseFn parses `fn [.C] name(params) [ret] { body }`. implTarget is set
// by parseImpl when this FnItem is a method.
func (p *Parser) parseFn(implTarget string) *ast.FnItem {
	tok := p.expect(token.FN)
	isCABI := p.accept(token.DOTC)
	name := p.expect(token.IDENT)
	params := p.parseParams()
	var ret ast.TypeExpr
	if !p.at(token.LBRACE) {
		ret = p.parseType()
	}
	body := p.parseBlock()

	return &ast.FnItem{
		Base:       ast.NewBase(p.newID(), tok),
		Name:       name.Lexeme,
		Params:     params,
		Ret:        ret,
		Body:       body.Stmts,
		IsCABI:     isCABI,
		IsMain:     name.Lexeme == "main" && implTarget == "",
		ImplTarget: implTarget,
	}
}

// parseDeclareFn parses `declare fn name(arg ty, ...) [ret]`: an extern
// prototype with no body, optionally ending in a `...` variadic marker.
func (p *Parser) parseDeclareFn() *ast.DeclareFnItem {
	tok := p.expect(token.DECLARE)
	p.expect(token.FN)
	name := p.expect(token.IDENT)
	p.expect(token.LPAREN)

	var params []ast.Param
	variadic := false
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		if p.at(token.ELLIPSIS) {
			p.advance()
			variadic = true
			break
		}
		pid := p.newID()
		pname := p.expect(token.IDENT)
		pty := p.parseType()
		params = append(params, ast.Param{NodeID: pid, Name: pname.Lexeme, Type: pty})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)

	var ret ast.TypeExpr
	if !p.at(token.SEMI) && !p.at(token.EOF) && !p.at(token.RBRACE) {
		ret = p.parseType()
	}
	p.acceptStmtEnd()

	return &ast.DeclareFnItem{Base: ast.NewBase(p.newID(), tok), Name: name.Lexeme, Params: params, Variadic: variadic, Ret: ret}
}

// parseParams parses a fn's parenthesized parameter list, including the
// `self`/`*self`/`mut self`/`*mut self` receiver form (spec §4.2).
func (p *Parser) parseParams() []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		params = append(params, p.parseParam())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseParam() ast.Param {
	id := p.newID()

	if p.at(token.STAR) {
		p.advance()
		mut := false
		if p.at(token.MUT) {
			p.advance()
			mut = true
		}
		p.expect(token.SELFVALUE)
		return ast.Param{NodeID: id, Name: "self", IsSelf: true, SelfPtr: true, SelfMut: mut}
	}
	if p.at(token.MUT) && p.peek.Kind == token.SELFVALUE {
		p.advance()
		p.advance()
		return ast.Param{NodeID: id, Name: "self", IsSelf: true, SelfMut: true}
	}
	if p.at(token.SELFVALUE) {
		p.advance()
		return ast.Param{NodeID: id, Name: "self", IsSelf: true}
	}

	name := p.expect(token.IDENT)
	ty := p.parseType()
	return ast.Param{NodeID: id, Name: name.Lexeme, Type: ty}
}

// parseStruct parses `struct Name { field ty, ... }`.
func (p *Parser) parseStruct() *ast.StructItem {
	tok := p.expect(token.STRUCT)
	name := p.expect(token.IDENT)
	p.expect(token.LBRACE)
	var fields []ast.StructFieldDecl
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		fid := p.newID()
		fname := p.expect(token.IDENT)
		fty := p.parseType()
		fields = append(fields, ast.StructFieldDecl{NodeID: fid, Name: fname.Lexeme, Type: fty})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.StructItem{Base: ast.NewBase(p.newID(), tok), Name: name.Lexeme, Fields: fields}
}

// parseEnum parses `enum Name { Variant, Variant(T, ...), ... }`.
func (p *Parser) parseEnum() *ast.EnumItem {
	tok := p.expect(token.ENUM)
	name := p.expect(token.IDENT)
	p.expect(token.LBRACE)
	var variants []ast.EnumVariantDecl
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		vid := p.newID()
		vname := p.expect(token.IDENT)
		var fields []ast.TypeExpr
		if p.accept(token.LPAREN) {
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				fields = append(fields, p.parseType())
				if !p.accept(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
		}
		variants = append(variants, ast.EnumVariantDecl{NodeID: vid, Name: vname.Lexeme, Fields: fields})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.EnumItem{Base: ast.NewBase(p.newID(), tok), Name: name.Lexeme, Variants: variants}
}

// parseTypedef parses `typedef Name ty`.
func (p *Parser) parseTypedef() *ast.TypedefItem {
	tok := p.expect(token.TYPEDEF)
	name := p.expect(token.IDENT)
	ty := p.parseType()
	p.acceptStmtEnd()
	return &ast.TypedefItem{Base: ast.NewBase(p.newID(), tok), Name: name.Lexeme, Type: ty}
}

// parseImpl parses `impl Target { fn ... }`, threading Target into each
// contained FnItem so the resolver can register it under a TraitImplId
// (SPEC_FULL.md §3.5).
func (p *Parser) parseImpl() *ast.ImplItem {
	tok := p.expect(token.IMPL)
	target := p.expect(token.IDENT)
	p.expect(token.LBRACE)
	var methods []*ast.FnItem
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if !p.at(token.FN) {
			p.errorf(diagnostics.ErrUnexpectedToken, "expected fn inside impl, got %s", p.cur.Kind)
			p.advance()
			continue
		}
		methods = append(methods, p.parseFn(target.Lexeme))
	}
	p.expect(token.RBRACE)
	return &ast.ImplItem{Base: ast.NewBase(p.newID(), tok), Target: target.Lexeme, Methods: methods}
}
