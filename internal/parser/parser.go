// Package parser turns a Token stream into an ast.Program. It is an
// external collaborator of the semantic core (spec §1): only its output
// shape (a Program of typed AST nodes with NodeIds already assigned)
// matters to the passes downstream. Grounded on funxy's internal/parser
// package split (processor.go driving per-concern files:
// expressions_*.go, statements_*.go) and on the concrete grammar in
// original_source/src/parser/src/lib.rs.
package parser

import (
	"github.com/viskum-lang/viskumc/internal/ast"
	"github.com/viskum-lang/viskumc/internal/diagnostics"
	"github.com/viskum-lang/viskumc/internal/ir"
	"github.com/viskum-lang/viskumc/internal/lexer"
	"github.com/viskum-lang/viskumc/internal/token"
)

// Parser holds the state of one file's parse.
type Parser struct {
	file  string
	lex   *lexer.Lexer
	arena *ast.Arena
	diags *diagnostics.Bag

	cur  token.Token
	peek token.Token

	// structLitAllowed is false while parsing the condition of an
	// `if`/`elif`, where a bare `{` must open the branch body rather than
	// a struct literal (spec §6, the same ambiguity Go itself resolves by
	// banning struct literals in if/for/switch headers).
	structLitAllowed bool
}

// New creates a Parser over src, minting NodeIds tagged with mod.
func New(file, src string, mod ir.ModId, diags *diagnostics.Bag) *Parser {
	p := &Parser{
		file:             file,
		lex:              lexer.New(src),
		arena:            ast.NewArena(mod),
		diags:            diags,
		structLitAllowed: true,
	}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
	if p.peek.Kind == token.UNTERMINATED_STRING {
		p.diags.Addf(diagnostics.ErrUnterminatedLiteral, p.span(p.peek), "unterminated string literal")
		p.peek = token.Token{Kind: token.EOF, ByteOff: p.peek.ByteOff, Line: p.peek.Line}
	}
}

func (p *Parser) span(tok token.Token) diagnostics.Span {
	return diagnostics.SpanOf(tok)
}

func (p *Parser) errorf(kind diagnostics.Kind, format string, args ...any) {
	p.diags.Addf(kind, p.span(p.cur), format, args...)
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches k, otherwise records an
// UnexpectedToken diagnostic and does not advance (so the caller can
// attempt local recovery, per spec §7: "prefer to continue after emitting
// an error").
func (p *Parser) expect(k token.Kind) token.Token {
	tok := p.cur
	if !p.at(k) {
		p.errorf(diagnostics.ErrUnexpectedToken, "expected %s, got %s %q", k, p.cur.Kind, p.cur.Lexeme)
		return tok
	}
	p.advance()
	return tok
}

// ParseFile parses the whole file into an ast.Program.
func (p *Parser) ParseFile() *ast.Program {
	prog := &ast.Program{File: p.file, Mod: p.arena.Mod(), Phase: ast.PhaseParsed}

	for !p.at(token.EOF) {
		if p.at(token.IMPORT) {
			prog.Imports = append(prog.Imports, p.parseImport())
			continue
		}
		item := p.parseItem()
		if item != nil {
			prog.Items = append(prog.Items, item)
		} else {
			// Avoid infinite loop on unrecoverable garbage.
			p.advance()
		}
	}
	return prog
}

// newID mints a NodeId for the node about to be built from tok.
func (p *Parser) newID() ir.NodeId { return p.arena.NextID() }

// withoutStructLit runs parse with struct-literal heads disabled, for the
// condition position of if/elif where a following `{` must open the
// branch body.
func (p *Parser) withoutStructLit(parse func() ast.Expr) ast.Expr {
	save := p.structLitAllowed
	p.structLitAllowed = false
	x := parse()
	p.structLitAllowed = save
	return x
}
