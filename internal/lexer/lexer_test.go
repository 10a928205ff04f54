package lexer

import (
	"testing"

	"github.com/viskum-lang/viskumc/internal/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `fn main() { a := 1 + 2 * 3; return }`

	want := []token.Kind{
		token.FN, token.IDENT, token.LPAREN, token.RPAREN, token.LBRACE,
		token.IDENT, token.DEFINE, token.INT, token.PLUS, token.INT, token.STAR, token.INT,
		token.SEMI, token.RETURN, token.RBRACE, token.EOF,
	}

	l := New(input)
	for i, wantKind := range want {
		tok := l.NextToken()
		if tok.Kind != wantKind {
			t.Fatalf("token %d: got %s, want %s", i, tok.Kind, wantKind)
		}
	}
}

func TestNextTokenDotCMarker(t *testing.T) {
	l := New(`fn .C printf(fmt str, ...)`)
	kinds := []token.Kind{token.FN, token.DOTC, token.IDENT, token.LPAREN}
	for i, want := range kinds {
		if got := l.NextToken().Kind; got != want {
			t.Fatalf("token %d: got %s, want %s", i, got, want)
		}
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	l := New(`"hi\n"`)
	tok := l.NextToken()
	if tok.Kind != token.STRING {
		t.Fatalf("got %s, want STRING", tok.Kind)
	}
	if tok.Lexeme != `hi\n` {
		t.Fatalf("got %q, want %q", tok.Lexeme, `hi\n`)
	}
}

func TestNextTokenUnterminatedString(t *testing.T) {
	l := New(`"hi`)
	tok := l.NextToken()
	if tok.Kind != token.UNTERMINATED_STRING {
		t.Fatalf("got %s, want UNTERMINATED_STRING", tok.Kind)
	}
	if tok.Lexeme != "hi" {
		t.Fatalf("got %q, want %q", tok.Lexeme, "hi")
	}
}

func TestNextTokenManyPointerType(t *testing.T) {
	l := New(`[*]int`)
	kinds := []token.Kind{token.LBRACKET, token.STAR, token.RBRACKET, token.IDENT, token.EOF}
	for i, want := range kinds {
		if got := l.NextToken().Kind; got != want {
			t.Fatalf("token %d: got %s, want %s", i, got, want)
		}
	}
}
