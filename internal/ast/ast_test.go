package ast

import "testing"

func TestArenaAssignsSequentialIds(t *testing.T) {
	a := NewArena(3)
	id0 := a.NextID()
	id1 := a.NextID()
	if id0.Mod != 3 || id1.Mod != 3 {
		t.Fatalf("expected both ids to carry mod 3, got %v %v", id0, id1)
	}
	if id1.Local != id0.Local+1 {
		t.Fatalf("expected sequential local indices, got %d then %d", id0.Local, id1.Local)
	}
}

func TestIntLitExprSatisfiesExpr(t *testing.T) {
	var e Expr = &IntLitExpr{Value: 42}
	if _, ok := e.(*IntLitExpr); !ok {
		t.Fatalf("expected IntLitExpr to satisfy Expr")
	}
}
