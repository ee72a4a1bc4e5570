package ast

import "testing"

func TestNewTreeEmpty(t *testing.T) {
	tree := NewTree()
	if tree.Root != None {
		t.Errorf("expected a fresh tree to have no root, got %d", tree.Root)
	}
	if tree.Len() != 0 {
		t.Errorf("expected a fresh tree to have 0 nodes, got %d", tree.Len())
	}
}

func TestNewAppendsAndReturnsIndex(t *testing.T) {
	tree := NewTree()
	i0 := tree.New(ColName, "a")
	i1 := tree.New(ColName, "b")
	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected sequential indices 0, 1, got %d, %d", i0, i1)
	}
	if tree.Len() != 2 {
		t.Errorf("expected 2 nodes, got %d", tree.Len())
	}
}

func TestAtReturnsMutableNode(t *testing.T) {
	tree := NewTree()
	idx := tree.New(ColName, "a")
	tree.At(idx).Left = 99
	if tree.At(idx).Left != 99 {
		t.Errorf("expected mutation through At to stick, got %d", tree.At(idx).Left)
	}
}

func TestGetReportsMissingNode(t *testing.T) {
	tree := NewTree()
	if _, ok := tree.Get(None); ok {
		t.Error("expected Get(None) to report absence")
	}
	idx := tree.New(ColName, "a")
	node, ok := tree.Get(idx)
	if !ok || node.Lexeme != "a" {
		t.Errorf("expected Get to return the node at idx, got %+v, %v", node, ok)
	}
}
