package tree

import (
	"testing"
)

func buildTree() *Node[string] {
	root := NewNode("html")
	head := NewNode("head")
	body := NewNode("body")
	root.AddChild(head).AddChild(body)
	body.AddChild(NewNode("p")).AddChild(NewNode("div"))
	head.AddChild(NewNode("style"))
	return root
}

func TestNodeAddChild(t *testing.T) {
	root := buildTree()
	if root.ChildCount() != 2 {
		t.Fatalf("expected root to have 2 children, has %d", root.ChildCount())
	}
	body := root.Children()[1]
	if body.Payload != "body" {
		t.Fatalf("expected child #1 to be body, is %v", body)
	}
	if body.Parent() != root {
		t.Errorf("expected parent of body to be root, isn't")
	}
	if len(body.Children()) != 2 {
		t.Errorf("expected body to have 2 children, has %d", len(body.Children()))
	}
}

func TestNodeAllPreorder(t *testing.T) {
	root := buildTree()
	var order []string
	for n := range root.All() {
		order = append(order, n.Payload)
	}
	expected := []string{"html", "head", "style", "body", "p", "div"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d nodes, have %v", len(expected), order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("expected node #%d to be %s, is %s", i, expected[i], order[i])
		}
	}
}

func TestNodeAllEarlyExit(t *testing.T) {
	root := buildTree()
	cnt := 0
	for n := range root.All() {
		cnt++
		if n.Payload == "style" {
			break
		}
	}
	if cnt != 3 {
		t.Errorf("expected iteration to stop after 3 nodes, visited %d", cnt)
	}
}
