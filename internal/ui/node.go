package ui

import "strings"

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Node is a single UI element: panel, label, button. Class may hold several
// space-separated classes for CSS matching. Bounds is the position the panel code chose;
// CSS size and position properties override it.
type Node struct {
	Type   string
	Class  string
	ID     string
	Bounds Rect
	Text   string
	// Action is the console line run when the node is clicked. Empty means inert.
	Action string
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}

// HasClass reports whether c is one of the node's classes.
func (n *Node) HasClass(c string) bool {
	for _, have := range strings.Fields(n.Class) {
		if have == c {
			return true
		}
	}
	return false
}
