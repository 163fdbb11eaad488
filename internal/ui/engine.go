// Package ui lays out the editor panels from a small CSS dialect. It knows nothing about
// the renderer: Layout returns styled boxes in screen pixels, which the graphics package
// draws, and HitTest maps a click back to the console action of the node under it.
package ui

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed editor.css
var defaultCSS string

// Box is a node placed on screen with its resolved style.
type Box struct {
	Node  *Node
	Rect  Rect
	Style ComputedStyle
}

// Engine holds the current stylesheet and the boxes of the last layout.
// Resolved styles are cached per class and id combination until the sheet changes.
type Engine struct {
	sheet *Stylesheet
	cache map[string]ComputedStyle
	boxes []Box
}

// New returns an engine using the built-in editor stylesheet.
func New() *Engine {
	e := &Engine{}
	sheet, err := ParseCSS(defaultCSS)
	if err != nil {
		panic(err)
	}
	e.SetStylesheet(sheet)
	return e
}

// LoadCSS parses the CSS file at path and appends its rules to the current stylesheet,
// so a user file only needs the properties it changes.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return fmt.Errorf("ui: %s: %w", path, err)
	}
	merged := &Stylesheet{}
	if e.sheet != nil {
		merged.Rules = append(merged.Rules, e.sheet.Rules...)
	}
	merged.Rules = append(merged.Rules, sheet.Rules...)
	e.SetStylesheet(merged)
	return nil
}

// SetStylesheet replaces the stylesheet.
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.cache = make(map[string]ComputedStyle)
}

// Stylesheet returns the current stylesheet (may be nil).
func (e *Engine) Stylesheet() *Stylesheet {
	return e.sheet
}

// Style resolves the style of n: rules matching one of its classes or its id, in sheet order.
func (e *Engine) Style(n *Node) ComputedStyle {
	key := n.Class + "#" + n.ID
	if s, ok := e.cache[key]; ok {
		return s
	}
	merged := make(map[string]string)
	if e.sheet != nil {
		for _, rule := range e.sheet.Rules {
			sel := rule.Selector
			if (sel[0] == '.' && n.HasClass(sel[1:])) || (sel[0] == '#' && n.ID == sel[1:]) {
				for k, v := range rule.Props {
					merged[k] = v
				}
			}
		}
	}
	s := ResolveProps(merged)
	e.cache[key] = s
	return s
}

// StyleOf resolves the style of a node with the given classes.
func (e *Engine) StyleOf(class string) ComputedStyle {
	return e.Style(&Node{Class: class})
}

// Layout places nodes on a screen of the given size. Nodes are returned in draw order.
func (e *Engine) Layout(nodes []*Node, screenW, screenH int) []Box {
	e.boxes = e.boxes[:0]
	for _, n := range nodes {
		st := e.Style(n)
		r := n.Bounds
		if st.Width > 0 {
			r.W = float32(st.Width)
		}
		if st.Height > 0 {
			r.H = float32(st.Height)
		}
		if st.HasLeft {
			r.X = float32(st.Left)
			if st.LeftPct >= 0 {
				r.X = (float32(screenW) - r.W) * float32(st.LeftPct) / 100
			}
		}
		if st.HasTop {
			r.Y = float32(st.Top)
			if st.TopPct >= 0 {
				r.Y = (float32(screenH) - r.H) * float32(st.TopPct) / 100
			}
		}
		e.boxes = append(e.boxes, Box{Node: n, Rect: r, Style: st})
	}
	return e.boxes
}

// HitTest returns the topmost node with an action under (x, y) in the last layout.
func (e *Engine) HitTest(x, y float32) (*Node, bool) {
	for i := len(e.boxes) - 1; i >= 0; i-- {
		b := e.boxes[i]
		if b.Node.Action != "" && b.Rect.Contains(x, y) {
			return b.Node, true
		}
	}
	return nil, false
}

// Covers reports whether (x, y) lies on any box with a background in the last layout.
// Clicks there belong to the UI, not the 3D view.
func (e *Engine) Covers(x, y float32) bool {
	for _, b := range e.boxes {
		if (b.Style.Background.A > 0 || b.Node.Action != "") && b.Rect.Contains(x, y) {
			return true
		}
	}
	return false
}
