package ui

import (
	"fmt"
	"strings"
)

// ParseCSS parses a primitive CSS file: selectors .class or #id, optionally grouped with
// commas, and blocks of "key: value;". No combinators, no @rules. Blocks with another
// kind of selector are skipped. Later rules override earlier ones.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	s := stripCSSComments(content)
	for {
		s = strings.TrimSpace(s)
		if s == "" {
			return sheet, nil
		}
		open := strings.IndexByte(s, '{')
		if open < 0 {
			return sheet, fmt.Errorf("ui: css: trailing text %q", clip(s))
		}
		end := matchingBrace(s, open)
		if end < 0 {
			return sheet, fmt.Errorf("ui: css: unclosed block after %q", clip(s[:open]))
		}
		props := parseDeclarations(s[open+1 : end])
		for _, sel := range strings.Split(s[:open], ",") {
			sel = strings.TrimSpace(sel)
			if len(sel) < 2 || (sel[0] != '.' && sel[0] != '#') {
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
		}
		s = s[end+1:]
	}
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 24 {
		return s[:24] + "..."
	}
	return s
}

func stripCSSComments(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		s = s[start+2+end+2:]
	}
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseDeclarations(body string) map[string]string {
	props := make(map[string]string)
	for _, part := range strings.Split(body, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		if k = strings.TrimSpace(k); k != "" {
			props[k] = strings.TrimSpace(v)
		}
	}
	return props
}
