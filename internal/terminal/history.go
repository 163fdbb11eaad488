package terminal

// History keeps submitted console lines for recall with the arrow keys. The cursor
// sits past the newest line until Prev moves it back.
type History struct {
	lines []string
	max   int
	pos   int
	draft string
}

// NewHistory returns a history holding at most max lines.
func NewHistory(max int) *History {
	return &History{max: max}
}

// Add appends line, skipping an immediate repeat, and resets the cursor.
func (h *History) Add(line string) {
	if n := len(h.lines); n == 0 || h.lines[n-1] != line {
		h.lines = append(h.lines, line)
		if len(h.lines) > h.max {
			h.lines = h.lines[len(h.lines)-h.max:]
		}
	}
	h.pos = len(h.lines)
	h.draft = ""
}

// Prev moves to the previous line and returns it. current is the unsent input, kept so
// Next can restore it. At the oldest line Prev keeps returning it.
func (h *History) Prev(current string) string {
	if len(h.lines) == 0 {
		return current
	}
	if h.pos == len(h.lines) {
		h.draft = current
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.lines[h.pos]
}

// Next moves toward the newest line; past it, the saved draft comes back.
func (h *History) Next() string {
	if h.pos < len(h.lines) {
		h.pos++
	}
	if h.pos == len(h.lines) {
		return h.draft
	}
	return h.lines[h.pos]
}
