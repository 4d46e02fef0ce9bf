package transform

// History is a linear undo/redo log of committed states.
//
// The cursor indexes the current entry, or is -1 when the log is empty.
// Committing while the cursor is behind the tail discards the redo branch.
// The zero value is an empty history.
type History struct {
	entries []State
	cursor  int
}

// NewHistory returns a history holding only initial.
func NewHistory(initial State) *History {
	h := &History{}
	h.Reset(initial)
	return h
}

func (h *History) pos() int {
	if len(h.entries) == 0 {
		return -1
	}
	return h.cursor
}

// Commit prunes everything after the cursor, appends s and moves the cursor
// to the new tail.
func (h *History) Commit(s State) {
	h.entries = append(h.entries[:h.pos()+1], s)
	h.cursor = len(h.entries) - 1
}

// Undo steps back one entry. At the first entry it is a no-op and ok is false.
func (h *History) Undo() (s State, ok bool) {
	if h.pos() <= 0 {
		return State{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo steps forward one entry. At the tail it is a no-op and ok is false.
func (h *History) Redo() (s State, ok bool) {
	if h.pos() >= len(h.entries)-1 {
		return State{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

func (h *History) CanUndo() bool { return h.pos() > 0 }
func (h *History) CanRedo() bool { return h.pos() < len(h.entries)-1 }

// Reset replaces the log with [initial] and the cursor with 0.
func (h *History) Reset(initial State) {
	h.entries = append(h.entries[:0], initial)
	h.cursor = 0
}

// Current returns the entry under the cursor.
func (h *History) Current() (State, bool) {
	if h.pos() < 0 {
		return State{}, false
	}
	return h.entries[h.cursor], true
}

func (h *History) Len() int    { return len(h.entries) }
func (h *History) Cursor() int { return h.pos() }

// Entries returns a copy of the log.
func (h *History) Entries() []State {
	out := make([]State, len(h.entries))
	copy(out, h.entries)
	return out
}
