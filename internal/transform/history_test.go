package transform

import (
	"reflect"
	"testing"
)

func TestEmptyHistory(t *testing.T) {
	var h History
	if h.Cursor() != -1 || h.Len() != 0 {
		t.Errorf("zero history cursor=%d len=%d, want -1/0", h.Cursor(), h.Len())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history should not allow undo or redo")
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo on empty history should be a no-op")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo on empty history should be a no-op")
	}
	if _, ok := h.Current(); ok {
		t.Error("Current on empty history should report false")
	}

	h.Commit(State{110, 0})
	if h.Cursor() != 0 || h.Len() != 1 {
		t.Errorf("after first commit cursor=%d len=%d", h.Cursor(), h.Len())
	}
}

func TestUndoWalksBackToInitial(t *testing.T) {
	h := NewHistory(Default())
	states := []State{{110, 0}, {120, 10}, {130, 20}, {140, 30}}
	for _, s := range states {
		h.Commit(s)
	}

	for i := len(states) - 2; i >= -1; i-- {
		got, ok := h.Undo()
		if !ok {
			t.Fatalf("Undo failed at step %d", i)
		}
		want := Default()
		if i >= 0 {
			want = states[i]
		}
		if got != want {
			t.Fatalf("Undo = %+v, want %+v", got, want)
		}
	}

	if h.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", h.Cursor())
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo at cursor 0 should be a no-op")
	}
	if cur, _ := h.Current(); cur != Default() {
		t.Errorf("state changed by no-op undo: %+v", cur)
	}
}

func TestRedoRestoresAndCommitPrunes(t *testing.T) {
	h := NewHistory(Default())
	h.Commit(State{120, 0})
	h.Commit(State{120, 90})

	h.Undo()
	got, ok := h.Redo()
	if !ok || got != (State{120, 90}) {
		t.Fatalf("Redo = %+v, %v; want {120 90}", got, ok)
	}

	h.Undo()
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("CanRedo should be true after undo")
	}
	h.Commit(State{80, 0})

	if h.CanRedo() {
		t.Error("CanRedo should be false after committing on a branch")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo after branch commit should be a no-op")
	}
	want := []State{Default(), {80, 0}}
	if !reflect.DeepEqual(h.Entries(), want) {
		t.Errorf("entries = %+v, want %+v", h.Entries(), want)
	}
}

func TestCanUndoCanRedoBoundaries(t *testing.T) {
	h := NewHistory(Default())
	h.Commit(State{120, 0})
	h.Commit(State{130, 0})

	tests := []struct {
		step           func()
		cursor         int
		canUndo, canRd bool
	}{
		{func() {}, 2, true, false},
		{func() { h.Undo() }, 1, true, true},
		{func() { h.Undo() }, 0, false, true},
		{func() { h.Redo() }, 1, true, true},
		{func() { h.Redo() }, 2, true, false},
	}
	for i, tt := range tests {
		tt.step()
		if h.Cursor() != tt.cursor || h.CanUndo() != tt.canUndo || h.CanRedo() != tt.canRd {
			t.Errorf("step %d: cursor=%d canUndo=%v canRedo=%v, want %d %v %v",
				i, h.Cursor(), h.CanUndo(), h.CanRedo(), tt.cursor, tt.canUndo, tt.canRd)
		}
	}
}

func TestReset(t *testing.T) {
	var h History
	if h.Len() != 0 || h.Cursor() != -1 {
		t.Errorf("zero history len=%d cursor=%d, want 0/-1", h.Len(), h.Cursor())
	}
	h.Reset(Default())
	h.Commit(State{150, 180})
	h.Reset(Default())
	if h.Len() != 1 || h.Cursor() != 0 {
		t.Errorf("after Reset len=%d cursor=%d, want 1/0", h.Len(), h.Cursor())
	}
}

func TestEntriesIsACopy(t *testing.T) {
	h := NewHistory(Default())
	e := h.Entries()
	e[0] = State{1, 1}
	if cur, _ := h.Current(); cur != Default() {
		t.Errorf("mutating Entries() leaked into history: %+v", cur)
	}
}
