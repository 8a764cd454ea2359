package deckdown

// maxHistory bounds the snapshot stack. Once full, pushing drops the
// oldest entry, so the earliest states stop being reachable by undo.
const maxHistory = 50

// history is a linear, branch-discarding snapshot stack. index points
// at the entry matching the current document; pushing after an undo
// truncates everything past the cursor.
type history struct {
	snapshots []*Presentation
	index     int
}

func newHistory() *history {
	return &history{index: -1}
}

// push records a deep copy of the document as the newest entry.
func (h *history) push(p *Presentation) {
	h.snapshots = append(h.snapshots[:h.index+1], p.Clone())
	if len(h.snapshots) > maxHistory {
		h.snapshots = h.snapshots[len(h.snapshots)-maxHistory:]
	}
	h.index = len(h.snapshots) - 1
}

// undo steps the cursor back and returns a deep copy of that entry,
// or nil when already at the floor.
func (h *history) undo() *Presentation {
	if !h.canUndo() {
		return nil
	}
	h.index--
	return h.snapshots[h.index].Clone()
}

// redo steps the cursor forward and returns a deep copy of that
// entry, or nil when already at the tip.
func (h *history) redo() *Presentation {
	if !h.canRedo() {
		return nil
	}
	h.index++
	return h.snapshots[h.index].Clone()
}

// canUndo reports whether an older snapshot exists. The first entry
// is the floor state, not an undo target.
func (h *history) canUndo() bool { return h.index > 0 }

func (h *history) canRedo() bool { return h.index < len(h.snapshots)-1 }

// reset drops all entries, for loading a different document.
func (h *history) reset() {
	h.snapshots = nil
	h.index = -1
}
