// Package deckdown is the document engine behind a slide-deck editor.
//
// A Presentation is an ordered list of Slides, each holding positioned
// ContentBlocks on a 16:9 percentage canvas. The Engine applies every
// mutation as an atomic snapshot-then-mutate step against a bounded
// history stack, so undo and redo are always available and always
// consistent with the current selection.
//
// The package is transport-agnostic. internal/server exposes the engine
// over HTTP and WebSocket, internal/storage persists documents as JSON
// rows, and internal/export serializes read-only snapshots.
package deckdown
