package deckdown

import (
	"encoding/json"
	"fmt"
)

// BlockType discriminates the content block union. The set is closed:
// unknown types are rejected at validation and update time.
type BlockType string

const (
	BlockText     BlockType = "text"
	BlockImage    BlockType = "image"
	BlockList     BlockType = "list"
	BlockChart    BlockType = "chart"
	BlockIconList BlockType = "icon-list"
	BlockQuote    BlockType = "quote"
	BlockTimeline BlockType = "timeline"
	BlockDiagram  BlockType = "diagram"
)

// TextStyle selects the typographic role of a text block.
type TextStyle string

const (
	StyleTitle    TextStyle = "title"
	StyleSubtitle TextStyle = "subtitle"
	StyleHeading  TextStyle = "heading"
	StyleBody     TextStyle = "body"
	StyleCaption  TextStyle = "caption"
)

// TextAlign selects horizontal alignment of a text block.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// ListVariant selects the marker style of a list block.
type ListVariant string

const (
	ListBullet    ListVariant = "bullet"
	ListNumbered  ListVariant = "numbered"
	ListChecklist ListVariant = "checklist"
)

// ObjectFit selects how an image fills its block rectangle.
type ObjectFit string

const (
	FitCover   ObjectFit = "cover"
	FitContain ObjectFit = "contain"
	FitFill    ObjectFit = "fill"
)

// ChartKind selects how a chart block's data points are drawn.
type ChartKind string

const (
	ChartBar   ChartKind = "bar"
	ChartLine  ChartKind = "line"
	ChartPie   ChartKind = "pie"
	ChartDonut ChartKind = "donut"
)

// Orientation selects the axis a timeline block runs along.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// DiagramKind selects the arrangement of a diagram block's items.
type DiagramKind string

const (
	DiagramCycle     DiagramKind = "cycle"
	DiagramPyramid   DiagramKind = "pyramid"
	DiagramFunnel    DiagramKind = "funnel"
	DiagramFlowchart DiagramKind = "flowchart"
	DiagramVenn      DiagramKind = "venn"
)

// Rect positions a block on the slide canvas. All values are
// percentages of the 16:9 canvas, not pixels, so documents scale to
// any rendering surface.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Item is a sub-record of list, icon-list, timeline and diagram
// blocks. Each variant uses a subset of the fields; every item carries
// its own unique ID so later per-item edits can address it.
type Item struct {
	ID          string `json:"id"`
	Text        string `json:"text,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Label       string `json:"label,omitempty"`
}

// DataPoint is one labeled value in a chart block. Color overrides the
// theme's series color when set.
type DataPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// ContentBlock is one positioned element on a slide. Type selects
// which of the variant fields are meaningful; the rest stay at their
// zero value and are omitted from the wire form.
type ContentBlock struct {
	ID       string    `json:"id"`
	Type     BlockType `json:"type"`
	Position Rect      `json:"position"`

	// text
	Content string    `json:"content,omitempty"`
	Style   TextStyle `json:"style,omitempty"`
	Align   TextAlign `json:"align,omitempty"`

	// image
	Src       string    `json:"src,omitempty"`
	Alt       string    `json:"alt,omitempty"`
	Query     string    `json:"query,omitempty"`
	ObjectFit ObjectFit `json:"objectFit,omitempty"`

	// list, icon-list, timeline, diagram
	Items   []Item      `json:"items,omitempty"`
	Variant ListVariant `json:"variant,omitempty"`

	// icon-list
	Columns int `json:"columns,omitempty"`

	// timeline
	Orientation Orientation `json:"orientation,omitempty"`

	// chart
	ChartType ChartKind   `json:"chartType,omitempty"`
	Data      []DataPoint `json:"data,omitempty"`
	Title     string      `json:"title,omitempty"`

	// quote
	Quote       string `json:"quote,omitempty"`
	Attribution string `json:"attribution,omitempty"`

	// diagram
	DiagramType DiagramKind `json:"diagramType,omitempty"`
}

// blockFields lists the writable field names per block type. Position
// is writable on every type; id and type are never writable.
var blockFields = map[BlockType]map[string]bool{
	BlockText:     {"position": true, "content": true, "style": true, "align": true},
	BlockImage:    {"position": true, "src": true, "alt": true, "query": true, "objectFit": true},
	BlockList:     {"position": true, "items": true, "variant": true},
	BlockChart:    {"position": true, "chartType": true, "data": true, "title": true},
	BlockIconList: {"position": true, "items": true, "columns": true},
	BlockQuote:    {"position": true, "quote": true, "attribution": true},
	BlockTimeline: {"position": true, "items": true, "orientation": true},
	BlockDiagram:  {"position": true, "diagramType": true, "items": true},
}

// ValidBlockType reports whether t is a member of the closed block
// type set.
func ValidBlockType(t BlockType) bool {
	_, ok := blockFields[t]
	return ok
}

// applyFields merges a partial field map into the block. Unknown
// fields, fields belonging to another block type, and the immutable
// id/type fields are rejected before anything is written.
func (b *ContentBlock) applyFields(fields map[string]interface{}) error {
	allowed, ok := blockFields[b.Type]
	if !ok {
		return fmt.Errorf("unknown block type %q", b.Type)
	}
	for name := range fields {
		if name == "id" || name == "type" {
			return fmt.Errorf("field %q of block %s is immutable", name, b.ID)
		}
		if !allowed[name] {
			return fmt.Errorf("field %q is not valid for %s block %s", name, b.Type, b.ID)
		}
	}

	// Item and data updates replace the whole collection; clearing
	// first keeps the decoder from merging into the old elements.
	if _, ok := fields["items"]; ok {
		b.Items = nil
	}
	if _, ok := fields["data"]; ok {
		b.Data = nil
	}

	// Merge through JSON so nested values (position, items, data)
	// decode with the same rules as the wire form.
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode block update: %w", err)
	}
	if err := json.Unmarshal(raw, b); err != nil {
		return fmt.Errorf("failed to apply block update: %w", err)
	}
	return nil
}

// CloneBlock deep-copies a block and assigns fresh IDs to the block
// and every item inside it, so the copy can coexist with the original
// anywhere in the document.
func CloneBlock(b ContentBlock) ContentBlock {
	clone := b
	clone.ID = NewID("block")
	if b.Items != nil {
		clone.Items = make([]Item, len(b.Items))
		for i, it := range b.Items {
			it.ID = NewID("item")
			clone.Items[i] = it
		}
	}
	if b.Data != nil {
		clone.Data = append([]DataPoint(nil), b.Data...)
	}
	return clone
}
