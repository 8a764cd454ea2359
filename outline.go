package deckdown

import (
	"fmt"
	"time"
)

// Outline bounds. Generated decks stay small enough to review in one
// sitting, and per-slide bullets stay readable on a 16:9 canvas.
const (
	MaxOutlineSlides  = 20
	MaxOutlineBullets = 6
)

// outlineLayouts is the layout subset outline producers may emit.
// The richer layouts (comparison, three-column) only exist for hand
// editing.
var outlineLayouts = map[SlideLayout]bool{
	LayoutTitle:             true,
	LayoutTitleContent:      true,
	LayoutTwoColumn:         true,
	LayoutContentImageRight: true,
	LayoutSectionHeader:     true,
	LayoutBlank:             true,
}

// OutlineSlide is one planned slide in an outline: a heading, its
// bullet points, a layout hint and an optional image query.
type OutlineSlide struct {
	Title        string      `json:"title"`
	Bullets      []string    `json:"bullets"`
	Layout       SlideLayout `json:"layout"`
	ImageQuery   string      `json:"imageQuery,omitempty"`
	SpeakerNotes string      `json:"speakerNotes,omitempty"`
}

// Outline is the validated deck plan consumed at the generation
// boundary and produced by the markdown importer.
type Outline struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	ThemeID     string         `json:"theme,omitempty"`
	Slides      []OutlineSlide `json:"slides"`
}

// Validate checks the outline against the bounds above. Callers at
// the generation boundary fall back to deterministic defaults when
// validation fails.
func (o *Outline) Validate() error {
	if o.Title == "" {
		return fmt.Errorf("outline has no title")
	}
	if len(o.Slides) == 0 {
		return fmt.Errorf("outline %q has no slides", o.Title)
	}
	if len(o.Slides) > MaxOutlineSlides {
		return fmt.Errorf("outline %q has %d slides, maximum is %d", o.Title, len(o.Slides), MaxOutlineSlides)
	}
	for i, s := range o.Slides {
		if s.Title == "" {
			return fmt.Errorf("slide %d has no title", i+1)
		}
		if len(s.Bullets) == 0 {
			return fmt.Errorf("slide %d (%q) has no bullets", i+1, s.Title)
		}
		if len(s.Bullets) > MaxOutlineBullets {
			return fmt.Errorf("slide %d (%q) has %d bullets, maximum is %d", i+1, s.Title, len(s.Bullets), MaxOutlineBullets)
		}
		if s.Layout != "" && !outlineLayouts[s.Layout] {
			return fmt.Errorf("slide %d (%q) uses layout %q, not an outline layout", i+1, s.Title, s.Layout)
		}
	}
	return nil
}

// BuildContentBlocks synthesizes the block set for one outline slide.
// The title layout gets a centered title plus a subtitle drawn from
// the first bullet; section headers get just the centered title;
// content layouts get a heading, the bullets as a list (split across
// two columns when the layout is two-column and more than two bullets
// exist) and, on image layouts, an image block whose search query
// falls back to the slide title.
func BuildContentBlocks(s OutlineSlide) []ContentBlock {
	layout := s.Layout
	if layout == "" {
		layout = LayoutTitleContent
	}

	switch layout {
	case LayoutTitle:
		blocks := []ContentBlock{
			textBlock(StyleTitle, s.Title, Rect{X: 10, Y: 30, Width: 80, Height: 20}),
		}
		if len(s.Bullets) > 0 {
			blocks = append(blocks,
				textBlock(StyleSubtitle, s.Bullets[0], Rect{X: 20, Y: 55, Width: 60, Height: 10}))
		}
		return blocks

	case LayoutSectionHeader:
		return []ContentBlock{
			textBlock(StyleTitle, s.Title, Rect{X: 10, Y: 35, Width: 80, Height: 20}),
		}

	case LayoutTwoColumn:
		blocks := []ContentBlock{
			textBlock(StyleHeading, s.Title, Rect{X: 5, Y: 5, Width: 90, Height: 12}),
		}
		if len(s.Bullets) > 2 {
			// left column rounds up
			half := (len(s.Bullets) + 1) / 2
			blocks = append(blocks,
				listBlock(s.Bullets[:half], Rect{X: 5, Y: 22, Width: 42, Height: 70}),
				listBlock(s.Bullets[half:], Rect{X: 53, Y: 22, Width: 42, Height: 70}))
		} else {
			blocks = append(blocks,
				listBlock(s.Bullets, Rect{X: 5, Y: 22, Width: 42, Height: 70}))
		}
		return blocks

	case LayoutContentImageRight:
		query := s.ImageQuery
		if query == "" {
			query = s.Title
		}
		return []ContentBlock{
			textBlock(StyleHeading, s.Title, Rect{X: 5, Y: 5, Width: 45, Height: 12}),
			listBlock(s.Bullets, Rect{X: 5, Y: 22, Width: 45, Height: 70}),
			imageBlock(query, Rect{X: 55, Y: 5, Width: 40, Height: 87}),
		}

	default:
		return []ContentBlock{
			textBlock(StyleHeading, s.Title, Rect{X: 5, Y: 5, Width: 90, Height: 12}),
			listBlock(s.Bullets, Rect{X: 5, Y: 22, Width: 90, Height: 70}),
		}
	}
}

// MaterializeOutline turns a validated outline into a complete
// presentation ready for Engine.LoadPresentation.
func MaterializeOutline(o *Outline) (*Presentation, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid outline: %w", err)
	}
	themeID := o.ThemeID
	if themeID == "" {
		themeID = "default"
	}
	now := time.Now().UTC()
	doc := &Presentation{
		ID:          NewID("pres"),
		Title:       o.Title,
		Description: o.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		ThemeID:     themeID,
		Metadata:    Metadata{AspectRatio: "16:9"},
	}
	for i, s := range o.Slides {
		layout := s.Layout
		if layout == "" {
			layout = LayoutTitleContent
		}
		doc.Slides = append(doc.Slides, Slide{
			ID:           NewID("slide"),
			Index:        i,
			Layout:       layout,
			Content:      BuildContentBlocks(s),
			SpeakerNotes: s.SpeakerNotes,
		})
	}
	doc.Metadata.SlideCount = len(doc.Slides)
	return doc, nil
}
