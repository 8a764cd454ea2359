package deckdown

import (
	"encoding/json"
	"fmt"
	"time"
)

// SlideLayout names a canonical slide arrangement. The resolver in
// layout.go maps each layout to its default block set.
type SlideLayout string

const (
	LayoutTitle             SlideLayout = "title"
	LayoutTitleContent      SlideLayout = "title-content"
	LayoutTwoColumn         SlideLayout = "two-column"
	LayoutThreeColumn       SlideLayout = "three-column"
	LayoutContentImageRight SlideLayout = "content-image-right"
	LayoutContentImageLeft  SlideLayout = "content-image-left"
	LayoutImageFull         SlideLayout = "image-full"
	LayoutComparison        SlideLayout = "comparison"
	LayoutSectionHeader     SlideLayout = "section-header"
	LayoutBlank             SlideLayout = "blank"
)

// validLayouts is the closed layout set.
var validLayouts = map[SlideLayout]bool{
	LayoutTitle:             true,
	LayoutTitleContent:      true,
	LayoutTwoColumn:         true,
	LayoutThreeColumn:       true,
	LayoutContentImageRight: true,
	LayoutContentImageLeft:  true,
	LayoutImageFull:         true,
	LayoutComparison:        true,
	LayoutSectionHeader:     true,
	LayoutBlank:             true,
}

// ValidLayout reports whether l names a known slide layout.
func ValidLayout(l SlideLayout) bool { return validLayouts[l] }

// Background styles a single slide behind its blocks.
type Background struct {
	Type  string `json:"type"` // "color", "gradient" or "image"
	Value string `json:"value"`
}

// Slide is one ordered page of a presentation. Index always matches
// the slide's position in Presentation.Slides; every structural
// mutation reindexes.
type Slide struct {
	ID           string         `json:"id"`
	Index        int            `json:"index"`
	Layout       SlideLayout    `json:"layout"`
	Content      []ContentBlock `json:"content"`
	Background   *Background    `json:"background,omitempty"`
	SpeakerNotes string         `json:"speakerNotes,omitempty"`
}

// Metadata carries display-level document facts.
type Metadata struct {
	SlideCount  int    `json:"slideCount"`
	AspectRatio string `json:"aspectRatio"`
}

// Presentation is the root document.
type Presentation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ThemeID     string    `json:"theme"`
	Slides      []Slide   `json:"slides"`
	Metadata    Metadata  `json:"metadata"`
}

// Clone returns a deep copy of the presentation via a JSON round
// trip, so the copy shares no slices or pointers with the original.
func (p *Presentation) Clone() *Presentation {
	raw, err := json.Marshal(p)
	if err != nil {
		panic(fmt.Sprintf("deckdown: presentation %s not serializable: %v", p.ID, err))
	}
	var clone Presentation
	if err := json.Unmarshal(raw, &clone); err != nil {
		panic(fmt.Sprintf("deckdown: presentation %s round trip failed: %v", p.ID, err))
	}
	return &clone
}

// cloneSlides deep-copies a slide list the same way Clone copies a
// whole document, keeping every ID intact.
func cloneSlides(slides []Slide) []Slide {
	raw, err := json.Marshal(slides)
	if err != nil {
		panic(fmt.Sprintf("deckdown: slides not serializable: %v", err))
	}
	clone := make([]Slide, 0, len(slides))
	if err := json.Unmarshal(raw, &clone); err != nil {
		panic(fmt.Sprintf("deckdown: slide round trip failed: %v", err))
	}
	return clone
}

// reindex rewrites Slide.Index and Metadata.SlideCount after any
// structural change to the slide list.
func (p *Presentation) reindex() {
	for i := range p.Slides {
		p.Slides[i].Index = i
	}
	p.Metadata.SlideCount = len(p.Slides)
}

// touch advances UpdatedAt.
func (p *Presentation) touch() {
	p.UpdatedAt = time.Now().UTC()
}

// SlideByID returns the slide with the given ID, or nil.
func (p *Presentation) SlideByID(id string) *Slide {
	for i := range p.Slides {
		if p.Slides[i].ID == id {
			return &p.Slides[i]
		}
	}
	return nil
}

// slideIndex returns the position of the slide with the given ID,
// or -1.
func (p *Presentation) slideIndex(id string) int {
	for i := range p.Slides {
		if p.Slides[i].ID == id {
			return i
		}
	}
	return -1
}

// BlockByID returns the block with the given ID on the given slide,
// or nil.
func (s *Slide) BlockByID(id string) *ContentBlock {
	for i := range s.Content {
		if s.Content[i].ID == id {
			return &s.Content[i]
		}
	}
	return nil
}

// CloneSlide deep-copies a slide and assigns fresh IDs to the slide,
// its blocks and their items.
func CloneSlide(s Slide) Slide {
	clone := s
	clone.ID = NewID("slide")
	clone.Content = make([]ContentBlock, len(s.Content))
	for i, b := range s.Content {
		clone.Content[i] = CloneBlock(b)
	}
	if s.Background != nil {
		bg := *s.Background
		clone.Background = &bg
	}
	return clone
}
