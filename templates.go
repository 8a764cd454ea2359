package deckdown

import (
	"fmt"
	"sort"
)

// Template is a named, ready-made deck plan. Templates are stored as
// outlines so instantiation flows through MaterializeOutline and
// every instance gets fresh identifiers.
type Template struct {
	ID          string
	Name        string
	Description string
	Outline     Outline
}

var templates = map[string]Template{
	"startup-pitch": {
		ID:          "startup-pitch",
		Name:        "Startup Pitch",
		Description: "Classic investor pitch structure in eight slides",
		Outline: Outline{
			Title:   "Startup Pitch",
			ThemeID: "default",
			Slides: []OutlineSlide{
				{
					Title:   "Company Name",
					Bullets: []string{"One-line description of what you do"},
					Layout:  LayoutTitle,
				},
				{
					Title: "The Problem",
					Bullets: []string{
						"Describe the pain point your customers face",
						"Quantify how widespread it is",
						"Explain why existing solutions fall short",
					},
					Layout: LayoutTitleContent,
				},
				{
					Title: "Our Solution",
					Bullets: []string{
						"What you built and how it removes the pain",
						"The key insight competitors missed",
						"Why now is the right time",
					},
					Layout: LayoutTitleContent,
				},
				{
					Title: "The Product",
					Bullets: []string{
						"Walk through the core workflow",
						"Highlight the moment of value",
					},
					Layout:     LayoutContentImageRight,
					ImageQuery: "product dashboard",
				},
				{
					Title: "Market Size",
					Bullets: []string{
						"Total addressable market",
						"The segment you win first",
						"How you expand from there",
					},
					Layout: LayoutTitleContent,
				},
				{
					Title: "Business Model",
					Bullets: []string{
						"How you charge",
						"Unit economics today",
						"Pricing levers as you scale",
					},
					Layout: LayoutTitleContent,
				},
				{
					Title: "The Team",
					Bullets: []string{
						"Founders and their relevant wins",
						"Key hires already in place",
						"Advisors who open doors",
						"Roles you are hiring for",
					},
					Layout: LayoutTwoColumn,
				},
				{
					Title: "The Ask",
					Bullets: []string{
						"How much you are raising",
						"What the money buys",
						"Milestones before the next round",
					},
					Layout: LayoutTitleContent,
				},
			},
		},
	},
	"blank": {
		ID:          "blank",
		Name:        "Blank Deck",
		Description: "A single title slide to start from scratch",
		Outline: Outline{
			Title:   "Untitled Presentation",
			ThemeID: "default",
			Slides: []OutlineSlide{
				{
					Title:   "Untitled Presentation",
					Bullets: []string{"Click to add subtitle"},
					Layout:  LayoutTitle,
				},
			},
		},
	},
}

// Templates lists the built-in templates sorted by ID.
func Templates() []Template {
	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InstantiateTemplate builds a fresh presentation from the named
// template.
func InstantiateTemplate(id string) (*Presentation, error) {
	t, ok := templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", id)
	}
	return MaterializeOutline(&t.Outline)
}
