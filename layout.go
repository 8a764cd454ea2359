package deckdown

// Default placeholder strings shown until the user edits a block.
const (
	defaultDeckTitle     = "Untitled Presentation"
	defaultSubtitleText  = "Click to add subtitle"
	defaultHeadingText   = "Slide Title"
	defaultBodyText      = "Add your content here"
	defaultSectionText   = "Section Title"
	defaultBlankBodyText = "Click to add content"
	defaultLeftColumn    = "Left column content"
	defaultRightColumn   = "Right column content"
)

func textBlock(style TextStyle, content string, pos Rect) ContentBlock {
	b := ContentBlock{
		ID:       NewID("block"),
		Type:     BlockText,
		Position: pos,
		Content:  content,
		Style:    style,
		Align:    AlignLeft,
	}
	if style == StyleTitle || style == StyleSubtitle {
		b.Align = AlignCenter
	}
	return b
}

func imageBlock(query string, pos Rect) ContentBlock {
	return ContentBlock{
		ID:       NewID("block"),
		Type:     BlockImage,
		Position: pos,
		Alt:      "Slide image",
		Query:    query,
	}
}

func listBlock(texts []string, pos Rect) ContentBlock {
	items := make([]Item, len(texts))
	for i, t := range texts {
		items[i] = Item{ID: NewID("item"), Text: t}
	}
	return ContentBlock{
		ID:       NewID("block"),
		Type:     BlockList,
		Position: pos,
		Variant:  ListBullet,
		Items:    items,
	}
}

// DefaultBlocks resolves a layout to its canonical placeholder block
// set. Every call returns freshly identified blocks.
func DefaultBlocks(layout SlideLayout) []ContentBlock {
	switch layout {
	case LayoutTitle:
		return []ContentBlock{
			textBlock(StyleTitle, defaultDeckTitle, Rect{X: 10, Y: 30, Width: 80, Height: 20}),
			textBlock(StyleSubtitle, defaultSubtitleText, Rect{X: 20, Y: 55, Width: 60, Height: 10}),
		}
	case LayoutTitleContent:
		return []ContentBlock{
			textBlock(StyleHeading, defaultHeadingText, Rect{X: 5, Y: 5, Width: 90, Height: 12}),
			textBlock(StyleBody, defaultBodyText, Rect{X: 5, Y: 22, Width: 90, Height: 70}),
		}
	case LayoutSectionHeader:
		return []ContentBlock{
			textBlock(StyleTitle, defaultSectionText, Rect{X: 10, Y: 35, Width: 80, Height: 20}),
		}
	case LayoutTwoColumn:
		return []ContentBlock{
			textBlock(StyleHeading, defaultHeadingText, Rect{X: 5, Y: 5, Width: 90, Height: 12}),
			textBlock(StyleBody, defaultLeftColumn, Rect{X: 5, Y: 22, Width: 42, Height: 70}),
			textBlock(StyleBody, defaultRightColumn, Rect{X: 53, Y: 22, Width: 42, Height: 70}),
		}
	case LayoutContentImageRight:
		return []ContentBlock{
			textBlock(StyleHeading, defaultHeadingText, Rect{X: 5, Y: 5, Width: 45, Height: 12}),
			textBlock(StyleBody, defaultBodyText, Rect{X: 5, Y: 22, Width: 45, Height: 70}),
			imageBlock("", Rect{X: 55, Y: 5, Width: 40, Height: 87}),
		}
	default:
		// blank and anything unrecognized get a single editable body
		return []ContentBlock{
			textBlock(StyleBody, defaultBlankBodyText, Rect{X: 5, Y: 5, Width: 90, Height: 90}),
		}
	}
}

// newDefaultSlide builds a slide with the layout's placeholder blocks
// at the given position.
func newDefaultSlide(layout SlideLayout, index int) Slide {
	return Slide{
		ID:      NewID("slide"),
		Index:   index,
		Layout:  layout,
		Content: DefaultBlocks(layout),
	}
}
