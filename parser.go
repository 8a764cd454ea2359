package deckdown

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// outlineFrontmatter is the optional YAML header of an outline file.
type outlineFrontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Theme       string `yaml:"theme"`
}

// ParseOutlineFile reads a markdown outline from disk. See
// ParseOutline for the format.
func ParseOutlineFile(path string) (*Outline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read outline file: %w", err)
	}
	return ParseOutline(raw, path)
}

// ParseOutline converts a markdown document into an Outline. The
// format is deliberately plain: an optional YAML frontmatter block
// (title, description, theme), one `##` heading per slide, a bullet
// list of talking points under each heading, and optional `Layout:`,
// `Notes:` and `Image:` directive lines. A leading `#` heading names
// the deck when the frontmatter does not.
//
// This is the deterministic import path next to the generation
// boundary: both produce the same Outline shape and feed
// MaterializeOutline.
func ParseOutline(src []byte, filename string) (*Outline, error) {
	body, fm, fmLines, err := extractFrontmatter(src, filename)
	if err != nil {
		return nil, err
	}

	outline := &Outline{
		Title:       fm.Title,
		Description: fm.Description,
		ThemeID:     fm.Theme,
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(body))

	var current *OutlineSlide
	flush := func() {
		if current != nil {
			outline.Slides = append(outline.Slides, *current)
			current = nil
		}
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			title := string(n.Text(body))
			if n.Level == 1 {
				if outline.Title == "" {
					outline.Title = title
				}
				continue
			}
			if n.Level == 2 {
				flush()
				current = &OutlineSlide{Title: title}
			}

		case *ast.List:
			if current == nil {
				continue
			}
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				bullet := strings.TrimSpace(string(item.Text(body)))
				if bullet != "" {
					current.Bullets = append(current.Bullets, bullet)
				}
			}

		case *ast.Paragraph:
			if current == nil {
				continue
			}
			line := lineOf(body, n, fmLines)
			if err := applyDirective(current, string(n.Text(body)), filename, line); err != nil {
				return nil, err
			}
		}
	}
	flush()

	if outline.Title == "" {
		return nil, newParseError(filename, 0, "no deck title found").
			WithHint("add a title to the frontmatter or start the file with a # heading")
	}
	if len(outline.Slides) == 0 {
		return nil, newParseError(filename, 0, "no slides found").
			WithHint("each slide starts with a ## heading followed by a bullet list")
	}
	if err := outline.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return outline, nil
}

// applyDirective interprets the Layout/Notes/Image paragraph forms.
// Plain paragraphs are ignored so authors can keep prose notes in the
// file without breaking the import.
func applyDirective(slide *OutlineSlide, line, filename string, lineNo int) error {
	switch {
	case strings.HasPrefix(line, "Layout:"):
		layout := SlideLayout(strings.TrimSpace(strings.TrimPrefix(line, "Layout:")))
		if !outlineLayouts[layout] {
			return newParseError(filename, lineNo, "unknown layout %q", layout).
				WithHint("valid layouts: title, title-content, two-column, content-image-right, section-header, blank")
		}
		slide.Layout = layout
	case strings.HasPrefix(line, "Notes:"):
		slide.SpeakerNotes = strings.TrimSpace(strings.TrimPrefix(line, "Notes:"))
	case strings.HasPrefix(line, "Image:"):
		slide.ImageQuery = strings.TrimSpace(strings.TrimPrefix(line, "Image:"))
		if slide.Layout == "" {
			slide.Layout = LayoutContentImageRight
		}
	}
	return nil
}

// extractFrontmatter splits an optional leading `---` YAML block from
// the markdown body. Returns the body, the decoded frontmatter and
// the number of lines consumed, for error line offsets.
func extractFrontmatter(src []byte, filename string) ([]byte, outlineFrontmatter, int, error) {
	var fm outlineFrontmatter
	if !bytes.HasPrefix(src, []byte("---\n")) && !bytes.HasPrefix(src, []byte("---\r\n")) {
		return src, fm, 0, nil
	}
	rest := src[bytes.IndexByte(src, '\n')+1:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, fm, 0, newParseError(filename, 1, "unterminated frontmatter").
			WithHint("close the leading --- block with a matching --- line")
	}
	block := rest[:end+1]
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return nil, fm, 0, newParseError(filename, 1, "invalid frontmatter: %v", err)
	}
	consumed := rest[end+1:]
	if nl := bytes.IndexByte(consumed, '\n'); nl >= 0 {
		consumed = consumed[nl+1:]
	} else {
		consumed = nil
	}
	used := len(src) - len(consumed)
	return consumed, fm, bytes.Count(src[:used], []byte("\n")), nil
}

// lineOf reports the 1-based source line of a node, including the
// lines the frontmatter consumed.
func lineOf(body []byte, n ast.Node, fmLines int) int {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0
	}
	start := lines.At(0).Start
	return bytes.Count(body[:start], []byte("\n")) + 1 + fmLines
}
