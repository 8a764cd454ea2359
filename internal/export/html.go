// Package export serializes presentation snapshots into portable
// formats. Exports are pure reads: callers pass an engine snapshot,
// never the live document.
package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/livetemplate/deckdown"
	"github.com/livetemplate/deckdown/internal/theme"
)

// HTML renders the presentation as one standalone document, one
// 16:9 section per slide, with the theme carried as CSS variables.
// The output opens in any browser with no assets to ship alongside.
func HTML(p *deckdown.Presentation, t theme.Theme) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(p.Title))
	writeStyles(&b, t)
	b.WriteString("</head>\n<body>\n")

	for i := range p.Slides {
		writeSlide(&b, &p.Slides[i])
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeStyles(b *strings.Builder, t theme.Theme) {
	fmt.Fprintf(b, `<style>
:root {
  --background: %s;
  --surface: %s;
  --primary: %s;
  --accent: %s;
  --text: %s;
  --text-muted: %s;
  --font-heading: %s;
  --font-body: %s;
}
body { margin: 0; background: var(--surface); font-family: var(--font-body); color: var(--text); }
.slide { position: relative; aspect-ratio: 16/9; max-width: 1280px; margin: 2rem auto; background: var(--background); overflow: hidden; }
.block { position: absolute; box-sizing: border-box; }
.style-title { font-family: var(--font-heading); font-size: 3.5em; font-weight: 700; }
.style-subtitle { font-size: 1.5em; color: var(--text-muted); }
.style-heading { font-family: var(--font-heading); font-size: 2em; font-weight: 600; color: var(--primary); }
.style-caption { font-size: 0.8em; color: var(--text-muted); }
.block img { width: 100%%; height: 100%%; object-fit: cover; }
.block ul, .block ol { margin: 0; padding-left: 1.2em; }
.block blockquote { margin: 0; padding-left: 0.8em; border-left: 4px solid var(--accent); font-style: italic; }
.attribution { color: var(--text-muted); font-style: normal; }
.datum { display: flex; justify-content: space-between; border-bottom: 1px solid var(--surface); }
</style>
`,
		t.Colors.Background, t.Colors.Surface, t.Colors.Primary, t.Colors.Accent,
		t.Colors.Text, t.Colors.TextMuted, t.Fonts.Heading, t.Fonts.Body)
}

func writeSlide(b *strings.Builder, s *deckdown.Slide) {
	style := ""
	if s.Background != nil {
		switch s.Background.Type {
		case "image":
			style = fmt.Sprintf(` style="background-image:url('%s');background-size:cover"`,
				html.EscapeString(s.Background.Value))
		default:
			style = fmt.Sprintf(` style="background:%s"`, html.EscapeString(s.Background.Value))
		}
	}
	fmt.Fprintf(b, "<section class=\"slide\" id=\"%s\"%s>\n", html.EscapeString(s.ID), style)
	for i := range s.Content {
		writeBlock(b, &s.Content[i])
	}
	b.WriteString("</section>\n")
}

func writeBlock(b *strings.Builder, block *deckdown.ContentBlock) {
	pos := block.Position
	fmt.Fprintf(b, `<div class="block" style="left:%g%%;top:%g%%;width:%g%%;height:%g%%">`,
		pos.X, pos.Y, pos.Width, pos.Height)

	switch block.Type {
	case deckdown.BlockText:
		cls := "style-" + string(block.Style)
		align := block.Align
		if align == "" {
			align = deckdown.AlignLeft
		}
		fmt.Fprintf(b, `<div class="%s" style="text-align:%s">%s</div>`,
			cls, align, html.EscapeString(block.Content))

	case deckdown.BlockImage:
		src := block.Src
		if src == "" {
			src = "https://placehold.co/1600x900?text=Image"
		}
		fmt.Fprintf(b, `<img src="%s" alt="%s">`,
			html.EscapeString(src), html.EscapeString(block.Alt))

	case deckdown.BlockList:
		variant := block.Variant
		if variant == "" {
			variant = deckdown.ListBullet
		}
		tag := "ul"
		if variant == deckdown.ListNumbered {
			tag = "ol"
		}
		fmt.Fprintf(b, `<%s class="list-%s">`, tag, html.EscapeString(string(variant)))
		for _, item := range block.Items {
			if variant == deckdown.ListChecklist {
				fmt.Fprintf(b, `<li><input type="checkbox" disabled> %s</li>`, html.EscapeString(item.Text))
				continue
			}
			fmt.Fprintf(b, "<li>%s</li>", html.EscapeString(item.Text))
		}
		fmt.Fprintf(b, "</%s>", tag)

	case deckdown.BlockIconList:
		b.WriteString("<ul>")
		for _, item := range block.Items {
			fmt.Fprintf(b, "<li>%s %s</li>",
				html.EscapeString(item.Icon), html.EscapeString(item.Text))
		}
		b.WriteString("</ul>")

	case deckdown.BlockQuote:
		fmt.Fprintf(b, `<blockquote>%s`, html.EscapeString(block.Quote))
		if block.Attribution != "" {
			fmt.Fprintf(b, `<div class="attribution">— %s</div>`, html.EscapeString(block.Attribution))
		}
		b.WriteString("</blockquote>")

	case deckdown.BlockChart:
		// static export renders chart data as a labeled table
		fmt.Fprintf(b, `<div class="chart chart-%s">`, html.EscapeString(string(block.ChartType)))
		if block.Title != "" {
			fmt.Fprintf(b, `<div class="chart-title">%s</div>`, html.EscapeString(block.Title))
		}
		for _, d := range block.Data {
			fmt.Fprintf(b, `<div class="datum"><span>%s</span><span>%g</span></div>`,
				html.EscapeString(d.Label), d.Value)
		}
		b.WriteString("</div>")

	case deckdown.BlockTimeline:
		b.WriteString("<ol>")
		for _, item := range block.Items {
			fmt.Fprintf(b, "<li><strong>%s</strong> %s %s</li>",
				html.EscapeString(item.Date), html.EscapeString(item.Title),
				html.EscapeString(item.Description))
		}
		b.WriteString("</ol>")

	case deckdown.BlockDiagram:
		fmt.Fprintf(b, `<ul class="diagram diagram-%s">`, html.EscapeString(string(block.DiagramType)))
		for _, item := range block.Items {
			fmt.Fprintf(b, "<li>%s</li>", html.EscapeString(item.Label))
		}
		b.WriteString("</ul>")
	}

	b.WriteString("</div>\n")
}
