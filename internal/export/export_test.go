package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/livetemplate/deckdown"
	"github.com/livetemplate/deckdown/internal/theme"
)

func exportDeck(t *testing.T) *deckdown.Presentation {
	t.Helper()
	doc, err := deckdown.MaterializeOutline(&deckdown.Outline{
		Title:   "Export Me",
		ThemeID: "midnight",
		Slides: []deckdown.OutlineSlide{
			{Title: "Export Me", Bullets: []string{"a <subtitle>"}, Layout: deckdown.LayoutTitle},
			{Title: "Points", Bullets: []string{"first", "second & third"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func testTheme(t *testing.T) theme.Theme {
	t.Helper()
	r, err := theme.NewRegistry("")
	if err != nil {
		t.Fatal(err)
	}
	return r.Get("midnight")
}

func TestHTMLDocumentShape(t *testing.T) {
	doc := exportDeck(t)
	out := HTML(doc, testTheme(t))

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Error("missing doctype")
	}
	if !strings.Contains(out, "<title>Export Me</title>") {
		t.Error("missing document title")
	}
	if got := strings.Count(out, `<section class="slide"`); got != 2 {
		t.Errorf("expected 2 slide sections, got %d", got)
	}
	if !strings.Contains(out, doc.Slides[0].ID) {
		t.Error("slide ids should anchor the sections")
	}
}

func TestHTMLCarriesThemeVariables(t *testing.T) {
	out := HTML(exportDeck(t), testTheme(t))
	if !strings.Contains(out, "--background: #0f172a") {
		t.Error("theme background missing from styles")
	}
	if !strings.Contains(out, "--primary: #38bdf8") {
		t.Error("theme primary missing from styles")
	}
}

func TestHTMLEscapesContent(t *testing.T) {
	out := HTML(exportDeck(t), testTheme(t))
	if strings.Contains(out, "a <subtitle>") {
		t.Error("block text must be escaped")
	}
	if !strings.Contains(out, "a &lt;subtitle&gt;") {
		t.Error("escaped subtitle missing")
	}
	if !strings.Contains(out, "second &amp; third") {
		t.Error("escaped list item missing")
	}
}

func TestHTMLRendersBlockVariants(t *testing.T) {
	doc := exportDeck(t)
	doc.Slides[1].Content = append(doc.Slides[1].Content,
		deckdown.ContentBlock{
			ID: "block_q", Type: deckdown.BlockQuote,
			Quote: "Ship it", Attribution: "Anonymous",
		},
		deckdown.ContentBlock{
			ID: "block_c", Type: deckdown.BlockChart, ChartType: deckdown.ChartBar,
			Title: "Revenue", Data: []deckdown.DataPoint{{Label: "Q1", Value: 42}},
		},
		deckdown.ContentBlock{
			ID: "block_i", Type: deckdown.BlockImage, Alt: "empty placeholder",
		},
	)

	out := HTML(doc, testTheme(t))
	if !strings.Contains(out, "<blockquote>Ship it") {
		t.Error("quote block not rendered")
	}
	if !strings.Contains(out, "chart-bar") || !strings.Contains(out, "Q1") {
		t.Error("chart block not rendered")
	}
	if !strings.Contains(out, `<div class="chart-title">Revenue</div>`) {
		t.Error("chart title not rendered")
	}
	if !strings.Contains(out, "placehold.co") {
		t.Error("sourceless image should render a placeholder")
	}
}

func TestHTMLListVariants(t *testing.T) {
	doc := exportDeck(t)
	items := []deckdown.Item{
		{ID: "item_1", Text: "first"},
		{ID: "item_2", Text: "second"},
	}
	doc.Slides[1].Content = append(doc.Slides[1].Content,
		deckdown.ContentBlock{
			ID: "block_n", Type: deckdown.BlockList,
			Variant: deckdown.ListNumbered, Items: items,
		},
		deckdown.ContentBlock{
			ID: "block_k", Type: deckdown.BlockList,
			Variant: deckdown.ListChecklist, Items: items,
		},
	)

	out := HTML(doc, testTheme(t))
	if !strings.Contains(out, `<ol class="list-numbered">`) {
		t.Error("numbered lists should render as ol")
	}
	if !strings.Contains(out, `<ul class="list-checklist">`) {
		t.Error("checklists should render as ul")
	}
	if !strings.Contains(out, `<input type="checkbox" disabled>`) {
		t.Error("checklist items should carry a checkbox")
	}
	// outline bullets default to the bullet variant
	if !strings.Contains(out, `class="list-bullet"`) {
		t.Error("bullet list class missing")
	}
}

func TestHTMLPositionsBlocks(t *testing.T) {
	out := HTML(exportDeck(t), testTheme(t))
	if !strings.Contains(out, "left:10%;top:30%;width:80%;height:20%") {
		t.Error("title block geometry missing")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc := exportDeck(t)
	data, err := JSON(doc)
	if err != nil {
		t.Fatal(err)
	}

	var back deckdown.Presentation
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if back.ID != doc.ID || len(back.Slides) != len(doc.Slides) {
		t.Error("export did not round trip")
	}
	if data[len(data)-1] != '\n' {
		t.Error("export should end with a newline")
	}
}
