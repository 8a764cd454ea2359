package deckdown

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func samplePresentation() *Presentation {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &Presentation{
		ID:        "pres_sample",
		Title:     "Sample",
		CreatedAt: now,
		UpdatedAt: now,
		ThemeID:   "default",
		Slides: []Slide{
			{
				ID:     "slide_a",
				Index:  0,
				Layout: LayoutTitleContent,
				Content: []ContentBlock{
					{ID: "block_1", Type: BlockText, Content: "Hello", Style: StyleHeading,
						Position: Rect{X: 5, Y: 5, Width: 90, Height: 12}},
					{ID: "block_2", Type: BlockList, Items: []Item{
						{ID: "item_1", Text: "first"},
						{ID: "item_2", Text: "second"},
					}, Position: Rect{X: 5, Y: 22, Width: 90, Height: 70}},
				},
				Background:   &Background{Type: "color", Value: "#fff"},
				SpeakerNotes: "notes",
			},
		},
		Metadata: Metadata{SlideCount: 1, AspectRatio: "16:9"},
	}
}

func TestPresentationJSONRoundTrip(t *testing.T) {
	src := samplePresentation()
	raw, err := json.Marshal(src)
	if err != nil {
		t.Fatal(err)
	}
	var back Presentation
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(src, &back) {
		t.Errorf("round trip changed the document:\n%+v\n%+v", src, &back)
	}
}

func TestCloneIsDeep(t *testing.T) {
	src := samplePresentation()
	clone := src.Clone()

	clone.Slides[0].Content[1].Items[0].Text = "mutated"
	clone.Slides[0].Background.Value = "#000"
	clone.Title = "mutated"

	if src.Slides[0].Content[1].Items[0].Text != "first" {
		t.Error("clone items alias the source")
	}
	if src.Slides[0].Background.Value != "#fff" {
		t.Error("clone background aliases the source")
	}
	if src.Title != "Sample" {
		t.Error("clone title aliases the source")
	}
}

func TestCloneSlideFreshIDs(t *testing.T) {
	src := samplePresentation().Slides[0]
	clone := CloneSlide(src)

	if clone.ID == src.ID {
		t.Error("slide id reused")
	}
	for i := range clone.Content {
		if clone.Content[i].ID == src.Content[i].ID {
			t.Errorf("block %d id reused", i)
		}
	}
	for i, it := range clone.Content[1].Items {
		if it.ID == src.Content[1].Items[i].ID {
			t.Errorf("item %d id reused", i)
		}
	}
	if clone.Background == src.Background {
		t.Error("background pointer shared with source")
	}
	if clone.SpeakerNotes != src.SpeakerNotes {
		t.Error("speaker notes should survive a clone")
	}
}

func TestReindex(t *testing.T) {
	p := samplePresentation()
	p.Slides = append(p.Slides, Slide{ID: "slide_b", Index: 99})
	p.reindex()

	for i, s := range p.Slides {
		if s.Index != i {
			t.Errorf("slide %d has index %d", i, s.Index)
		}
	}
	if p.Metadata.SlideCount != 2 {
		t.Errorf("slideCount = %d", p.Metadata.SlideCount)
	}
}

func TestBlockTextOmittedFromOtherVariants(t *testing.T) {
	raw, err := json.Marshal(ContentBlock{ID: "block_1", Type: BlockImage, Src: "a.png"})
	if err != nil {
		t.Fatal(err)
	}
	for _, absent := range []string{"content", "items", "quote", "chartType"} {
		if containsKey(raw, absent) {
			t.Errorf("image block serialized unused field %q: %s", absent, raw)
		}
	}
}

func containsKey(raw []byte, key string) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	_, ok := m[key]
	return ok
}
