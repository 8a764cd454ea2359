package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPresetsAvailable(t *testing.T) {
	r, err := NewRegistry("")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"default", "midnight", "sunset", "forest", "mono"} {
		if !r.Has(id) {
			t.Errorf("preset %q missing", id)
		}
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	r, err := NewRegistry("")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Get("nope"); got.ID != DefaultThemeID {
		t.Errorf("unknown id resolved to %q", got.ID)
	}
	if got := r.Get(""); got.ID != DefaultThemeID {
		t.Errorf("empty id resolved to %q", got.ID)
	}
	if got := r.Get("midnight"); got.ID != "midnight" {
		t.Errorf("known id resolved to %q", got.ID)
	}
}

func TestLoadUserThemes(t *testing.T) {
	dir := t.TempDir()
	custom := `
id: corporate
name: Corporate
colors:
  background: "#ffffff"
  primary: "#b30000"
  text: "#111111"
fonts:
  heading: "Helvetica, sans-serif"
  body: "Helvetica, sans-serif"
`
	if err := os.WriteFile(filepath.Join(dir, "corporate.yaml"), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}
	// overrides the preset of the same id
	override := "id: midnight\nname: Darker Midnight\n"
	if err := os.WriteFile(filepath.Join(dir, "midnight.yaml"), []byte(override), 0644); err != nil {
		t.Fatal(err)
	}
	// non-yaml files are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := NewRegistry(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Get("corporate"); got.Colors.Primary != "#b30000" {
		t.Errorf("custom theme primary = %q", got.Colors.Primary)
	}
	if got := r.Get("midnight"); got.Name != "Darker Midnight" {
		t.Errorf("preset should be overridden, name = %q", got.Name)
	}
	if !r.Has("default") {
		t.Error("presets must survive a directory load")
	}
}

func TestReloadPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRegistry(dir)
	if err != nil {
		t.Fatal(err)
	}
	if r.Has("brand") {
		t.Fatal("unexpected theme before reload")
	}

	if err := os.WriteFile(filepath.Join(dir, "brand.yaml"), []byte("id: brand\nname: Brand\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(); err != nil {
		t.Fatal(err)
	}
	if !r.Has("brand") {
		t.Error("reload should pick up new theme files")
	}
}

func TestThemeFileErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRegistry(dir); err == nil {
		t.Error("invalid yaml should fail the load")
	}

	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "anon.yaml"), []byte("name: No ID\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRegistry(dir); err == nil {
		t.Error("a theme without an id should fail the load")
	}
}

func TestListSorted(t *testing.T) {
	r, err := NewRegistry("")
	if err != nil {
		t.Fatal(err)
	}
	list := r.List()
	if len(list) != 5 {
		t.Fatalf("expected 5 presets, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Fatalf("list not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}
