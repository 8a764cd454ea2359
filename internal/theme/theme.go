// Package theme resolves the theme IDs presentations reference. A
// fixed preset set ships built in; a configured directory of YAML
// files adds or overrides themes and is reloadable while the server
// runs.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Colors is a theme's palette. Values are CSS colors.
type Colors struct {
	Background string `yaml:"background" json:"background"`
	Surface    string `yaml:"surface" json:"surface"`
	Primary    string `yaml:"primary" json:"primary"`
	Accent     string `yaml:"accent" json:"accent"`
	Text       string `yaml:"text" json:"text"`
	TextMuted  string `yaml:"text_muted" json:"textMuted"`
}

// Fonts names the heading and body font stacks.
type Fonts struct {
	Heading string `yaml:"heading" json:"heading"`
	Body    string `yaml:"body" json:"body"`
}

// Theme styles a whole presentation.
type Theme struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Colors Colors `yaml:"colors" json:"colors"`
	Fonts  Fonts  `yaml:"fonts" json:"fonts"`
}

// DefaultThemeID resolves when a presentation references no theme or
// an unknown one.
const DefaultThemeID = "default"

var presets = []Theme{
	{
		ID:   "default",
		Name: "Clean Light",
		Colors: Colors{
			Background: "#ffffff", Surface: "#f4f4f5",
			Primary: "#2563eb", Accent: "#7c3aed",
			Text: "#18181b", TextMuted: "#71717a",
		},
		Fonts: Fonts{Heading: "Inter, sans-serif", Body: "Inter, sans-serif"},
	},
	{
		ID:   "midnight",
		Name: "Midnight",
		Colors: Colors{
			Background: "#0f172a", Surface: "#1e293b",
			Primary: "#38bdf8", Accent: "#818cf8",
			Text: "#f1f5f9", TextMuted: "#94a3b8",
		},
		Fonts: Fonts{Heading: "Inter, sans-serif", Body: "Inter, sans-serif"},
	},
	{
		ID:   "sunset",
		Name: "Sunset",
		Colors: Colors{
			Background: "#fff7ed", Surface: "#ffedd5",
			Primary: "#ea580c", Accent: "#db2777",
			Text: "#431407", TextMuted: "#9a3412",
		},
		Fonts: Fonts{Heading: "Georgia, serif", Body: "Inter, sans-serif"},
	},
	{
		ID:   "forest",
		Name: "Forest",
		Colors: Colors{
			Background: "#f0fdf4", Surface: "#dcfce7",
			Primary: "#15803d", Accent: "#0d9488",
			Text: "#052e16", TextMuted: "#166534",
		},
		Fonts: Fonts{Heading: "Inter, sans-serif", Body: "Inter, sans-serif"},
	},
	{
		ID:   "mono",
		Name: "Monochrome",
		Colors: Colors{
			Background: "#fafafa", Surface: "#e5e5e5",
			Primary: "#171717", Accent: "#525252",
			Text: "#0a0a0a", TextMuted: "#737373",
		},
		Fonts: Fonts{Heading: "JetBrains Mono, monospace", Body: "JetBrains Mono, monospace"},
	},
}

// Registry holds the merged preset and user theme set.
type Registry struct {
	mu     sync.RWMutex
	themes map[string]Theme
	dir    string
}

// NewRegistry builds a registry with the built-in presets. dir may be
// empty; otherwise LoadDir reads it immediately and Reload rereads it
// later.
func NewRegistry(dir string) (*Registry, error) {
	r := &Registry{themes: map[string]Theme{}, dir: dir}
	for _, t := range presets {
		r.themes[t.ID] = t
	}
	if dir != "" {
		if err := r.Reload(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Reload rereads every *.yaml file in the registry directory. User
// themes override presets with the same ID. Preset themes are never
// removed by a reload.
func (r *Registry) Reload() error {
	if r.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("failed to read theme dir %s: %w", r.dir, err)
	}

	loaded := map[string]Theme{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		t, err := loadFile(path)
		if err != nil {
			return err
		}
		loaded[t.ID] = t
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes = map[string]Theme{}
	for _, t := range presets {
		r.themes[t.ID] = t
	}
	for id, t := range loaded {
		r.themes[id] = t
	}
	return nil
}

func loadFile(path string) (Theme, error) {
	var t Theme
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read theme %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("failed to parse theme %s: %w", path, err)
	}
	if t.ID == "" {
		return t, fmt.Errorf("theme %s has no id", path)
	}
	return t, nil
}

// Get resolves a theme ID, falling back to the default preset for
// empty or unknown IDs.
func (r *Registry) Get(id string) Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.themes[id]; ok {
		return t
	}
	return r.themes[DefaultThemeID]
}

// Has reports whether the exact ID is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.themes[id]
	return ok
}

// List returns every registered theme sorted by ID.
func (r *Registry) List() []Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Theme, 0, len(r.themes))
	for _, t := range r.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Dir returns the user theme directory, or "".
func (r *Registry) Dir() string { return r.dir }
