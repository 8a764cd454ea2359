package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/livetemplate/deckdown"
	"github.com/livetemplate/deckdown/internal/config"
	"github.com/livetemplate/deckdown/internal/storage"
)

// NewCommand implements the new command. A deck can start blank, from
// a built-in template, or from a markdown outline file.
func NewCommand(args []string) error {
	var title string
	var templateID string
	var outlinePath string
	var themeID string
	var configPath string
	var listTemplates bool

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--list" || arg == "-l" {
			listTemplates = true
		} else if strings.HasPrefix(arg, "--template=") {
			templateID = strings.TrimPrefix(arg, "--template=")
		} else if arg == "--template" || arg == "-t" {
			if i+1 < len(args) {
				templateID = args[i+1]
				i++
			}
		} else if strings.HasPrefix(arg, "--from=") {
			outlinePath = strings.TrimPrefix(arg, "--from=")
		} else if arg == "--from" || arg == "-f" {
			if i+1 < len(args) {
				outlinePath = args[i+1]
				i++
			}
		} else if strings.HasPrefix(arg, "--theme=") {
			themeID = strings.TrimPrefix(arg, "--theme=")
		} else if arg == "--theme" {
			if i+1 < len(args) {
				themeID = args[i+1]
				i++
			}
		} else if arg == "--config" || arg == "-c" {
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		} else if strings.HasPrefix(arg, "-") {
			return fmt.Errorf("unknown flag: %s", arg)
		} else if title == "" {
			title = arg
		}
	}

	if listTemplates {
		fmt.Println("Available templates:")
		for _, tmpl := range deckdown.Templates() {
			fmt.Printf("  %-16s %s\n", tmpl.ID, tmpl.Description)
		}
		return nil
	}

	if templateID != "" && outlinePath != "" {
		return fmt.Errorf("--template and --from are mutually exclusive")
	}

	var doc *deckdown.Presentation
	var err error
	switch {
	case templateID != "":
		doc, err = deckdown.InstantiateTemplate(templateID)
		if err != nil {
			return err
		}
	case outlinePath != "":
		outline, perr := deckdown.ParseOutlineFile(outlinePath)
		if perr != nil {
			return perr
		}
		doc, err = deckdown.MaterializeOutline(outline)
		if err != nil {
			return err
		}
	default:
		engine := deckdown.NewEngine()
		engine.CreatePresentation(title, themeID)
		doc = engine.Snapshot()
	}

	if title != "" {
		doc.Title = title
	}
	if themeID != "" {
		doc.ThemeID = themeID
	}

	store, _, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(context.Background(), doc); err != nil {
		return fmt.Errorf("failed to save presentation: %w", err)
	}

	fmt.Printf("✨ Created presentation %q\n", doc.Title)
	fmt.Printf("   ID:     %s\n", doc.ID)
	fmt.Printf("   Slides: %d\n", len(doc.Slides))
	fmt.Printf("   Theme:  %s\n", doc.ThemeID)
	return nil
}

// openStore loads configuration and opens the configured store.
func openStore(configPath string) (storage.Store, *config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.Open(&cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, cfg, nil
}
