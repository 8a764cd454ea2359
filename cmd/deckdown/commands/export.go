package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/livetemplate/deckdown/internal/export"
	"github.com/livetemplate/deckdown/internal/storage"
	"github.com/livetemplate/deckdown/internal/theme"
)

// ExportCommand implements the export command.
func ExportCommand(args []string) error {
	var id string
	var format = "html"
	var outPath string
	var configPath string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--format=") {
			format = strings.TrimPrefix(arg, "--format=")
		} else if arg == "--format" {
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		} else if strings.HasPrefix(arg, "--out=") {
			outPath = strings.TrimPrefix(arg, "--out=")
		} else if arg == "--out" || arg == "-o" {
			if i+1 < len(args) {
				outPath = args[i+1]
				i++
			}
		} else if arg == "--config" || arg == "-c" {
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		} else if strings.HasPrefix(arg, "-") {
			return fmt.Errorf("unknown flag: %s", arg)
		} else if id == "" {
			id = arg
		}
	}

	if id == "" {
		return fmt.Errorf("usage: deckdown export <id> [--format=html|json] [--out=file]")
	}
	if format != "html" && format != "json" {
		return fmt.Errorf("unknown export format %q (expected html or json)", format)
	}

	store, cfg, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Load(context.Background(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("presentation %s not found", id)
		}
		return fmt.Errorf("failed to load presentation: %w", err)
	}

	registry, err := theme.NewRegistry(cfg.Themes.Dir)
	if err != nil {
		return fmt.Errorf("failed to load themes: %w", err)
	}

	var output []byte
	switch format {
	case "html":
		output = []byte(export.HTML(doc, registry.Get(doc.ThemeID)))
	case "json":
		output, err = export.JSON(doc)
		if err != nil {
			return fmt.Errorf("failed to encode presentation: %w", err)
		}
	}

	if outPath == "" {
		_, err = os.Stdout.Write(output)
		return err
	}
	if err := os.WriteFile(outPath, output, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	fmt.Printf("📦 Exported %s (%s) to %s\n", id, format, outPath)
	return nil
}
