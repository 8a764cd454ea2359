package commands

import (
	"context"
	"fmt"
	"strings"
)

// ListCommand implements the list command.
func ListCommand(args []string) error {
	var configPath string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" || arg == "-c" {
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		} else if strings.HasPrefix(arg, "-") {
			return fmt.Errorf("unknown flag: %s", arg)
		}
	}

	store, _, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list presentations: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No presentations yet. Create one with: deckdown new")
		return nil
	}

	fmt.Printf("%-28s %-30s %7s  %s\n", "ID", "TITLE", "SLIDES", "UPDATED")
	for _, s := range summaries {
		title := s.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Printf("%-28s %-30s %7d  %s\n",
			s.ID, title, s.SlideCount, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
