// Command deckdown creates, serves, and exports slide presentations.
package main

import (
	"fmt"
	"os"

	"github.com/livetemplate/deckdown/cmd/deckdown/commands"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "serve":
		err = commands.ServeCommand(args)
	case "new":
		err = commands.NewCommand(args)
	case "list":
		err = commands.ListCommand(args)
	case "export":
		err = commands.ExportCommand(args)
	case "version":
		fmt.Printf("deckdown version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("deckdown - Presentations from markdown")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  deckdown serve                       Start the editor server")
	fmt.Println("  deckdown new [title]                 Create a new presentation")
	fmt.Println("  deckdown list                        List stored presentations")
	fmt.Println("  deckdown export <id>                 Export a presentation")
	fmt.Println("  deckdown version                     Show version")
	fmt.Println("  deckdown help                        Show this help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  deckdown serve --port 9000           # Serve on a custom port")
	fmt.Println("  deckdown new \"Q3 Review\"             # Blank deck with one title slide")
	fmt.Println("  deckdown new --from pitch.md         # Build a deck from a markdown outline")
	fmt.Println("  deckdown new --template=startup-pitch  # Instantiate a built-in template")
	fmt.Println("  deckdown new --list                  # List available templates")
	fmt.Println("  deckdown export pres_abc123          # Export as HTML to stdout")
	fmt.Println("  deckdown export pres_abc123 --format=json --out=deck.json")
	fmt.Println()
	fmt.Println("Documentation: https://github.com/livetemplate/deckdown")
}
