package export

import (
	"encoding/json"
	"fmt"

	"github.com/livetemplate/deckdown"
)

// JSON serializes the presentation in its persisted document shape,
// indented for diffing and hand inspection. A JSON export re-imports
// losslessly through Engine.LoadPresentation.
func JSON(p *deckdown.Presentation) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode presentation %s: %w", p.ID, err)
	}
	return append(data, '\n'), nil
}
