package chat

import (
	"encoding/json"
	"regexp"
)

// Suggestion is one entry of the suggested-tasks block the model may append
// to a reply.
type Suggestion struct {
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
	Prioridad   string `json:"prioridad"`
}

// The marker phrase the prompt asks the model to emit, followed by a JSON
// array. Non-greedy: stops at the first closing bracket.
var suggestionBlockRe = regexp.MustCompile(`Bloque de tareas sugeridas:\s*(\[[\s\S]+?\])`)

// ExtractSuggestions pulls the suggested-tasks block out of a free-text
// reply. Best effort: a missing marker or undecodable block yields nil,
// never an error, so a malformed block cannot break the chat turn.
func ExtractSuggestions(content string) []Suggestion {
	m := suggestionBlockRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}

	var out []Suggestion
	if err := json.Unmarshal([]byte(m[1]), &out); err != nil {
		return nil
	}
	return out
}
