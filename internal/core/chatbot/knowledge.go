package chatbot

import (
	"fmt"
	"os"
	"strings"

	"meal-deals/internal/core/menu"
)

// LoadKnowledge reads a text file as blank-line separated passages
func LoadKnowledge(path string) ([]Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	return SplitPassages(string(data), path), nil
}

// SplitPassages splits text on blank lines, dropping empty paragraphs
func SplitPassages(text, source string) []Passage {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []Passage
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		out = append(out, Passage{Source: source, Text: para})
	}
	return out
}

// MenuPassages renders one passage per menu item
func MenuPassages(items []menu.Item) []Passage {
	out := make([]Passage, 0, len(items))
	for _, it := range items {
		text := fmt.Sprintf("%s is on the menu in the %s category", it.Name, it.Category)
		if it.Portion != "" {
			text += fmt.Sprintf(", portion %s", it.Portion)
		}
		text += fmt.Sprintf(". It costs %d PKR and serves %d.", it.Price, it.Serves)
		out = append(out, Passage{Source: "menu", Text: text})
	}
	return out
}
