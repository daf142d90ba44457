package openai

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/korjavin/fridgechef/pkg/models"
)

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	*f = ""
	return nil
}

type ingredientJSON struct {
	Name     string     `json:"name"`
	Quantity flexString `json:"quantity"`
	Unit     string     `json:"unit"`
}

type menuJSON struct {
	Title       string           `json:"title"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Ingredients []ingredientJSON `json:"ingredients"`
	Steps       []string         `json:"steps"`
}

func (m menuJSON) toModel() (models.Menu, bool) {
	title := strings.TrimSpace(m.Title)
	if title == "" {
		title = strings.TrimSpace(m.Name)
	}
	if title == "" {
		return models.Menu{}, false
	}

	menu := models.Menu{
		Title:       title,
		Description: strings.TrimSpace(m.Description),
		Ingredients: make([]models.MenuIngredient, 0, len(m.Ingredients)),
		Steps:       m.Steps,
	}
	for _, ing := range m.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		menu.Ingredients = append(menu.Ingredients, models.MenuIngredient{
			Name:     name,
			Quantity: string(ing.Quantity),
			Unit:     strings.TrimSpace(ing.Unit),
		})
	}
	return menu, true
}

// decodeLenient unmarshals model output that may be wrapped in prose or a
// markdown code block
func decodeLenient(content string, v interface{}) error {
	cleaned := cleanJSONResponse(content)
	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}
	if block := extractJSONBlock(cleaned); block != "" && block != cleaned {
		if json.Unmarshal([]byte(block), v) == nil {
			return nil
		}
	}
	return err
}

// truncateString truncates a string to at most maxLen runes
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// cleanJSONResponse strips markdown code fences the model sometimes adds
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		// Skip the first line (which might contain "```json")
		if firstLineEnd := strings.Index(s, "\n"); firstLineEnd != -1 {
			s = s[firstLineEnd+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	return s
}

// extractJSONBlock returns the first balanced [...] or {...} block in s,
// skipping brackets inside string literals
func extractJSONBlock(s string) string {
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// extractItemsFromText is a fallback for when the model ignores the JSON instruction
func extractItemsFromText(s string) []string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '"' || r == '[' || r == ']' || r == '\t' || r == '、'
	})

	var items []string
	for _, word := range words {
		word = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(word), "-*•"))
		// Skip empty strings and single ASCII characters
		if len(word) <= 1 {
			continue
		}
		if word == "null" || word == "true" || word == "false" {
			continue
		}
		if word[0] >= '0' && word[0] <= '9' {
			continue
		}
		items = append(items, word)
	}

	return items
}
