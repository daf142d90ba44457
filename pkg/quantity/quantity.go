// Package quantity turns free-text amounts such as "150ml", "1/2カップ" or
// "2-3個" into a normalized amount in milliliters, grams or pieces.
//
// Parsing is heuristic and never fails: input it cannot read degrades to a
// zero amount or a single piece, with Note saying which fallback was taken.
package quantity

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Unit is the base unit a parsed amount is expressed in
type Unit string

const (
	Milliliter Unit = "ml"
	Gram       Unit = "g"
	Count      Unit = "count"
	Unknown    Unit = "unknown"
)

// Notes describing which fallback produced a Parsed value
const (
	NoteAmbiguous     = "ambiguous"
	NoteFallbackCount = "fallback-count-1"
	NoteUnitUnknown   = "unit-unknown"
)

// Parsed is a normalized quantity
type Parsed struct {
	Amount float64 `json:"amount"`
	Unit   Unit    `json:"unit"`
	Note   string  `json:"note,omitempty"`
}

// IsAmbiguous reports whether the text only said "a little" or "as needed"
func (p Parsed) IsAmbiguous() bool {
	return p.Note == NoteAmbiguous
}

var (
	// number-ish token then an optional unit keyword, anchored at the end
	trailingRe = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?(?:\s*[/〜~-]\s*\d[\d,]*(?:\.\d+)?)?)\s*(個分|個|枚|本|カップ|cups|cup|tbsp|tsp|kg|ml|pcs|pieces|piece|l|g)?\s*$`)
	rangeRe    = regexp.MustCompile(`[〜~-]`)
	ambiguous  = []string{"少々", "適量", "適宜"}
)

// unit keyword -> base unit and multiplier
var conversions = map[string]struct {
	unit   Unit
	factor float64
}{
	"ml":     {Milliliter, 1},
	"l":      {Milliliter, 1000},
	"g":      {Gram, 1},
	"kg":     {Gram, 1000},
	"個":      {Count, 1},
	"枚":      {Count, 1},
	"本":      {Count, 1},
	"個分":     {Count, 1},
	"pcs":    {Count, 1},
	"piece":  {Count, 1},
	"pieces": {Count, 1},
	"カップ":    {Milliliter, 240},
	"cup":    {Milliliter, 240},
	"cups":   {Milliliter, 240},
	"tbsp":   {Milliliter, 15},
	"tsp":    {Milliliter, 5},
}

// Parse maps free text to a normalized quantity
func Parse(text string) Parsed {
	s := strings.TrimSpace(width.Fold.String(text))
	if s == "" {
		return Parsed{Amount: 0, Unit: Unknown}
	}

	if m := trailingRe.FindStringSubmatch(s); m != nil {
		if amount, ok := parseNumber(m[1]); ok {
			return convert(amount, strings.ToLower(m[2]))
		}
	}

	for _, word := range ambiguous {
		if strings.Contains(s, word) {
			return Parsed{Amount: 0, Unit: Unknown, Note: NoteAmbiguous}
		}
	}
	if strings.Contains(s, "個") {
		return Parsed{Amount: 1, Unit: Count}
	}
	return Parsed{Amount: 1, Unit: Count, Note: NoteFallbackCount}
}

// StripQuantity removes a trailing amount ("150ml", "2-3個", "少々") and
// returns what is probably the ingredient name. If nothing would be left
// the trimmed input is returned unchanged.
func StripQuantity(text string) string {
	s := strings.TrimSpace(text)
	folded := width.Fold.String(s)

	name := folded
	if loc := trailingRe.FindStringIndex(folded); loc != nil {
		name = folded[:loc[0]]
	} else {
		for _, word := range ambiguous {
			if strings.HasSuffix(name, word) {
				name = strings.TrimSuffix(name, word)
				break
			}
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return s
	}
	return name
}

func parseNumber(token string) (float64, bool) {
	token = strings.ReplaceAll(token, ",", "")
	token = strings.Join(strings.Fields(token), "")

	if i := strings.Index(token, "/"); i >= 0 {
		a, errA := strconv.ParseFloat(token[:i], 64)
		b, errB := strconv.ParseFloat(token[i+1:], 64)
		if errA != nil || errB != nil || b == 0 {
			return 0, false
		}
		return a / b, true
	}

	if loc := rangeRe.FindStringIndex(token); loc != nil {
		a, errA := strconv.ParseFloat(token[:loc[0]], 64)
		b, errB := strconv.ParseFloat(token[loc[1]:], 64)
		if errA != nil || errB != nil {
			return 0, false
		}
		return (a + b) / 2, true
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func convert(amount float64, unitToken string) Parsed {
	c, ok := conversions[unitToken]
	if !ok {
		return Parsed{Amount: amount, Unit: Unknown, Note: NoteUnitUnknown}
	}
	return Parsed{Amount: amount * c.factor, Unit: c.unit}
}
