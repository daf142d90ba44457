package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/korjavin/fridgechef/pkg/quantity"
)

// UsedEntry is one "ingredient used" line as callers send it: either free
// text ("牛乳 150ml") or a structured name/quantity/unit record.
type UsedEntry struct {
	Text string

	Name     string
	Quantity string // raw quantity as given; empty when absent
	Unit     string
	Label    string
}

// Text builds a free-text entry
func Text(s string) UsedEntry {
	return UsedEntry{Text: s}
}

// Structured builds a structured entry
func Structured(name, qty, unit string) UsedEntry {
	return UsedEntry{Name: name, Quantity: qty, Unit: unit}
}

// IsText reports whether the entry arrived as a plain string
func (e UsedEntry) IsText() bool {
	return e.Text != "" && e.Name == "" && e.Label == ""
}

type structuredJSON struct {
	Name     string          `json:"name,omitempty"`
	Quantity json.RawMessage `json:"quantity,omitempty"`
	Unit     string          `json:"unit,omitempty"`
	Label    string          `json:"label,omitempty"`
}

// UnmarshalJSON accepts a string, an object, or anything else. Values that
// are neither decode to an empty entry rather than an error.
func (e *UsedEntry) UnmarshalJSON(data []byte) error {
	*e = UsedEntry{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &e.Text)
	case '{':
		var s structuredJSON
		if err := json.Unmarshal(data, &s); err != nil {
			// Field of the wrong type; keep whatever is readable
			var loose map[string]interface{}
			if json.Unmarshal(data, &loose) != nil {
				return nil
			}
			e.Name, _ = loose["name"].(string)
			e.Unit, _ = loose["unit"].(string)
			e.Label, _ = loose["label"].(string)
			e.Quantity = quantityText(loose["quantity"])
			return nil
		}
		e.Name, e.Unit, e.Label = s.Name, s.Unit, s.Label
		e.Quantity = rawQuantity(s.Quantity)
	}
	return nil
}

// MarshalJSON writes text entries back as strings
func (e UsedEntry) MarshalJSON() ([]byte, error) {
	if e.IsText() {
		return json.Marshal(e.Text)
	}
	out := map[string]string{}
	if e.Name != "" {
		out["name"] = e.Name
	}
	if e.Quantity != "" {
		out["quantity"] = e.Quantity
	}
	if e.Unit != "" {
		out["unit"] = e.Unit
	}
	if e.Label != "" {
		out["label"] = e.Label
	}
	return json.Marshal(out)
}

// DecodeEntries decodes a JSON list of entries. Anything that is not a list
// yields no entries.
func DecodeEntries(raw json.RawMessage) []UsedEntry {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	out := make([]UsedEntry, 0, len(list))
	for _, item := range list {
		var e UsedEntry
		_ = e.UnmarshalJSON(item)
		out = append(out, e)
	}
	return out
}

func rawQuantity(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return quantityText(v)
}

func quantityText(v interface{}) string {
	switch q := v.(type) {
	case string:
		return strings.TrimSpace(q)
	case float64:
		return strconv.FormatFloat(q, 'f', -1, 64)
	default:
		return ""
	}
}

// Normalized is a used entry reduced to a name and a parsed quantity
type Normalized struct {
	Name   string          `json:"name"`
	Parsed quantity.Parsed `json:"parsed"`
	Raw    string          `json:"raw"`
}

// Normalize reduces an entry to the name to match on and the amount used
func Normalize(e UsedEntry) Normalized {
	if e.IsText() {
		return Normalized{
			Name:   quantity.StripQuantity(e.Text),
			Parsed: quantity.Parse(e.Text),
			Raw:    e.Text,
		}
	}

	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = strings.TrimSpace(e.Label)
	}
	if name == "" {
		name = strings.TrimSpace(e.Text)
	}
	qty := strings.TrimSpace(e.Quantity)
	unit := strings.TrimSpace(e.Unit)

	switch {
	case qty != "" && unit != "":
		combined := fmt.Sprintf("%s %s%s", name, qty, unit)
		return Normalized{Name: name, Parsed: quantity.Parse(combined), Raw: combined}
	case qty != "":
		parsed := quantity.Parsed{Unit: quantity.Count}
		amount, err := strconv.ParseFloat(qty, 64)
		switch {
		case err == nil && amount >= 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0):
			parsed.Amount = amount
		case quantity.Parse(qty).IsAmbiguous():
			parsed.Note = quantity.NoteAmbiguous
		}
		return Normalized{
			Name:   name,
			Parsed: parsed,
			Raw:    strings.TrimSpace(name + " " + qty),
		}
	default:
		return Normalized{
			Name:   name,
			Parsed: quantity.Parsed{Amount: 1, Unit: quantity.Count},
			Raw:    name,
		}
	}
}
