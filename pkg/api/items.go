package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/korjavin/fridgechef/pkg/models"
)

// decodeItem reads one inventory element. Fields of the wrong type are
// coerced where possible and left at their zero value otherwise. Only
// non-objects are rejected.
func decodeItem(raw json.RawMessage) (models.InventoryItem, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return models.InventoryItem{}, false
	}

	item := models.InventoryItem{
		ID:       looseString(fields["id"]),
		Name:     looseString(fields["name"]),
		Quantity: looseNumber(fields["quantity"]),
		Unit:     looseString(fields["unit"]),
		Category: looseString(fields["category"]),
	}
	if expiry, ok := fields["expiry"].(string); ok {
		item.Expiry = &expiry
	}
	return item, true
}

func looseString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

func looseNumber(v interface{}) float64 {
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
