package reconcile

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/korjavin/fridgechef/pkg/match"
	"github.com/korjavin/fridgechef/pkg/models"
	"github.com/korjavin/fridgechef/pkg/quantity"
)

// DefaultLiquidKeywords mark items that are liquids whatever unit they are stored in
var DefaultLiquidKeywords = []string{"牛乳", "ミルク", "milk", "ジュース", "水"}

// Rule names the branch of the decision table that produced an adjustment
type Rule string

const (
	RuleUnmatched     Rule = "unmatched"
	RuleSameUnit      Rule = "same-unit"
	RuleLiquidName    Rule = "liquid-name"
	RuleCountFallback Rule = "count-fallback"
)

var (
	volumeUnitRe = regexp.MustCompile(`l|ml`)
	weightUnitRe = regexp.MustCompile(`kg|g`)
	countUnitRe  = regexp.MustCompile(`個|枚|本|count`)
)

// Adjustment records what one used entry did to the inventory
type Adjustment struct {
	Entry     Normalized `json:"entry"`
	ItemIndex int        `json:"item_index"`
	ItemID    string     `json:"item_id,omitempty"`
	Before    float64    `json:"before"`
	After     float64    `json:"after"`
	Rule      Rule       `json:"rule"`
}

// Reconciler decrements inventory by the ingredients a cooked menu used.
// It holds no mutable state and is safe for concurrent use.
type Reconciler struct {
	liquids []string
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithLiquidKeywords replaces the liquid name fragments
func WithLiquidKeywords(keywords []string) Option {
	return func(r *Reconciler) {
		r.liquids = make([]string, 0, len(keywords))
		for _, k := range keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				r.liquids = append(r.liquids, k)
			}
		}
	}
}

// New creates a Reconciler
func New(opts ...Option) *Reconciler {
	r := &Reconciler{}
	WithLiquidKeywords(DefaultLiquidKeywords)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply returns a copy of items with quantities reduced by used
func (r *Reconciler) Apply(items []models.InventoryItem, used []UsedEntry) []models.InventoryItem {
	out, _ := r.Plan(items, used)
	return out
}

// Plan is Apply that also reports one Adjustment per used entry, in order
func (r *Reconciler) Plan(items []models.InventoryItem, used []UsedEntry) ([]models.InventoryItem, []Adjustment) {
	working := make([]models.InventoryItem, len(items))
	copy(working, items)

	adjustments := make([]Adjustment, 0, len(used))
	for _, e := range used {
		n := Normalize(e)
		idx := match.Index(n.Name, itemNames(working))
		if idx < 0 {
			adjustments = append(adjustments, Adjustment{Entry: n, ItemIndex: -1, Rule: RuleUnmatched})
			continue
		}

		item := &working[idx]
		before := item.Quantity
		after, rule := r.decrement(*item, n.Parsed)
		item.Quantity = after

		adjustments = append(adjustments, Adjustment{
			Entry:     n,
			ItemIndex: idx,
			ItemID:    item.ID,
			Before:    before,
			After:     after,
			Rule:      rule,
		})
	}

	return working, adjustments
}

func (r *Reconciler) decrement(item models.InventoryItem, p quantity.Parsed) (float64, Rule) {
	unit := strings.ToLower(strings.TrimSpace(item.Unit))
	used := p.Amount

	switch {
	case p.Unit == quantity.Milliliter && (unit == "ml" || volumeUnitRe.MatchString(unit)):
		return subtract(item.Quantity, used), RuleSameUnit
	case p.Unit == quantity.Gram && (unit == "g" || weightUnitRe.MatchString(unit)):
		return subtract(item.Quantity, used), RuleSameUnit
	case p.Unit == quantity.Count && (unit == "" || countUnitRe.MatchString(unit)):
		return subtract(item.Quantity, used), RuleSameUnit
	}

	if r.isLiquid(item.Name) {
		// The name says liquid; trust the used unit over the stored label.
		return subtract(item.Quantity, used), RuleLiquidName
	}

	// "a little salt" never costs a whole unit
	if used == 0 && !p.IsAmbiguous() {
		used = 1
	}
	return subtract(item.Quantity, used), RuleCountFallback
}

func (r *Reconciler) isLiquid(name string) bool {
	lower := strings.ToLower(name)
	for _, k := range r.liquids {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func subtract(have, used float64) float64 {
	if math.IsNaN(used) || used < 0 {
		used = 0
	}
	after := round3(math.Max(0, have-used))
	// rounding must not give back what was never there
	if after > have {
		after = math.Max(0, have)
	}
	return after
}

func round3(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(3).InexactFloat64()
}

func itemNames(items []models.InventoryItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
