package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korjavin/fridgechef/pkg/models"
)

func item(id, name string, qty float64, unit string) models.InventoryItem {
	return models.InventoryItem{ID: id, Name: name, Quantity: qty, Unit: unit}
}

func quantities(items []models.InventoryItem) []float64 {
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = it.Quantity
	}
	return out
}

func TestApplyScenarios(t *testing.T) {
	tests := []struct {
		name  string
		items []models.InventoryItem
		used  []UsedEntry
		want  []float64
	}{
		{
			name:  "direct decrement",
			items: []models.InventoryItem{item("1", "牛乳", 500, "ml")},
			used:  []UsedEntry{Text("牛乳 150ml")},
			want:  []float64{350},
		},
		{
			name:  "clamped at zero",
			items: []models.InventoryItem{item("1", "卵", 2, "個")},
			used:  []UsedEntry{Text("卵 5個")},
			want:  []float64{0},
		},
		{
			name:  "no match",
			items: []models.InventoryItem{item("1", "人参", 3, "個")},
			used:  []UsedEntry{Text("存在しない食材")},
			want:  []float64{3},
		},
		{
			name:  "ambiguous amount is a no-op",
			items: []models.InventoryItem{item("1", "塩", 10, "g")},
			used:  []UsedEntry{Text("塩 少々")},
			want:  []float64{10},
		},
		{
			name:  "liquid name overrides stored unit",
			items: []models.InventoryItem{item("1", "オレンジジュース", 1000, "個")},
			used:  []UsedEntry{Text("ジュース 200ml")},
			want:  []float64{800},
		},
		{
			name:  "liters converted before subtracting",
			items: []models.InventoryItem{item("1", "水", 2000, "ml")},
			used:  []UsedEntry{Text("水 1L")},
			want:  []float64{1000},
		},
		{
			name:  "kilograms against grams",
			items: []models.InventoryItem{item("1", "豚肉", 1500, "g")},
			used:  []UsedEntry{Text("豚肉 1kg")},
			want:  []float64{500},
		},
		{
			name:  "count against empty unit",
			items: []models.InventoryItem{item("1", "トマト", 4, "")},
			used:  []UsedEntry{Text("トマト 2-4個")},
			want:  []float64{1},
		},
		{
			name:  "unit mismatch on a solid subtracts as count",
			items: []models.InventoryItem{item("1", "豆腐", 3, "パック")},
			used:  []UsedEntry{Text("豆腐 1個")},
			want:  []float64{2},
		},
		{
			name:  "mismatch with no amount costs one",
			items: []models.InventoryItem{item("1", "鶏肉", 600, "g")},
			used:  []UsedEntry{Structured("鶏肉", "0", "")},
			want:  []float64{599},
		},
		{
			name:  "fallback count for bare name",
			items: []models.InventoryItem{item("1", "卵", 6, "個")},
			used:  []UsedEntry{Text("卵")},
			want:  []float64{5},
		},
		{
			name:  "structured with quantity and unit",
			items: []models.InventoryItem{item("1", "牛乳", 1000, "ml")},
			used:  []UsedEntry{Structured("牛乳", "1/2", "カップ")},
			want:  []float64{880},
		},
		{
			name:  "structured with quantity only is a count",
			items: []models.InventoryItem{item("1", "卵", 6, "個")},
			used:  []UsedEntry{Structured("卵", "2", "")},
			want:  []float64{4},
		},
		{
			name:  "structured with non-numeric quantity only",
			items: []models.InventoryItem{item("1", "卵", 6, "個")},
			used:  []UsedEntry{Structured("卵", "a few", "")},
			want:  []float64{6},
		},
		{
			name:  "structured with nothing but a name",
			items: []models.InventoryItem{item("1", "卵", 6, "個")},
			used:  []UsedEntry{{Name: "卵"}},
			want:  []float64{5},
		},
		{
			name:  "label used when name missing",
			items: []models.InventoryItem{item("1", "卵", 6, "個")},
			used:  []UsedEntry{{Label: "卵", Quantity: "3"}},
			want:  []float64{3},
		},
		{
			name: "entries applied in order to first match",
			items: []models.InventoryItem{
				item("1", "牛乳", 500, "ml"),
				item("2", "低脂肪牛乳", 500, "ml"),
			},
			used: []UsedEntry{Text("牛乳 100ml"), Text("牛乳 100ml")},
			want: []float64{300, 500},
		},
		{
			name:  "rounded to three decimals",
			items: []models.InventoryItem{item("1", "バター", 1, "g")},
			used:  []UsedEntry{Text("バター 0.3333g")},
			want:  []float64{0.667},
		},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Apply(tt.items, tt.used)
			require.Len(t, got, len(tt.want))
			assert.InDeltaSlice(t, tt.want, quantities(got), 1e-9)
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	expiry := "2026-11-01"
	items := []models.InventoryItem{{ID: "1", Name: "牛乳", Quantity: 500, Unit: "ml", Category: "dairy", Expiry: &expiry}}

	got := New().Apply(items, []UsedEntry{Text("牛乳 150ml")})

	assert.Equal(t, 500.0, items[0].Quantity)
	assert.Equal(t, 350.0, got[0].Quantity)
	assert.Equal(t, "dairy", got[0].Category)
	assert.Equal(t, &expiry, got[0].Expiry)
	assert.Equal(t, "1", got[0].ID)
}

func TestApplyEmptyUsedIsIdentity(t *testing.T) {
	items := []models.InventoryItem{item("1", "牛乳", 500, "ml"), item("2", "卵", 3, "個")}

	got := New().Apply(items, nil)
	assert.Equal(t, items, got)

	got[0].Quantity = 1
	assert.Equal(t, 500.0, items[0].Quantity)
}

func TestApplyNilItems(t *testing.T) {
	got := New().Apply(nil, []UsedEntry{Text("牛乳 150ml")})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplyNeverIncreasesNorGoesNegative(t *testing.T) {
	items := []models.InventoryItem{
		item("1", "牛乳", 500, "ml"),
		item("2", "卵", 2, "個"),
		item("3", "塩", 10, "g"),
		item("4", "オレンジジュース", 1000, "本"),
		item("5", "米", 2, "kg"),
		item("6", "", 5, ""),
		item("7", "バター", 1.0006, "箱"),
	}
	used := []UsedEntry{
		Text("牛乳 2L"), Text("卵 10個"), Text("塩 少々"), Text("ジュース 3カップ"),
		Text("米 300g"), Text("なにか"), Text(""), {}, Structured("バター", "0", "g"),
		Structured("卵", "-3", ""), Text("バター 適量"),
	}

	got := New().Apply(items, used)
	for i := range items {
		assert.LessOrEqual(t, got[i].Quantity, items[i].Quantity, "item %s", items[i].ID)
		assert.GreaterOrEqual(t, got[i].Quantity, 0.0, "item %s", items[i].ID)
	}
}

func TestLiquidKeywordsInjectable(t *testing.T) {
	items := []models.InventoryItem{item("1", "だし汁", 500, "パック")}
	used := []UsedEntry{Structured("だし汁", "0", "ml")}

	got, adj := New().Plan(items, used)
	assert.Equal(t, 499.0, got[0].Quantity)
	assert.Equal(t, RuleCountFallback, adj[0].Rule)

	r := New(WithLiquidKeywords([]string{" だし ", ""}))
	got, adj = r.Plan(items, used)
	assert.Equal(t, 500.0, got[0].Quantity)
	assert.Equal(t, RuleLiquidName, adj[0].Rule)
}

func TestPlanReportsAdjustments(t *testing.T) {
	items := []models.InventoryItem{
		item("a", "牛乳", 500, "ml"),
		item("b", "オレンジジュース", 1000, "個"),
		item("c", "豆腐", 2, "パック"),
	}
	used := []UsedEntry{Text("牛乳 150ml"), Text("ジュース 200ml"), Text("豆腐 1丁"), Text("存在しない食材")}

	_, adj := New().Plan(items, used)
	require.Len(t, adj, 4)

	assert.Equal(t, RuleSameUnit, adj[0].Rule)
	assert.Equal(t, "a", adj[0].ItemID)
	assert.Equal(t, 500.0, adj[0].Before)
	assert.Equal(t, 350.0, adj[0].After)

	assert.Equal(t, RuleLiquidName, adj[1].Rule)
	assert.Equal(t, 800.0, adj[1].After)

	assert.Equal(t, RuleCountFallback, adj[2].Rule)
	assert.Equal(t, 1.0, adj[2].After)

	assert.Equal(t, RuleUnmatched, adj[3].Rule)
	assert.Equal(t, -1, adj[3].ItemIndex)
	assert.Empty(t, adj[3].ItemID)
}
