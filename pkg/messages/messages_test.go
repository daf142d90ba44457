package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/korjavin/fridgechef/pkg/models"
	"github.com/korjavin/fridgechef/pkg/reconcile"
)

func TestFridge(t *testing.T) {
	assert.Equal(t, EmptyFridge(), Fridge(nil))

	expiry := "2026-10-20"
	got := Fridge([]models.InventoryItem{
		{Name: "牛乳", Quantity: 850, Unit: "ml", Expiry: &expiry},
		{Name: "卵", Quantity: 4, Unit: "個"},
		{Name: "米", Quantity: 1.5, Unit: "kg"},
	})
	assert.Equal(t, "🧊 Here's what's in your fridge:\n\n• 牛乳 850ml (until 2026-10-20)\n• 卵 4個\n• 米 1.5kg\n", got)
}

func TestMenus(t *testing.T) {
	got := Menus([]models.MenuRecord{{
		ID: "1",
		Menu: models.Menu{
			Title:       "親子丼",
			Ingredients: []models.MenuIngredient{{Name: "卵", Quantity: "2", Unit: "個"}, {Name: "醤油"}},
		},
	}})
	assert.Contains(t, got, "1. 親子丼")
	assert.Contains(t, got, "  - 卵 2個\n")
	assert.Contains(t, got, "  - 醤油\n")
	assert.Contains(t, got, "/cooked")
}

func TestConsumed(t *testing.T) {
	items := []models.InventoryItem{
		{Name: "牛乳", Quantity: 850, Unit: "ml"},
		{Name: "塩", Quantity: 10, Unit: "g"},
	}
	adjustments := []reconcile.Adjustment{
		{ItemIndex: 0, Before: 1000, After: 850},
		{ItemIndex: 1, Before: 10, After: 10},
		{ItemIndex: -1, Entry: reconcile.Normalized{Name: "バター"}},
	}

	assert.Equal(t, "📉 Updated:\n• 牛乳 1000 → 850ml\n\nNot in the fridge: バター", Consumed(adjustments, items))
	assert.Equal(t, "Nothing in the fridge changed.", Consumed(nil, items))
}

func TestAdded(t *testing.T) {
	assert.Equal(t, "✅ Added 2 item(s): 牛乳 1000ml, 卵 6個", Added([]models.InventoryItem{
		{Name: "牛乳", Quantity: 1000, Unit: "ml"},
		{Name: "卵", Quantity: 6, Unit: "個"},
	}))
	assert.Contains(t, Added(nil), "couldn't find")
}
