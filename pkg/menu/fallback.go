package menu

import (
	"strconv"
	"strings"

	"github.com/korjavin/fridgechef/pkg/models"
)

const fallbackIngredients = 3

// FallbackMenu is the recipe offered when no AI suggestion is available.
// It is deterministic: a stir-fry of the first few in-stock items, using a
// modest portion of each.
func FallbackMenu(items []models.InventoryItem) models.Menu {
	var ingredients []models.MenuIngredient
	for _, it := range items {
		if it.Quantity <= 0 || strings.TrimSpace(it.Name) == "" {
			continue
		}
		ingredients = append(ingredients, portion(it))
		if len(ingredients) == fallbackIngredients {
			break
		}
	}

	if len(ingredients) == 0 {
		return models.Menu{
			Title:       "卵かけご飯",
			Description: "Rice with a raw egg and soy sauce. Nothing in the fridge yet.",
			Ingredients: []models.MenuIngredient{
				{Name: "ご飯", Quantity: "1", Unit: "杯"},
				{Name: "卵", Quantity: "1", Unit: "個"},
				{Name: "醤油", Quantity: "少々"},
			},
			Steps: []string{
				"Put hot rice in a bowl.",
				"Crack the egg over the rice.",
				"Season with soy sauce and mix.",
			},
			Fallback: true,
		}
	}

	names := make([]string, len(ingredients))
	for i, ing := range ingredients {
		names[i] = ing.Name
	}

	return models.Menu{
		Title:       "残り物炒め (" + strings.Join(names, "・") + ")",
		Description: "A quick stir-fry with what is in the fridge.",
		Ingredients: append(ingredients, models.MenuIngredient{Name: "塩", Quantity: "少々"}),
		Steps: []string{
			"Cut everything into bite-sized pieces.",
			"Heat oil in a pan over medium-high heat.",
			"Stir-fry the firmest ingredients first, then the rest.",
			"Season with salt and serve.",
		},
		Fallback: true,
	}
}

func portion(it models.InventoryItem) models.MenuIngredient {
	unit := it.Unit
	amount := 1.0
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "ml", "g":
		amount = 100
	case "l", "kg":
		// A bare number is taken in the item's own unit; "0.1L" would be
		// read as 100ml and subtracted from a quantity counted in liters.
		amount = 0.1
		unit = ""
	}
	if amount > it.Quantity {
		amount = it.Quantity
	}
	return models.MenuIngredient{
		Name:     it.Name,
		Quantity: strconv.FormatFloat(amount, 'f', -1, 64),
		Unit:     unit,
	}
}
