// Package messages formats bot replies.
package messages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/korjavin/fridgechef/pkg/models"
	"github.com/korjavin/fridgechef/pkg/reconcile"
)

// Welcome is the /start reply
func Welcome() string {
	return "👋 Welcome to FridgeChef! I keep track of your fridge and suggest what to cook.\n\n" +
		"/fridge - show what you have\n" +
		"/add 牛乳 1L, 卵 6個 - add items (or send a photo)\n" +
		"/used 牛乳 150ml - take something out\n" +
		"/menu - get menu ideas\n" +
		"/cooked 1 - cook a suggested menu and update the fridge\n" +
		"/reset - empty the fridge"
}

// EmptyFridge is shown when there is nothing to list
func EmptyFridge() string {
	return "Your fridge is empty! Add items with /add or by sending a photo."
}

// Error is the generic failure reply
func Error(action string) string {
	return "😢 Sorry, I couldn't " + action + ". Please try again later."
}

// Fridge lists the fridge contents
func Fridge(items []models.InventoryItem) string {
	if len(items) == 0 {
		return EmptyFridge()
	}

	var b strings.Builder
	b.WriteString("🧊 Here's what's in your fridge:\n\n")
	for _, it := range items {
		b.WriteString("• " + Item(it))
		if it.Expiry != nil && *it.Expiry != "" {
			b.WriteString(" (until " + *it.Expiry + ")")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Item renders one inventory line such as "牛乳 850ml"
func Item(it models.InventoryItem) string {
	return fmt.Sprintf("%s %s%s", it.Name, formatAmount(it.Quantity), it.Unit)
}

// Added confirms items put in the fridge
func Added(items []models.InventoryItem) string {
	if len(items) == 0 {
		return "I couldn't find any items in your message. Try something like: /add 牛乳 1L, 卵 6個"
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = Item(it)
	}
	return fmt.Sprintf("✅ Added %d item(s): %s", len(items), strings.Join(lines, ", "))
}

// Menus lists suggested menus, numbered for /cooked
func Menus(records []models.MenuRecord) string {
	if len(records) == 0 {
		return "😢 I couldn't come up with anything. Try adding more items."
	}

	var b strings.Builder
	b.WriteString("🍽️ Here are some ideas:\n")
	for i, rec := range records {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, rec.Menu.Title)
		if rec.Menu.Description != "" {
			b.WriteString(rec.Menu.Description + "\n")
		}
		for _, ing := range rec.Menu.Ingredients {
			b.WriteString("  - " + ingredient(ing) + "\n")
		}
	}
	b.WriteString("\nReply /cooked <number> when you've made one.")
	return b.String()
}

// Cooked summarizes what completing a menu took out of the fridge
func Cooked(title string, adjustments []reconcile.Adjustment, items []models.InventoryItem) string {
	return "👨‍🍳 Enjoy your " + title + "!\n\n" + Consumed(adjustments, items)
}

// Consumed summarizes quantity changes
func Consumed(adjustments []reconcile.Adjustment, items []models.InventoryItem) string {
	var changed, skipped []string
	for _, a := range adjustments {
		if a.ItemIndex < 0 || a.ItemIndex >= len(items) {
			if a.Entry.Name != "" {
				skipped = append(skipped, a.Entry.Name)
			}
			continue
		}
		if a.Before == a.After {
			continue
		}
		it := items[a.ItemIndex]
		changed = append(changed, fmt.Sprintf("%s %s → %s%s", it.Name, formatAmount(a.Before), formatAmount(a.After), it.Unit))
	}

	var b strings.Builder
	if len(changed) == 0 {
		b.WriteString("Nothing in the fridge changed.")
	} else {
		b.WriteString("📉 Updated:\n")
		for _, c := range changed {
			b.WriteString("• " + c + "\n")
		}
	}
	if len(skipped) > 0 {
		b.WriteString("\nNot in the fridge: " + strings.Join(skipped, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func ingredient(ing models.MenuIngredient) string {
	if ing.Quantity == "" {
		return ing.Name
	}
	return ing.Name + " " + ing.Quantity + ing.Unit
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
