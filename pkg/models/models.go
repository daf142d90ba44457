package models

import (
	"time"
)

// InventoryItem is a single entry in a fridge. Expiry and Category are
// carried through untouched by reconciliation.
type InventoryItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
	Category string  `json:"category,omitempty"`
	Expiry   *string `json:"expiry"`
}

// Fridge is the ordered inventory of one owner. Order matters: ingredient
// matching picks the first plausible item.
type Fridge struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Items       []InventoryItem `json:"items"`
	LastUpdated time.Time       `json:"last_updated"`
}

// MenuIngredient is an ingredient line of a suggested menu
type MenuIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// Menu is a suggested dish
type Menu struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Ingredients []MenuIngredient `json:"ingredients"`
	Steps       []string         `json:"steps"`
	Fallback    bool             `json:"fallback,omitempty"`
}

// MenuRecord is a menu offered to an owner, persisted so it can be completed later
type MenuRecord struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Menu        Menu       `json:"menu"`
	SuggestedAt time.Time  `json:"suggested_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether the menu has already been cooked
func (r MenuRecord) Completed() bool {
	return r.CompletedAt != nil
}
