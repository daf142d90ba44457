package fridge

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/korjavin/fridgechef/pkg/logger"
	"github.com/korjavin/fridgechef/pkg/models"
	"github.com/korjavin/fridgechef/pkg/names"
	"github.com/korjavin/fridgechef/pkg/quantity"
	"github.com/korjavin/fridgechef/pkg/reconcile"
	"github.com/korjavin/fridgechef/pkg/storage"
)

var (
	// ErrItemNotFound is returned when an item ID is not in the fridge
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidItem is returned for items without a name or with a negative quantity
	ErrInvalidItem = errors.New("invalid item")
)

// Service provides fridge management functionality
type Service struct {
	store      *storage.Store
	reconciler *reconcile.Reconciler
	logger     *logger.Logger

	// serializes read-modify-write of fridge documents
	mu sync.Mutex
}

// New creates a new fridge service
func New(store *storage.Store, reconciler *reconcile.Reconciler) *Service {
	if reconciler == nil {
		reconciler = reconcile.New()
	}
	return &Service{
		store:      store,
		reconciler: reconciler,
		logger:     logger.New("fridge"),
	}
}

func fridgeKey(ownerID string) string {
	return fmt.Sprintf("fridge:%s", ownerID)
}

// GetFridge retrieves the fridge for an owner, creating an empty one on first use
func (s *Service) GetFridge(ownerID string) (*models.Fridge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ownerID)
}

func (s *Service) load(ownerID string) (*models.Fridge, error) {
	key := fridgeKey(ownerID)

	var fridge models.Fridge
	err := s.store.Get(key, &fridge)
	if errors.Is(err, storage.ErrNotFound) {
		fridge = models.Fridge{
			ID:          key,
			OwnerID:     ownerID,
			Items:       []models.InventoryItem{},
			LastUpdated: time.Now(),
		}
		if err := s.store.Set(key, fridge); err != nil {
			return nil, fmt.Errorf("failed to create fridge: %w", err)
		}
		return &fridge, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fridge %s: %w", ownerID, err)
	}
	if fridge.Items == nil {
		fridge.Items = []models.InventoryItem{}
	}
	return &fridge, nil
}

func (s *Service) save(fridge *models.Fridge) error {
	fridge.LastUpdated = time.Now()
	if err := s.store.Set(fridge.ID, fridge); err != nil {
		return fmt.Errorf("failed to save fridge %s: %w", fridge.OwnerID, err)
	}
	return nil
}

// ListItems returns the items in the fridge, in stored order
func (s *Service) ListItems(ownerID string) ([]models.InventoryItem, error) {
	fridge, err := s.GetFridge(ownerID)
	if err != nil {
		return nil, err
	}
	return fridge.Items, nil
}

// AddItem adds an item to the fridge. An item with the same name and unit is
// topped up instead of duplicated.
func (s *Service) AddItem(ownerID string, item models.InventoryItem) (models.InventoryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Unit = strings.TrimSpace(item.Unit)
	if item.Name == "" || item.Quantity < 0 {
		return models.InventoryItem{}, fmt.Errorf("%w: name is required and quantity must not be negative", ErrInvalidItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fridge, err := s.load(ownerID)
	if err != nil {
		return models.InventoryItem{}, err
	}

	key := names.Normalize(item.Name)
	for i, existing := range fridge.Items {
		if names.Normalize(existing.Name) == key && strings.EqualFold(existing.Unit, item.Unit) {
			fridge.Items[i].Quantity += item.Quantity
			if item.Expiry != nil {
				fridge.Items[i].Expiry = item.Expiry
			}
			if err := s.save(fridge); err != nil {
				return models.InventoryItem{}, err
			}
			s.logger.Info("Topped up %s for %s to %v %s", existing.Name, ownerID, fridge.Items[i].Quantity, existing.Unit)
			return fridge.Items[i], nil
		}
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	fridge.Items = append(fridge.Items, item)
	if err := s.save(fridge); err != nil {
		return models.InventoryItem{}, err
	}

	s.logger.Info("Added %s (%v %s) to fridge %s", item.Name, item.Quantity, item.Unit, ownerID)
	return item, nil
}

// UpdateItem replaces the item with the same ID
func (s *Service) UpdateItem(ownerID string, item models.InventoryItem) (models.InventoryItem, error) {
	if strings.TrimSpace(item.Name) == "" || item.Quantity < 0 {
		return models.InventoryItem{}, fmt.Errorf("%w: name is required and quantity must not be negative", ErrInvalidItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fridge, err := s.load(ownerID)
	if err != nil {
		return models.InventoryItem{}, err
	}

	for i := range fridge.Items {
		if fridge.Items[i].ID == item.ID {
			fridge.Items[i] = item
			return item, s.save(fridge)
		}
	}
	return models.InventoryItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, item.ID)
}

// RemoveItem removes an item from the fridge
func (s *Service) RemoveItem(ownerID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fridge, err := s.load(ownerID)
	if err != nil {
		return err
	}

	for i := range fridge.Items {
		if fridge.Items[i].ID == itemID {
			fridge.Items = append(fridge.Items[:i], fridge.Items[i+1:]...)
			return s.save(fridge)
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

// ResetFridge empties the fridge for an owner
func (s *Service) ResetFridge(ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fridge := &models.Fridge{
		ID:      fridgeKey(ownerID),
		OwnerID: ownerID,
		Items:   []models.InventoryItem{},
	}
	return s.save(fridge)
}

// ApplyUsage decrements the fridge by the used ingredients and persists the
// result unless dryRun is set
func (s *Service) ApplyUsage(ownerID string, used []reconcile.UsedEntry, dryRun bool) ([]models.InventoryItem, []reconcile.Adjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fridge, err := s.load(ownerID)
	if err != nil {
		return nil, nil, err
	}

	items, adjustments := s.reconciler.Plan(fridge.Items, used)

	matched := 0
	for _, a := range adjustments {
		if a.ItemIndex >= 0 {
			matched++
		} else {
			s.logger.Debug("No fridge item for %q in %s", a.Entry.Raw, ownerID)
		}
	}

	if dryRun {
		return items, adjustments, nil
	}

	fridge.Items = items
	if err := s.save(fridge); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Applied %d/%d used ingredients to fridge %s", matched, len(used), ownerID)
	return items, adjustments, nil
}

// ParseItem reads a free-text line such as "牛乳 1L" or "卵 6個" into an item
func ParseItem(text string) models.InventoryItem {
	p := quantity.Parse(text)
	item := models.InventoryItem{
		Name:     quantity.StripQuantity(text),
		Quantity: p.Amount,
	}

	switch p.Unit {
	case quantity.Milliliter:
		item.Unit = "ml"
	case quantity.Gram:
		item.Unit = "g"
	case quantity.Count:
		item.Unit = "個"
	default:
		if p.IsAmbiguous() || p.Amount == 0 {
			item.Quantity = 1
			item.Unit = "個"
		}
	}
	return item
}
