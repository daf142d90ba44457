package menu

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto"

	"github.com/korjavin/fridgechef/pkg/fridge"
	"github.com/korjavin/fridgechef/pkg/logger"
	"github.com/korjavin/fridgechef/pkg/models"
	"github.com/korjavin/fridgechef/pkg/reconcile"
	"github.com/korjavin/fridgechef/pkg/storage"
)

var (
	// ErrMenuNotFound is returned for unknown menu IDs
	ErrMenuNotFound = errors.New("menu not found")
	// ErrAlreadyCompleted is returned when a menu is completed twice
	ErrAlreadyCompleted = errors.New("menu already completed")
)

// Suggester generates menus from fridge contents
type Suggester interface {
	SuggestMenus(ctx context.Context, items []models.InventoryItem, count int) ([]models.Menu, error)
}

// Service provides menu suggestion and completion
type Service struct {
	store         *storage.Store
	fridgeService *fridge.Service
	ai            Suggester
	cache         *ristretto.Cache
	cacheTTL      time.Duration
	logger        *logger.Logger
	now           func() time.Time

	// held from the completion check until the record is saved
	completeMu sync.Mutex
}

// New creates a new menu service. ai may be nil, in which case only the
// built-in fallback recipe is offered. A zero cacheTTL disables caching.
func New(store *storage.Store, fridgeService *fridge.Service, ai Suggester, cacheTTL time.Duration) (*Service, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion cache: %w", err)
	}

	return &Service{
		store:         store,
		fridgeService: fridgeService,
		ai:            ai,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger.New("menu"),
		now:           time.Now,
	}, nil
}

// Close releases the suggestion cache
func (s *Service) Close() {
	s.cache.Close()
}

func menuPrefix(ownerID string) string {
	return fmt.Sprintf("menu:%s:", ownerID)
}

func menuKey(ownerID, menuID string) string {
	return menuPrefix(ownerID) + menuID
}

// Suggest offers count menus for what is in the owner's fridge. Identical
// requests against an unchanged fridge are answered from cache.
func (s *Service) Suggest(ctx context.Context, ownerID string, count int) ([]models.MenuRecord, error) {
	if count <= 0 {
		count = 1
	}

	items, err := s.fridgeService.ListItems(ownerID)
	if err != nil {
		return nil, err
	}
	inStock := make([]models.InventoryItem, 0, len(items))
	for _, it := range items {
		if it.Quantity > 0 {
			inStock = append(inStock, it)
		}
	}

	cacheKey := fmt.Sprintf("%s|%d|%x", ownerID, count, fingerprint(inStock))
	if s.cacheTTL > 0 {
		if cached, ok := s.cache.Get(cacheKey); ok {
			s.logger.Debug("Serving cached suggestions for %s", ownerID)
			return cached.([]models.MenuRecord), nil
		}
	}

	menus := s.generate(ctx, ownerID, inStock, count)

	now := s.now()
	records := make([]models.MenuRecord, 0, len(menus))
	for i, m := range menus {
		rec := models.MenuRecord{
			ID:          strconv.FormatInt(now.UnixNano()+int64(i), 10),
			OwnerID:     ownerID,
			Menu:        m,
			SuggestedAt: now,
		}
		if err := s.store.Set(menuKey(ownerID, rec.ID), rec); err != nil {
			return nil, fmt.Errorf("failed to save menu: %w", err)
		}
		records = append(records, rec)
	}

	if s.cacheTTL > 0 {
		s.cache.SetWithTTL(cacheKey, records, 1, s.cacheTTL)
		s.cache.Wait()
	}
	return records, nil
}

func (s *Service) generate(ctx context.Context, ownerID string, items []models.InventoryItem, count int) []models.Menu {
	if s.ai == nil {
		return []models.Menu{FallbackMenu(items)}
	}

	menus, err := s.ai.SuggestMenus(ctx, items, count)
	if err != nil || len(menus) == 0 {
		s.logger.Warn("AI suggestions unavailable for %s, using fallback recipe: %v", ownerID, err)
		return []models.Menu{FallbackMenu(items)}
	}
	if len(menus) > count {
		menus = menus[:count]
	}
	return menus
}

// Get returns a single menu record
func (s *Service) Get(ownerID, menuID string) (*models.MenuRecord, error) {
	var rec models.MenuRecord
	if err := s.store.Get(menuKey(ownerID, menuID), &rec); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMenuNotFound, menuID)
		}
		return nil, err
	}
	return &rec, nil
}

// History returns the owner's menus, newest first
func (s *Service) History(ownerID string) ([]models.MenuRecord, error) {
	keys, err := s.store.List(menuPrefix(ownerID))
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}

	records := make([]models.MenuRecord, 0, len(keys))
	for _, key := range keys {
		var rec models.MenuRecord
		if err := s.store.Get(key, &rec); err != nil {
			s.logger.Error("Failed to get menu %s: %v", key, err)
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ID > records[j].ID
	})
	return records, nil
}

// Complete marks a menu as cooked and takes its ingredients out of the fridge
func (s *Service) Complete(ownerID, menuID string) ([]models.InventoryItem, []reconcile.Adjustment, error) {
	s.completeMu.Lock()
	defer s.completeMu.Unlock()

	rec, err := s.Get(ownerID, menuID)
	if err != nil {
		return nil, nil, err
	}
	if rec.Completed() {
		return nil, nil, fmt.Errorf("%w: %s", ErrAlreadyCompleted, menuID)
	}

	items, adjustments, err := s.fridgeService.ApplyUsage(ownerID, UsedEntries(rec.Menu), false)
	if err != nil {
		return nil, nil, err
	}

	done := s.now()
	rec.CompletedAt = &done
	if err := s.store.Set(menuKey(ownerID, menuID), rec); err != nil {
		return nil, nil, fmt.Errorf("failed to update menu: %w", err)
	}

	s.logger.Info("Menu %q completed for %s", rec.Menu.Title, ownerID)
	return items, adjustments, nil
}

// UsedEntries converts a menu's ingredient list into reconciliation input
func UsedEntries(m models.Menu) []reconcile.UsedEntry {
	out := make([]reconcile.UsedEntry, 0, len(m.Ingredients))
	for _, ing := range m.Ingredients {
		out = append(out, reconcile.Structured(ing.Name, ing.Quantity, ing.Unit))
	}
	return out
}

func fingerprint(items []models.InventoryItem) uint64 {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s\x00%g\x00%s\x01", it.Name, it.Quantity, it.Unit)
	}
	return xxhash.Sum64String(b.String())
}
