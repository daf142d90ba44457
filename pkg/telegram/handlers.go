package telegram

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/korjavin/fridgechef/pkg/fridge"
	"github.com/korjavin/fridgechef/pkg/logger"
	"github.com/korjavin/fridgechef/pkg/menu"
	"github.com/korjavin/fridgechef/pkg/messages"
	"github.com/korjavin/fridgechef/pkg/models"
	"github.com/korjavin/fridgechef/pkg/reconcile"
	"github.com/korjavin/fridgechef/pkg/state"
)

// ItemReader turns free text or a photo into item lines such as "牛乳 1L"
type ItemReader interface {
	ParseItemsFromText(ctx context.Context, text string) ([]string, error)
	ExtractItemsFromPhoto(ctx context.Context, photoURL string) ([]string, error)
}

var listSeparators = regexp.MustCompile(`[,、，\n]+`)

// Handlers implements the chat commands. Replies are returned as text so the
// transport stays out of the way.
type Handlers struct {
	fridges   *fridge.Service
	menus     *menu.Service
	reader    ItemReader
	states    *state.Manager
	menuCount int
	logger    *logger.Logger
}

// NewHandlers creates the command handlers. reader may be nil, in which case
// /add splits text locally and photos are not supported.
func NewHandlers(fridges *fridge.Service, menus *menu.Service, reader ItemReader, states *state.Manager, menuCount int) *Handlers {
	return &Handlers{
		fridges:   fridges,
		menus:     menus,
		reader:    reader,
		states:    states,
		menuCount: menuCount,
		logger:    logger.New("telegram"),
	}
}

// OwnerID is the fridge owner for a chat
func OwnerID(chatID int64) string {
	return "tg" + strconv.FormatInt(chatID, 10)
}

// Fridge lists the chat's fridge
func (h *Handlers) Fridge(chatID int64) string {
	items, err := h.fridges.ListItems(OwnerID(chatID))
	if err != nil {
		h.logger.Error("Failed to list items for %d: %v", chatID, err)
		return messages.Error("read your fridge")
	}
	return messages.Fridge(items)
}

// Add puts the items described in text into the fridge
func (h *Handlers) Add(ctx context.Context, chatID int64, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "Tell me what to add, for example: /add 牛乳 1L, 卵 6個"
	}

	lines := splitList(text)
	if h.reader != nil {
		parsed, err := h.reader.ParseItemsFromText(ctx, text)
		if err != nil {
			h.logger.Warn("AI item parsing failed for %d, splitting locally: %v", chatID, err)
		} else if len(parsed) > 0 {
			lines = parsed
		}
	}
	return h.addLines(chatID, lines)
}

// Photo adds the items recognized in a fridge photo
func (h *Handlers) Photo(ctx context.Context, chatID int64, photoURL string) string {
	if h.reader == nil {
		return "Photo scanning is not configured. Use /add instead."
	}
	lines, err := h.reader.ExtractItemsFromPhoto(ctx, photoURL)
	if err != nil {
		h.logger.Error("Failed to scan photo for %d: %v", chatID, err)
		return messages.Error("read that photo")
	}
	return h.addLines(chatID, lines)
}

func (h *Handlers) addLines(chatID int64, lines []string) string {
	owner := OwnerID(chatID)
	added := make([]models.InventoryItem, 0, len(lines))
	for _, line := range lines {
		item := fridge.ParseItem(line)
		saved, err := h.fridges.AddItem(owner, item)
		if err != nil {
			h.logger.Warn("Skipping %q for %d: %v", line, chatID, err)
			continue
		}
		added = append(added, saved)
	}
	return messages.Added(added)
}

// Used takes the listed ingredients out of the fridge
func (h *Handlers) Used(chatID int64, text string) string {
	lines := splitList(text)
	if len(lines) == 0 {
		return "Tell me what you used, for example: /used 牛乳 150ml, 卵 2個"
	}

	used := make([]reconcile.UsedEntry, len(lines))
	for i, line := range lines {
		used[i] = reconcile.Text(line)
	}

	items, adjustments, err := h.fridges.ApplyUsage(OwnerID(chatID), used, false)
	if err != nil {
		h.logger.Error("Failed to apply usage for %d: %v", chatID, err)
		return messages.Error("update your fridge")
	}
	return messages.Consumed(adjustments, items)
}

// Menu suggests menus and remembers them for /cooked. The returned count is
// the number of menus offered.
func (h *Handlers) Menu(ctx context.Context, chatID int64) (string, int) {
	records, err := h.menus.Suggest(ctx, OwnerID(chatID), h.menuCount)
	if err != nil {
		h.logger.Error("Failed to suggest menus for %d: %v", chatID, err)
		return messages.Error("suggest menus"), 0
	}

	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	h.states.SetOffered(chatID, ids)
	return messages.Menus(records), len(records)
}

// Cooked completes the n-th menu of the last listing. An empty argument
// means the first one.
func (h *Handlers) Cooked(chatID int64, arg string) string {
	n := 1
	if arg = strings.TrimSpace(arg); arg != "" {
		var err error
		if n, err = strconv.Atoi(arg); err != nil {
			return "Tell me which menu you cooked by its number, for example: /cooked 1"
		}
	}

	menuID, ok := h.states.Offered(chatID, n)
	if !ok {
		return "I don't have that menu anymore. Ask for new ideas with /menu."
	}

	owner := OwnerID(chatID)
	rec, err := h.menus.Get(owner, menuID)
	if err != nil {
		h.logger.Error("Failed to load menu %s for %d: %v", menuID, chatID, err)
		return messages.Error("find that menu")
	}

	items, adjustments, err := h.menus.Complete(owner, menuID)
	switch {
	case err == nil:
		return messages.Cooked(rec.Menu.Title, adjustments, items)
	case errors.Is(err, menu.ErrAlreadyCompleted):
		return "You already cooked " + rec.Menu.Title + "."
	default:
		h.logger.Error("Failed to complete menu %s for %d: %v", menuID, chatID, err)
		return messages.Error("update your fridge")
	}
}

// Reset empties the fridge
func (h *Handlers) Reset(chatID int64) string {
	if err := h.fridges.ResetFridge(OwnerID(chatID)); err != nil {
		h.logger.Error("Failed to reset fridge for %d: %v", chatID, err)
		return messages.Error("reset your fridge")
	}
	h.states.ClearState(chatID)
	return "🧹 Fridge emptied. Add items with /add or send a photo."
}

func splitList(text string) []string {
	var out []string
	for _, part := range listSeparators.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
