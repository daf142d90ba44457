package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/korjavin/fridgechef/pkg/messages"
)

const cookedCallback = "cooked:"

// Routes binds the handlers to bot commands, menu buttons and photo messages
func (h *Handlers) Routes(ctx context.Context, bot *Bot) (map[string]CommandHandler, map[string]CallbackHandler, HandlerFunc) {
	send := func(chatID int64, text string) {
		if _, err := bot.SendMessage(chatID, text); err != nil {
			h.logger.Error("Failed to send message to %d: %v", chatID, err)
		}
	}

	commands := map[string]CommandHandler{
		"start": func(m *tgbotapi.Message) {
			send(m.Chat.ID, messages.Welcome())
		},
		"fridge": func(m *tgbotapi.Message) {
			send(m.Chat.ID, h.Fridge(m.Chat.ID))
		},
		"add": func(m *tgbotapi.Message) {
			send(m.Chat.ID, h.Add(ctx, m.Chat.ID, m.CommandArguments()))
		},
		"used": func(m *tgbotapi.Message) {
			send(m.Chat.ID, h.Used(m.Chat.ID, m.CommandArguments()))
		},
		"menu": func(m *tgbotapi.Message) {
			text, n := h.Menu(ctx, m.Chat.ID)
			if n == 0 {
				send(m.Chat.ID, text)
				return
			}
			if _, err := bot.SendMessageWithKeyboard(m.Chat.ID, text, cookedKeyboard(n)); err != nil {
				h.logger.Error("Failed to send menus to %d: %v", m.Chat.ID, err)
			}
		},
		"cooked": func(m *tgbotapi.Message) {
			send(m.Chat.ID, h.Cooked(m.Chat.ID, m.CommandArguments()))
		},
		"reset": func(m *tgbotapi.Message) {
			send(m.Chat.ID, h.Reset(m.Chat.ID))
		},
	}

	callbacks := map[string]CallbackHandler{
		cookedCallback: func(cb *tgbotapi.CallbackQuery) {
			if err := bot.AnswerCallbackQuery(cb.ID, ""); err != nil {
				h.logger.Warn("Failed to answer callback: %v", err)
			}
			if cb.Message == nil {
				return
			}
			send(cb.Message.Chat.ID, h.Cooked(cb.Message.Chat.ID, strings.TrimPrefix(cb.Data, cookedCallback)))
		},
	}

	photos := func(update tgbotapi.Update) {
		m := update.Message
		if m == nil || len(m.Photo) == 0 {
			return
		}
		url, err := bot.PhotoURL(m.Photo)
		if err != nil {
			h.logger.Error("Failed to fetch photo for %d: %v", m.Chat.ID, err)
			send(m.Chat.ID, messages.Error("read that photo"))
			return
		}
		send(m.Chat.ID, h.Photo(ctx, m.Chat.ID, url))
	}

	return commands, callbacks, photos
}

func cookedKeyboard(n int) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, n)
	for i := range buttons {
		buttons[i] = tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🍳 Cooked %d", i+1), fmt.Sprintf("%s%d", cookedCallback, i+1))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
}
