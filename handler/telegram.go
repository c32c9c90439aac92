package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramMessenger sends messages through the Telegram Bot API and renders
// menus as reply keyboards.
type TelegramMessenger struct {
	bot    *bot.Bot
	labels Labels
}

func NewTelegramMessenger(b *bot.Bot, labels Labels) *TelegramMessenger {
	return &TelegramMessenger{bot: b, labels: labels.WithDefaults()}
}

func (m *TelegramMessenger) Send(ctx context.Context, chatID int64, text string, menu Menu) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup := Keyboard(menu, m.labels); markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := m.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("error sending message to %d: %w", chatID, err)
	}
	return nil
}

// Keyboard returns the reply markup for menu, or nil for MenuKeep.
func Keyboard(menu Menu, labels Labels) models.ReplyMarkup {
	switch menu {
	case MenuNone:
		return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
	case MenuContact:
		return &models.ReplyKeyboardMarkup{
			Keyboard: [][]models.KeyboardButton{
				{{Text: labels.ShareContact, RequestContact: true}},
			},
			ResizeKeyboard:  true,
			OneTimeKeyboard: true,
		}
	case MenuMember:
		return &models.ReplyKeyboardMarkup{
			Keyboard: [][]models.KeyboardButton{
				{{Text: labels.WorkerList}, {Text: labels.Attend}},
			},
			ResizeKeyboard: true,
		}
	case MenuAdmin:
		return &models.ReplyKeyboardMarkup{
			Keyboard: [][]models.KeyboardButton{
				{{Text: labels.RequestWorkers}, {Text: labels.WorkerList}},
			},
			ResizeKeyboard: true,
		}
	default:
		return nil
	}
}

// EventFromUpdate converts a Telegram update. Only messages with a sender
// produce an event.
func EventFromUpdate(update *models.Update) (Event, bool) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return Event{}, false
	}
	msg := update.Message

	ev := Event{
		UserID:   msg.From.ID,
		ChatID:   msg.Chat.ID,
		Username: msg.From.Username,
		Text:     msg.Text,
	}
	if ev.Username == "" {
		ev.Username = msg.From.FirstName
	}
	if msg.Contact != nil {
		ev.Contact = &Contact{
			UserID:      msg.Contact.UserID,
			PhoneNumber: msg.Contact.PhoneNumber,
		}
	}
	return ev, true
}

// TelegramHandler is a bot.HandlerFunc feeding updates into Handle.
func (h *Handler) TelegramHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	ev, ok := EventFromUpdate(update)
	if !ok {
		return
	}
	h.log.Debug().
		Int64("user_id", ev.UserID).
		Str("username", ev.Username).
		Int("text_len", len(ev.Text)).
		Bool("contact", ev.Contact != nil).
		Msg("update received")
	h.Handle(ctx, ev)
}
