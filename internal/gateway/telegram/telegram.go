// Package telegram adapts the gateway boundary to the Telegram Bot API:
// callback queries and messages become normalized events, render requests
// become (edited) messages with inline keyboards.
package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"homestock/internal/gateway"
)

// Dispatcher consumes normalized events; the dialog engine implements it.
type Dispatcher interface {
	HandleEvent(ctx context.Context, ev gateway.Event) error
}

type Adapter struct {
	bot        *tgbotapi.BotAPI
	dispatcher Dispatcher
}

func New(token string, dispatcher Dispatcher) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("Telegram connected as @%s", bot.Self.UserName)
	return &Adapter{bot: bot, dispatcher: dispatcher}, nil
}

// Run long-polls for updates until the context is cancelled. Updates are
// handled sequentially; per-owner serialization is the engine's job.
func (a *Adapter) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := a.bot.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return ctx.Err()
		case upd := <-updates:
			a.HandleUpdate(ctx, upd)
		}
	}
}

// SetWebhook registers the webhook URL with Telegram; used instead of Run
// when updates arrive over HTTP.
func (a *Adapter) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	_, err = a.bot.Request(wh)
	return err
}

// HandleUpdate translates and dispatches one raw update. Exported so the
// webhook receiver can feed updates through the same path as polling.
func (a *Adapter) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	ev, ok := translate(upd)
	if !ok {
		return
	}
	if err := a.dispatcher.HandleEvent(ctx, ev); err != nil {
		// One render attempt per event; delivery failures are not retried.
		log.Printf("dispatch %s: owner %d: %v", ev.ID, ev.Owner, err)
	}
	if upd.CallbackQuery != nil {
		if _, err := a.bot.Request(tgbotapi.NewCallback(upd.CallbackQuery.ID, "")); err != nil {
			log.Printf("answering callback %s: %v", upd.CallbackQuery.ID, err)
		}
	}
}

func translate(upd tgbotapi.Update) (gateway.Event, bool) {
	switch {
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		return gateway.Event{
			ID:        uuid.New(),
			Owner:     upd.CallbackQuery.Message.Chat.ID,
			Kind:      gateway.EventButton,
			Payload:   upd.CallbackQuery.Data,
			MessageID: upd.CallbackQuery.Message.MessageID,
		}, true
	case upd.Message != nil && upd.Message.IsCommand():
		return gateway.Event{
			ID:    uuid.New(),
			Owner: upd.Message.Chat.ID,
			Kind:  gateway.EventCommand,
			Text:  upd.Message.Command(),
		}, true
	case upd.Message != nil && upd.Message.Text != "":
		return gateway.Event{
			ID:    uuid.New(),
			Owner: upd.Message.Chat.ID,
			Kind:  gateway.EventText,
			Text:  upd.Message.Text,
		}, true
	}
	return gateway.Event{}, false
}

func keyboard(rows [][]gateway.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	markup := tgbotapi.InlineKeyboardMarkup{}
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Payload))
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return &markup
}

// Send delivers one render request. Edits that fail (deleted or too-old
// messages) fall back to sending a fresh message.
func (a *Adapter) Send(ctx context.Context, owner int64, r gateway.Render) error {
	markup := keyboard(r.Keyboard)

	if r.Edit && r.MessageID != 0 {
		edit := tgbotapi.NewEditMessageText(owner, r.MessageID, r.Text)
		edit.ReplyMarkup = markup
		_, err := a.bot.Send(edit)
		if err == nil {
			return nil
		}
		log.Printf("editing message %d for owner %d: %v", r.MessageID, owner, err)
	}

	msg := tgbotapi.NewMessage(owner, r.Text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err := a.bot.Send(msg)
	return err
}
