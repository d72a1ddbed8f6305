package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/delphython/fish-shop/internal/application"
	"github.com/delphython/fish-shop/internal/config"
	"github.com/delphython/fish-shop/internal/domain/ports/adapter"
	"github.com/delphython/fish-shop/internal/infra/logging"
)

var _ adapter.BotAdapter = (*Bot)(nil)

// Bot is the dispatcher's outbound port for sending and deleting messages,
// and it polls Telegram updates to feed the dispatcher inbound events.
type Bot struct {
	api     *tgbotapi.BotAPI
	workers int
	log     *zerolog.Logger
}

func NewBot(cfg *config.BotConfig, logger *zerolog.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Bot{api: api, workers: workers, log: logger}, nil
}

// StartPolling consumes the update channel with a small worker pool until
// ctx is cancelled. Events for different chats may interleave; each event
// runs to completion on its worker.
func (b *Bot) StartPolling(ctx context.Context, disp *application.Dispatcher) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for up := range updateChan {
				b.handleUpdate(ctx, disp, up)
			}
		}()
	}

	err := pump(ctx, updates, updateChan)
	wg.Wait()
	return err
}

// pump forwards updates to the worker channel. The forward itself also
// watches ctx, so a full worker channel cannot block shutdown.
func pump(ctx context.Context, in tgbotapi.UpdatesChannel, out chan<- tgbotapi.Update) error {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up := <-in:
			select {
			case out <- up:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, disp *application.Dispatcher, up tgbotapi.Update) {
	ctx = logging.WithTraceID(ctx, uuid.NewString())

	switch {
	case up.CallbackQuery != nil:
		q := up.CallbackQuery
		// Stop the telegram spinner when we return.
		defer func() { _, _ = b.api.Request(tgbotapi.NewCallback(q.ID, "")) }()
		if q.Message == nil {
			return
		}
		disp.HandleEvent(ctx, application.Event{
			ChatID:    q.Message.Chat.ID,
			Payload:   q.Data,
			MessageID: q.Message.MessageID,
			Callback:  true,
		})
	case up.Message != nil && up.Message.Text != "":
		disp.HandleEvent(ctx, application.Event{
			ChatID: up.Message.Chat.ID,
			Text:   up.Message.Text,
		})
	}
}

func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(rows) > 0 {
		msg.ReplyMarkup = keyboard(rows)
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, rows [][]adapter.InlineButton) error {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	msg.Caption = caption
	if len(rows) > 0 {
		msg.ReplyMarkup = keyboard(rows)
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func keyboard(rows [][]adapter.InlineButton) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			r = append(r, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
		}
		kbRows = append(kbRows, r)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}
