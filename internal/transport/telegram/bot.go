// Package telegram is the thin I/O shell around the session manager: it
// long-polls updates, forwards text messages, and renders replies with a
// reply keyboard. The core has no dependency on this package.
package telegram

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/okutsenko/flashwords/internal/config"
	"github.com/okutsenko/flashwords/internal/service/session"
	"github.com/okutsenko/flashwords/pkg/ctxutil"
)

// buttonsPerRow matches the original two-column keyboard layout.
const buttonsPerRow = 2

// Bot bridges Telegram updates and the session manager.
type Bot struct {
	api      *tgbotapi.BotAPI
	sessions *session.Manager
	timeout  int
	log      *slog.Logger
}

// New connects to the Telegram API and returns the transport.
func New(cfg config.TelegramConfig, sessions *session.Manager, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.Debug

	return &Bot{
		api:      api,
		sessions: sessions,
		timeout:  cfg.PollTimeout,
		log:      log,
	}, nil
}

// Run long-polls updates until the context is cancelled. Each update is
// handled in its own goroutine; per-user ordering is enforced by the
// session manager.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("telegram transport started", slog.String("bot", b.api.Self.UserName))

	upd := tgbotapi.NewUpdate(0)
	upd.Timeout = b.timeout
	updates := b.api.GetUpdatesChan(upd)

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			wg.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				wg.Wait()
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}

			wg.Add(1)
			go func(m *tgbotapi.Message) {
				defer wg.Done()
				b.handleMessage(ctx, m)
			}(update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	ctx = ctxutil.WithRequestID(ctx, uuid.New().String())
	ctx = ctxutil.WithUserID(ctx, m.Chat.ID)

	name := ""
	if m.From != nil {
		name = m.From.FirstName
	}

	reply := b.sessions.Handle(ctx, session.Message{
		UserID: m.Chat.ID,
		Name:   name,
		Text:   m.Text,
	})

	out := tgbotapi.NewMessage(m.Chat.ID, reply.Text)
	out.ReplyMarkup = buildKeyboard(reply.Choices)

	if _, err := b.api.Send(out); err != nil {
		b.log.Error("send reply",
			slog.Int64("user_id", m.Chat.ID),
			slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
			slog.String("error", err.Error()),
		)
	}
}

// buildKeyboard renders the choice labels plus the static command buttons,
// two per row.
func buildKeyboard(choices []string) tgbotapi.ReplyKeyboardMarkup {
	labels := append(append([]string{}, choices...), session.Commands()...)

	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(labels); i += buttonsPerRow {
		end := i + buttonsPerRow
		if end > len(labels) {
			end = len(labels)
		}
		var row []tgbotapi.KeyboardButton
		for _, label := range labels[i:end] {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, row)
	}

	return tgbotapi.NewReplyKeyboard(rows...)
}
