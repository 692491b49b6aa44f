package app

import (
	"context"
	"log/slog"

	"github.com/okutsenko/flashwords/internal/adapter/postgres"
	"github.com/okutsenko/flashwords/internal/adapter/postgres/lexicon"
	"github.com/okutsenko/flashwords/internal/adapter/postgres/user"
	"github.com/okutsenko/flashwords/internal/config"
	"github.com/okutsenko/flashwords/internal/service/dictionary"
	"github.com/okutsenko/flashwords/internal/service/quiz"
	"github.com/okutsenko/flashwords/internal/service/session"
	"github.com/okutsenko/flashwords/internal/transport/telegram"
)

// Run is the application entry point: it loads configuration, initializes
// the logger and the database pool, wires the services, and runs the
// Telegram transport until the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	lexiconRepo := lexicon.New(pool)
	userRepo := user.New(pool)

	dict := dictionary.New(lexiconRepo, txm, logger)
	cards := quiz.New(lexiconRepo, cfg.Quiz, logger)
	sessions := session.NewManager(userRepo, cards, dict, logger)

	bot, err := telegram.New(cfg.Telegram, sessions, logger)
	if err != nil {
		return err
	}

	return bot.Run(ctx)
}
