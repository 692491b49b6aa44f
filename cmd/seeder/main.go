// Command seeder populates the global vocabulary with the starter word
// pairs. Safe to re-run: existing words and links are left untouched.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/okutsenko/flashwords/internal/adapter/postgres"
	"github.com/okutsenko/flashwords/internal/app"
	"github.com/okutsenko/flashwords/internal/config"
	"github.com/okutsenko/flashwords/internal/seeder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	s := seeder.New(pool, txm, logger)
	if err := s.Run(ctx, seeder.DefaultPairs); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
