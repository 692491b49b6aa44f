// Package seeder populates the global vocabulary: word pairs visible to
// every user. It is idempotent, so re-running it against a database that
// already contains the pairs is a no-op.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okutsenko/flashwords/internal/adapter/postgres"
	"github.com/okutsenko/flashwords/internal/domain"
)

// SeedPair is a source/target word pair to insert as global vocabulary.
type SeedPair struct {
	Source string
	Target string
}

// DefaultPairs is the starter vocabulary every fresh deployment gets.
var DefaultPairs = []SeedPair{
	{Source: "Car", Target: "Машина"},
	{Source: "Green", Target: "Зеленый"},
	{Source: "White", Target: "Белый"},
	{Source: "Peace", Target: "Мир"},
	{Source: "Apple", Target: "Яблоко"},
	{Source: "Orange", Target: "Апельсин"},
	{Source: "Water", Target: "Вода"},
	{Source: "Milk", Target: "Молоко"},
	{Source: "Banana", Target: "Банан"},
	{Source: "Hello", Target: "Привет"},
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Seeder inserts global word pairs directly, bypassing per-user ownership.
type Seeder struct {
	pool *pgxpool.Pool
	tx   txManager
	log  *slog.Logger
}

func New(pool *pgxpool.Pool, tx txManager, log *slog.Logger) *Seeder {
	return &Seeder{pool: pool, tx: tx, log: log.With(slog.String("component", "seeder"))}
}

const (
	upsertSourceSQL = `
		INSERT INTO source_words (word) VALUES ($1)
		ON CONFLICT (word) DO NOTHING`

	upsertTargetSQL = `
		INSERT INTO target_words (word) VALUES ($1)
		ON CONFLICT (word) DO NOTHING`

	selectSourceIDSQL = `SELECT id FROM source_words WHERE word = $1`
	selectTargetIDSQL = `SELECT id FROM target_words WHERE word = $1`

	upsertLinkSQL = `
		INSERT INTO word_links (source_word_id, target_word_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
)

// Run validates and inserts the given pairs. Each pair is seeded in its own
// transaction, so a bad pair does not roll back the ones before it.
func (s *Seeder) Run(ctx context.Context, pairs []SeedPair) error {
	var seeded int
	for _, p := range pairs {
		source := domain.CleanWord(p.Source)
		target := domain.CleanWord(p.Target)
		if err := domain.ValidateWord("source word", source); err != nil {
			return fmt.Errorf("seed pair %q/%q: %w", p.Source, p.Target, err)
		}
		if err := domain.ValidateWord("target word", target); err != nil {
			return fmt.Errorf("seed pair %q/%q: %w", p.Source, p.Target, err)
		}

		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.seedPair(ctx, source, target)
		})
		if err != nil {
			return fmt.Errorf("seed pair %q/%q: %w", source, target, err)
		}
		seeded++
	}

	s.log.Info("seeding finished", slog.Int("pairs", seeded))
	return nil
}

func (s *Seeder) seedPair(ctx context.Context, source, target string) error {
	q := postgres.QuerierFromCtx(ctx, s.pool)

	if _, err := q.Exec(ctx, upsertSourceSQL, source); err != nil {
		return postgres.MapError(err, "source word", source)
	}
	if _, err := q.Exec(ctx, upsertTargetSQL, target); err != nil {
		return postgres.MapError(err, "target word", target)
	}

	var sourceID, targetID int64
	if err := q.QueryRow(ctx, selectSourceIDSQL, source).Scan(&sourceID); err != nil {
		return postgres.MapError(err, "source word", source)
	}
	if err := q.QueryRow(ctx, selectTargetIDSQL, target).Scan(&targetID); err != nil {
		return postgres.MapError(err, "target word", target)
	}

	if _, err := q.Exec(ctx, upsertLinkSQL, sourceID, targetID); err != nil {
		return postgres.MapError(err, "word link", source)
	}
	return nil
}
