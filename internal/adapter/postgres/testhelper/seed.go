package testhelper

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okutsenko/flashwords/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user row with a unique ID and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	user := domain.User{
		ID:        rand.Int63(),
		Name:      "Test User " + uniqueSuffix(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (user_id, user_name, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.Name, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedGlobalPair inserts a word pair visible to every user (no ownership row)
// and returns the filled domain.Pair.
func SeedGlobalPair(t *testing.T, pool *pgxpool.Pool, sourceText, targetText string) domain.Pair {
	t.Helper()
	ctx := context.Background()

	var sourceID, targetID, linkID int64

	err := pool.QueryRow(ctx,
		`INSERT INTO source_words (word) VALUES ($1) RETURNING id`, sourceText,
	).Scan(&sourceID)
	if err != nil {
		t.Fatalf("testhelper: SeedGlobalPair insert source word: %v", err)
	}

	err = pool.QueryRow(ctx,
		`INSERT INTO target_words (word) VALUES ($1) RETURNING id`, targetText,
	).Scan(&targetID)
	if err != nil {
		t.Fatalf("testhelper: SeedGlobalPair insert target word: %v", err)
	}

	err = pool.QueryRow(ctx,
		`INSERT INTO word_links (source_word_id, target_word_id) VALUES ($1, $2) RETURNING id`,
		sourceID, targetID,
	).Scan(&linkID)
	if err != nil {
		t.Fatalf("testhelper: SeedGlobalPair insert link: %v", err)
	}

	return domain.Pair{LinkID: linkID, SourceText: sourceText, TargetText: targetText}
}

// SeedOwnedPair inserts a word pair owned by (visible only to) the given user.
func SeedOwnedPair(t *testing.T, pool *pgxpool.Pool, userID int64, sourceText, targetText string) domain.Pair {
	t.Helper()
	ctx := context.Background()

	pair := SeedGlobalPair(t, pool, sourceText, targetText)

	_, err := pool.Exec(ctx,
		`INSERT INTO user_words (user_id, link_id) VALUES ($1, $2)`,
		userID, pair.LinkID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedOwnedPair insert ownership: %v", err)
	}

	return pair
}
