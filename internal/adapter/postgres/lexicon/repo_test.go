package lexicon_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okutsenko/flashwords/internal/adapter/postgres"
	"github.com/okutsenko/flashwords/internal/adapter/postgres/lexicon"
	"github.com/okutsenko/flashwords/internal/adapter/postgres/testhelper"
	"github.com/okutsenko/flashwords/internal/domain"
)

func newRepo(t *testing.T) (*lexicon.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return lexicon.New(pool), pool
}

// word returns a unique word text so tests on the shared database never
// collide on the UNIQUE(word) constraints.
func word(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

func assertIsDomainError(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected error %v, got %v", want, err)
	}
}

// ---------------------------------------------------------------------------
// RandomPair
// ---------------------------------------------------------------------------

func TestRepo_RandomPair_SeesOwnAndGlobalPairs(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	u := testhelper.SeedUser(t, pool)
	owned := testhelper.SeedOwnedPair(t, pool, u.ID, word("own-src"), word("own-tgt"))
	global := testhelper.SeedGlobalPair(t, pool, word("glob-src"), word("glob-tgt"))

	// The random pick is uniform over all visible links, so collect picks
	// until both seeded links showed up.
	seen := map[int64]bool{}
	for range 500 {
		pair, err := repo.RandomPair(ctx, u.ID)
		if err != nil {
			t.Fatalf("RandomPair: %v", err)
		}
		seen[pair.LinkID] = true
		if seen[owned.LinkID] && seen[global.LinkID] {
			return
		}
	}

	t.Fatalf("RandomPair never returned both seeded links: owned=%v global=%v",
		seen[owned.LinkID], seen[global.LinkID])
}

func TestRepo_RandomPair_NeverReturnsAnotherUsersPair(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	alice := testhelper.SeedUser(t, pool)
	bob := testhelper.SeedUser(t, pool)
	bobsPair := testhelper.SeedOwnedPair(t, pool, bob.ID, word("bob-src"), word("bob-tgt"))
	testhelper.SeedOwnedPair(t, pool, alice.ID, word("alice-src"), word("alice-tgt"))

	for range 100 {
		pair, err := repo.RandomPair(ctx, alice.ID)
		if err != nil {
			t.Fatalf("RandomPair: %v", err)
		}
		if pair.LinkID == bobsPair.LinkID {
			t.Fatalf("RandomPair returned a pair owned by another user: %+v", pair)
		}
	}
}

// Not parallel: runs while the parallel tests are parked so no concurrent
// insert becomes visible between the deletes and the query.
func TestRepo_RandomPair_EmptyVocabulary(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	u := testhelper.SeedUser(t, pool)
	txm := postgres.NewTxManager(pool)

	// Empty the vocabulary inside a rolled-back transaction so the shared
	// database is left untouched.
	sentinel := errors.New("rollback")
	err := txm.RunInTx(ctx, func(ctx context.Context) error {
		for _, table := range []string{"user_words", "word_links", "source_words", "target_words"} {
			if _, err := postgres.QuerierFromCtx(ctx, pool).Exec(ctx, "DELETE FROM "+table); err != nil {
				t.Fatalf("empty table %s: %v", table, err)
			}
		}

		_, err := repo.RandomPair(ctx, u.ID)
		assertIsDomainError(t, err, domain.ErrNotFound)
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunInTx: expected sentinel rollback error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// RandomDistractors
// ---------------------------------------------------------------------------

func TestRepo_RandomDistractors_ExcludesAnswerAndInvisibleWords(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	alice := testhelper.SeedUser(t, pool)
	bob := testhelper.SeedUser(t, pool)

	answer := word("answer")
	testhelper.SeedOwnedPair(t, pool, alice.ID, word("a1-src"), answer)
	visible := testhelper.SeedOwnedPair(t, pool, alice.ID, word("a2-src"), word("a2-tgt"))
	invisible := testhelper.SeedOwnedPair(t, pool, bob.ID, word("b1-src"), word("b1-tgt"))

	words, err := repo.RandomDistractors(ctx, domain.SideTarget, answer, alice.ID, 1000)
	if err != nil {
		t.Fatalf("RandomDistractors: %v", err)
	}

	seen := map[string]int{}
	for _, w := range words {
		seen[w]++
	}

	if seen[answer] != 0 {
		t.Fatalf("distractors contain the excluded answer %q", answer)
	}
	if seen[invisible.TargetText] != 0 {
		t.Fatalf("distractors contain another user's word %q", invisible.TargetText)
	}
	if seen[visible.TargetText] != 1 {
		t.Fatalf("expected exactly one occurrence of %q, got %d",
			visible.TargetText, seen[visible.TargetText])
	}
	for w, n := range seen {
		if n > 1 {
			t.Fatalf("distractor %q returned %d times", w, n)
		}
	}
}

func TestRepo_RandomDistractors_SourceSide(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	u := testhelper.SeedUser(t, pool)
	pair := testhelper.SeedOwnedPair(t, pool, u.ID, word("src-side"), word("tgt-side"))

	words, err := repo.RandomDistractors(ctx, domain.SideSource, word("other"), u.ID, 1000)
	if err != nil {
		t.Fatalf("RandomDistractors: %v", err)
	}

	found := false
	for _, w := range words {
		if w == pair.SourceText {
			found = true
		}
		if w == pair.TargetText {
			t.Fatalf("source-side distractors contain a target word %q", w)
		}
	}
	if !found {
		t.Fatalf("source-side distractors missing the user's own word %q", pair.SourceText)
	}
}

func TestRepo_RandomDistractors_LimitAndZero(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	u := testhelper.SeedUser(t, pool)
	for range 3 {
		testhelper.SeedOwnedPair(t, pool, u.ID, word("lim-src"), word("lim-tgt"))
	}

	words, err := repo.RandomDistractors(ctx, domain.SideTarget, "", u.ID, 2)
	if err != nil {
		t.Fatalf("RandomDistractors: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 distractors, got %d", len(words))
	}

	words, err = repo.RandomDistractors(ctx, domain.SideTarget, "", u.ID, 0)
	if err != nil {
		t.Fatalf("RandomDistractors n=0: %v", err)
	}
	if len(words) != 0 {
		t.Fatalf("expected no distractors for n=0, got %d", len(words))
	}
}

// ---------------------------------------------------------------------------
// FindOwnedLink
// ---------------------------------------------------------------------------

func TestRepo_FindOwnedLink_BothSides(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	u := testhelper.SeedUser(t, pool)
	pair := testhelper.SeedOwnedPair(t, pool, u.ID, word("find-src"), word("find-tgt"))

	bySource, err := repo.FindOwnedLink(ctx, u.ID, domain.SideSource, pair.SourceText)
	if err != nil {
		t.Fatalf("FindOwnedLink source: %v", err)
	}
	if bySource.LinkID != pair.LinkID {
		t.Fatalf("FindOwnedLink source: got link %d, want %d", bySource.LinkID, pair.LinkID)
	}

	byTarget, err := repo.FindOwnedLink(ctx, u.ID, domain.SideTarget, pair.TargetText)
	if err != nil {
		t.Fatalf("FindOwnedLink target: %v", err)
	}
	if byTarget.LinkID != pair.LinkID {
		t.Fatalf("FindOwnedLink target: got link %d, want %d", byTarget.LinkID, pair.LinkID)
	}
}

func TestRepo_FindOwnedLink_GlobalPairNeverMatches(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	u := testhelper.SeedUser(t, pool)
	global := testhelper.SeedGlobalPair(t, pool, word("glob-find-src"), word("glob-find-tgt"))

	_, err := repo.FindOwnedLink(ctx, u.ID, domain.SideSource, global.SourceText)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_FindOwnedLink_OtherUsersPairNotFound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	alice := testhelper.SeedUser(t, pool)
	bob := testhelper.SeedUser(t, pool)
	bobsPair := testhelper.SeedOwnedPair(t, pool, bob.ID, word("bob-find-src"), word("bob-find-tgt"))

	_, err := repo.FindOwnedLink(ctx, alice.ID, domain.SideSource, bobsPair.SourceText)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

func TestRepo_InsertPairUnit(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	u := testhelper.SeedUser(t, pool)
	txm := postgres.NewTxManager(pool)

	sourceText, targetText := word("unit-src"), word("unit-tgt")

	err := txm.RunInTx(ctx, func(ctx context.Context) error {
		sourceID, err := repo.InsertWord(ctx, domain.SideSource, sourceText)
		if err != nil {
			return err
		}
		targetID, err := repo.InsertWord(ctx, domain.SideTarget, targetText)
		if err != nil {
			return err
		}
		linkID, err := repo.InsertLink(ctx, sourceID, targetID)
		if err != nil {
			return err
		}
		return repo.InsertOwnership(ctx, u.ID, linkID)
	})
	if err != nil {
		t.Fatalf("insert pair unit: %v", err)
	}

	refs, err := repo.FindOwnedLink(ctx, u.ID, domain.SideSource, sourceText)
	if err != nil {
		t.Fatalf("FindOwnedLink after insert: %v", err)
	}

	count, err := repo.CountOwned(ctx, u.ID)
	if err != nil {
		t.Fatalf("CountOwned: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountOwned: got %d, want 1", count)
	}
	if refs.SourceWordID == 0 || refs.TargetWordID == 0 {
		t.Fatalf("FindOwnedLink returned incomplete refs: %+v", refs)
	}
}

func TestRepo_InsertWord_DuplicateRollsBackWholeUnit(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	u := testhelper.SeedUser(t, pool)
	txm := postgres.NewTxManager(pool)

	existing := testhelper.SeedGlobalPair(t, pool, word("dup-src"), word("dup-tgt"))
	newSource := word("dup-new-src")

	err := txm.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := repo.InsertWord(ctx, domain.SideSource, newSource); err != nil {
			return err
		}
		// Collides with the already-seeded target word.
		_, err := repo.InsertWord(ctx, domain.SideTarget, existing.TargetText)
		return err
	})
	assertIsDomainError(t, err, domain.ErrAlreadyExists)

	// The first insert of the unit must not survive the rollback.
	var count int
	if err := pool.QueryRow(ctx,
		`SELECT count(*) FROM source_words WHERE word = $1`, newSource,
	).Scan(&count); err != nil {
		t.Fatalf("count orphan: %v", err)
	}
	if count != 0 {
		t.Fatalf("orphan source word survived the rollback: %d rows", count)
	}

	// Nothing was attached to the user either.
	owned, err := repo.CountOwned(ctx, u.ID)
	if err != nil {
		t.Fatalf("CountOwned: %v", err)
	}
	if owned != 0 {
		t.Fatalf("CountOwned after rollback: got %d, want 0", owned)
	}
}

func TestRepo_DeleteLinkCascade(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	u := testhelper.SeedUser(t, pool)
	pair := testhelper.SeedOwnedPair(t, pool, u.ID, word("del-src"), word("del-tgt"))
	txm := postgres.NewTxManager(pool)

	refs, err := repo.FindOwnedLink(ctx, u.ID, domain.SideSource, pair.SourceText)
	if err != nil {
		t.Fatalf("FindOwnedLink: %v", err)
	}

	err = txm.RunInTx(ctx, func(ctx context.Context) error {
		return repo.DeleteLinkCascade(ctx, *refs)
	})
	if err != nil {
		t.Fatalf("DeleteLinkCascade: %v", err)
	}

	checks := []struct {
		query string
		arg   any
	}{
		{`SELECT count(*) FROM user_words WHERE link_id = $1`, refs.LinkID},
		{`SELECT count(*) FROM word_links WHERE id = $1`, refs.LinkID},
		{`SELECT count(*) FROM source_words WHERE id = $1`, refs.SourceWordID},
		{`SELECT count(*) FROM target_words WHERE id = $1`, refs.TargetWordID},
	}
	for _, check := range checks {
		var count int
		if err := pool.QueryRow(ctx, check.query, check.arg).Scan(&count); err != nil {
			t.Fatalf("check %q: %v", check.query, err)
		}
		if count != 0 {
			t.Fatalf("check %q: %d rows left after cascade", check.query, count)
		}
	}

	// Deleting is not idempotent at the service level: the link is gone.
	_, err = repo.FindOwnedLink(ctx, u.ID, domain.SideSource, pair.SourceText)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_CountOwned_IgnoresGlobalAndOthers(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	alice := testhelper.SeedUser(t, pool)
	bob := testhelper.SeedUser(t, pool)

	testhelper.SeedGlobalPair(t, pool, word("cnt-glob-src"), word("cnt-glob-tgt"))
	testhelper.SeedOwnedPair(t, pool, alice.ID, word("cnt-a1-src"), word("cnt-a1-tgt"))
	testhelper.SeedOwnedPair(t, pool, alice.ID, word("cnt-a2-src"), word("cnt-a2-tgt"))
	testhelper.SeedOwnedPair(t, pool, bob.ID, word("cnt-b1-src"), word("cnt-b1-tgt"))

	count, err := repo.CountOwned(ctx, alice.ID)
	if err != nil {
		t.Fatalf("CountOwned: %v", err)
	}
	if count != 2 {
		t.Fatalf("CountOwned: got %d, want 2", count)
	}
}
