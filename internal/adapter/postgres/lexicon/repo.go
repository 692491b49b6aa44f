// Package lexicon implements the word/link/ownership repository using
// PostgreSQL. Fixed queries use raw SQL consts; the side-parameterized
// random-selection queries are built with squirrel.
package lexicon

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okutsenko/flashwords/internal/adapter/postgres"
	"github.com/okutsenko/flashwords/internal/domain"
)

// Repo provides lexical-pair persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lexicon repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// psql builds queries with $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ---------------------------------------------------------------------------
// Raw SQL for fixed queries
// ---------------------------------------------------------------------------

// A link is visible to a user when it has no ownership row (global
// vocabulary) or when the ownership row belongs to that user.
const randomPairSQL = `
SELECT l.id, sw.word, tw.word
FROM word_links l
JOIN source_words sw ON sw.id = l.source_word_id
JOIN target_words tw ON tw.id = l.target_word_id
LEFT JOIN user_words uw ON uw.link_id = l.id
WHERE uw.user_id = $1 OR uw.user_id IS NULL
ORDER BY random()
LIMIT 1`

const findOwnedBySourceSQL = `
SELECT l.id, l.source_word_id, l.target_word_id
FROM source_words w
JOIN word_links l ON l.source_word_id = w.id
JOIN user_words uw ON uw.link_id = l.id
WHERE uw.user_id = $1 AND w.word = $2`

const findOwnedByTargetSQL = `
SELECT l.id, l.source_word_id, l.target_word_id
FROM target_words w
JOIN word_links l ON l.target_word_id = w.id
JOIN user_words uw ON uw.link_id = l.id
WHERE uw.user_id = $1 AND w.word = $2`

const countOwnedSQL = `
SELECT count(*) FROM user_words WHERE user_id = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// RandomPair returns one link visible to the user, chosen uniformly at
// random among all visible links. Returns domain.ErrNotFound when no link
// is visible.
func (r *Repo) RandomPair(ctx context.Context, userID int64) (*domain.Pair, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var p domain.Pair
	err := querier.QueryRow(ctx, randomPairSQL, userID).
		Scan(&p.LinkID, &p.SourceText, &p.TargetText)
	if err != nil {
		return nil, postgres.MapError(err, "pair for user", userID)
	}

	return &p, nil
}

// RandomDistractors returns up to n distinct word texts on the given side,
// drawn uniformly at random from links visible to the user, excluding
// excludeText. Returns an empty slice (not an error) when the visible pool
// is smaller than n.
//
// Distinctness follows from the schema: each word participates in exactly
// one link, and a visible link contributes at most one ownership row.
func (r *Repo) RandomDistractors(ctx context.Context, side domain.Side, excludeText string, userID int64, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}

	table, linkCol := sideTable(side)

	query, args, err := psql.
		Select("w.word").
		From(table + " w").
		Join("word_links l ON l." + linkCol + " = w.id").
		LeftJoin("user_words uw ON uw.link_id = l.id").
		Where(sq.And{
			sq.NotEq{"w.word": excludeText},
			sq.Or{sq.Eq{"uw.user_id": userID}, sq.Eq{"uw.user_id": nil}},
		}).
		OrderBy("random()").
		Limit(uint64(n)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distractors query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "distractors for user", userID)
	}
	defer rows.Close()

	words := []string{}
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan distractor: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "distractors for user", userID)
	}

	return words, nil
}

// FindOwnedLink resolves text against the given side restricted to links
// owned by the user. Global (unowned) links never match. Returns
// domain.ErrNotFound when the user owns no link with that word.
func (r *Repo) FindOwnedLink(ctx context.Context, userID int64, side domain.Side, text string) (*domain.LinkRefs, error) {
	query := findOwnedBySourceSQL
	if side == domain.SideTarget {
		query = findOwnedByTargetSQL
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var ids domain.LinkRefs
	err := querier.QueryRow(ctx, query, userID, text).
		Scan(&ids.LinkID, &ids.SourceWordID, &ids.TargetWordID)
	if err != nil {
		return nil, postgres.MapError(err, "owned link", text)
	}

	return &ids, nil
}

// CountOwned returns the number of ownership rows for the user.
func (r *Repo) CountOwned(ctx context.Context, userID int64) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countOwnedSQL, userID).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "owned count for user", userID)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Write operations
//
// The multi-row units (add pair, delete pair) are composed by the dictionary
// service inside TxManager.RunInTx; every method below picks the transaction
// up from the context.
// ---------------------------------------------------------------------------

// InsertWord inserts a word on the given side and returns its id.
// A unique-constraint collision maps to domain.ErrAlreadyExists.
func (r *Repo) InsertWord(ctx context.Context, side domain.Side, text string) (int64, error) {
	table, _ := sideTable(side)

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var id int64
	err := querier.QueryRow(ctx,
		"INSERT INTO "+table+" (word) VALUES ($1) RETURNING id", text,
	).Scan(&id)
	if err != nil {
		return 0, postgres.MapError(err, "word", text)
	}

	return id, nil
}

// InsertLink creates a link between an existing source and target word.
func (r *Repo) InsertLink(ctx context.Context, sourceWordID, targetWordID int64) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var id int64
	err := querier.QueryRow(ctx,
		`INSERT INTO word_links (source_word_id, target_word_id) VALUES ($1, $2) RETURNING id`,
		sourceWordID, targetWordID,
	).Scan(&id)
	if err != nil {
		return 0, postgres.MapError(err, "link", sourceWordID)
	}

	return id, nil
}

// InsertOwnership marks a link as part of the user's personal dictionary.
func (r *Repo) InsertOwnership(ctx context.Context, userID, linkID int64) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx,
		`INSERT INTO user_words (user_id, link_id) VALUES ($1, $2)`,
		userID, linkID,
	)
	if err != nil {
		return postgres.MapError(err, "ownership of link", linkID)
	}

	return nil
}

// DeleteLinkCascade removes the ownership row(s), the link, and both word
// rows of one link. Deletion order respects the foreign keys; callers run
// it inside a transaction.
func (r *Repo) DeleteLinkCascade(ctx context.Context, ids domain.LinkRefs) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	steps := []struct {
		sql string
		arg int64
	}{
		{`DELETE FROM user_words WHERE link_id = $1`, ids.LinkID},
		{`DELETE FROM word_links WHERE id = $1`, ids.LinkID},
		{`DELETE FROM source_words WHERE id = $1`, ids.SourceWordID},
		{`DELETE FROM target_words WHERE id = $1`, ids.TargetWordID},
	}

	for _, step := range steps {
		if _, err := querier.Exec(ctx, step.sql, step.arg); err != nil {
			return postgres.MapError(err, "link cascade", ids.LinkID)
		}
	}

	return nil
}

// sideTable maps a domain.Side to its word table and word_links join column.
func sideTable(side domain.Side) (table, linkColumn string) {
	if side == domain.SideTarget {
		return "target_words", "target_word_id"
	}
	return "source_words", "source_word_id"
}
