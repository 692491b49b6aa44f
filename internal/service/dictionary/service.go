// Package dictionary implements the personal-dictionary operations:
// adding a word pair, deleting one, and counting a user's custom words.
// The multi-row units run inside a single database transaction.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/okutsenko/flashwords/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type lexiconRepo interface {
	InsertWord(ctx context.Context, side domain.Side, text string) (int64, error)
	InsertLink(ctx context.Context, sourceWordID, targetWordID int64) (int64, error)
	InsertOwnership(ctx context.Context, userID, linkID int64) error
	FindOwnedLink(ctx context.Context, userID int64, side domain.Side, text string) (*domain.LinkRefs, error)
	DeleteLinkCascade(ctx context.Context, ids domain.LinkRefs) error
	CountOwned(ctx context.Context, userID int64) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service owns the add/delete unit-of-work over the lexicon repository.
type Service struct {
	lexicon lexiconRepo
	tx      txManager
	log     *slog.Logger
}

// New creates a dictionary service.
func New(lexicon lexiconRepo, tx txManager, log *slog.Logger) *Service {
	return &Service{lexicon: lexicon, tx: tx, log: log}
}

// AddPair inserts a source word, a target word, their link, and the user's
// ownership row as one atomic unit. A uniqueness collision on either word
// returns AddResultDuplicate with the whole unit rolled back; any other
// failure rolls back and is returned as an error.
func (s *Service) AddPair(ctx context.Context, userID int64, sourceText, targetText string) (domain.AddResult, error) {
	sourceText = domain.CleanWord(sourceText)
	targetText = domain.CleanWord(targetText)

	if err := domain.ValidateWord("source word", sourceText); err != nil {
		return 0, err
	}
	if err := domain.ValidateWord("target word", targetText); err != nil {
		return 0, err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		sourceID, err := s.lexicon.InsertWord(ctx, domain.SideSource, sourceText)
		if err != nil {
			return err
		}

		targetID, err := s.lexicon.InsertWord(ctx, domain.SideTarget, targetText)
		if err != nil {
			return err
		}

		linkID, err := s.lexicon.InsertLink(ctx, sourceID, targetID)
		if err != nil {
			return err
		}

		return s.lexicon.InsertOwnership(ctx, userID, linkID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.AddResultDuplicate, nil
		}
		return 0, fmt.Errorf("add pair: %w", err)
	}

	s.log.Info("word pair added",
		slog.Int64("user_id", userID),
		slog.String("source", sourceText),
	)

	return domain.AddResultCreated, nil
}

// DeletePair resolves text against the user's owned links — source side
// first, then target side — and removes the matched link with its ownership
// row and both word rows as one atomic unit. Global pairs never match.
// Returns false when the user owns no pair with that word.
func (s *Service) DeletePair(ctx context.Context, userID int64, text string) (bool, error) {
	text = domain.CleanWord(text)
	if text == "" {
		return false, nil
	}

	deleted := false

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ids, err := s.findOwned(ctx, userID, text)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.lexicon.DeleteLinkCascade(ctx, *ids); err != nil {
			return err
		}

		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete pair: %w", err)
	}

	if deleted {
		s.log.Info("word pair deleted",
			slog.Int64("user_id", userID),
			slog.String("word", text),
		)
	}

	return deleted, nil
}

// findOwned looks the text up on the source side first, then the target
// side, matching the deletion precedence of the user-facing flow.
func (s *Service) findOwned(ctx context.Context, userID int64, text string) (*domain.LinkRefs, error) {
	ids, err := s.lexicon.FindOwnedLink(ctx, userID, domain.SideSource, text)
	if err == nil {
		return ids, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return s.lexicon.FindOwnedLink(ctx, userID, domain.SideTarget, text)
}

// CountOwned returns the number of pairs in the user's personal dictionary.
func (s *Service) CountOwned(ctx context.Context, userID int64) (int, error) {
	count, err := s.lexicon.CountOwned(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count owned: %w", err)
	}
	return count, nil
}
