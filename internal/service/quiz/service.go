// Package quiz builds flashcards: one prompt, its correct translation, and
// a set of random distractors drawn from the vocabulary visible to the user.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/okutsenko/flashwords/internal/config"
	"github.com/okutsenko/flashwords/internal/domain"
)

type pairProvider interface {
	RandomPair(ctx context.Context, userID int64) (*domain.Pair, error)
	RandomDistractors(ctx context.Context, side domain.Side, excludeText string, userID int64, n int) ([]string, error)
}

// Service is the card generator.
type Service struct {
	pairs       pairProvider
	answerSide  domain.Side
	distractors int
	log         *slog.Logger
}

// New creates a quiz service. cfg.Direction is a deployment-wide setting:
// "source_to_target" shows the source word and asks for the target
// translation; "target_to_source" is the reverse.
func New(pairs pairProvider, cfg config.QuizConfig, log *slog.Logger) *Service {
	answerSide := domain.SideTarget
	if cfg.Direction == config.DirectionTargetToSource {
		answerSide = domain.SideSource
	}

	return &Service{
		pairs:       pairs,
		answerSide:  answerSide,
		distractors: cfg.Distractors,
		log:         log,
	}
}

// BuildCard produces one card for the user: a random visible pair plus up
// to the configured number of distractors on the answer side. The answer is
// always among the choices; the choice order is shuffled.
// Returns domain.ErrNotFound when no pair is visible to the user.
func (s *Service) BuildCard(ctx context.Context, userID int64) (*domain.Card, error) {
	pair, err := s.pairs.RandomPair(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("pick pair: %w", err)
	}

	prompt := pair.Text(s.answerSide.Opposite())
	answer := pair.Text(s.answerSide)

	others, err := s.pairs.RandomDistractors(ctx, s.answerSide, answer, userID, s.distractors)
	if err != nil {
		return nil, fmt.Errorf("pick distractors: %w", err)
	}

	choices := make([]string, 0, len(others)+1)
	choices = append(choices, answer)
	choices = append(choices, others...)
	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	s.log.Debug("card built",
		slog.Int64("user_id", userID),
		slog.Int("choices", len(choices)),
	)

	return &domain.Card{
		Prompt:  prompt,
		Answer:  answer,
		Choices: choices,
	}, nil
}
