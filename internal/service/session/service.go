// Package session implements the per-user finite-state controller of the
// learning loop. It interprets free-text input against the user's current
// step and dispatches to the card generator and the dictionary service.
//
// Sessions live in process memory for the process lifetime and are not
// persisted across restarts; a message arriving with no session (or no
// card) re-initializes the session with a fresh card instead of failing.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/okutsenko/flashwords/internal/domain"
	"github.com/okutsenko/flashwords/pkg/ctxutil"
)

// Step is the interaction state a user's next message is interpreted in.
type Step int

const (
	StepAwaitingAnswer Step = iota
	StepAwaitingNewWord
	StepAwaitingTranslation
	StepAwaitingDeleteTarget
)

// session is the per-user state record. Creation happens on first contact;
// there is no implicit deletion.
type session struct {
	step        Step
	pendingWord string
	card        *domain.Card
}

// Message is one inbound text from the transport.
type Message struct {
	UserID int64
	Name   string
	Text   string
}

// Reply is what the transport should display: a text and, when a card is
// active, the choice labels for the reply keyboard.
type Reply struct {
	Text    string
	Choices []string
}

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type userRepo interface {
	Exists(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, u domain.User) error
}

type cardBuilder interface {
	BuildCard(ctx context.Context, userID int64) (*domain.Card, error)
}

type dictionaryService interface {
	AddPair(ctx context.Context, userID int64, sourceText, targetText string) (domain.AddResult, error)
	DeletePair(ctx context.Context, userID int64, text string) (bool, error)
	CountOwned(ctx context.Context, userID int64) (int, error)
}

// ---------------------------------------------------------------------------
// Manager
// ---------------------------------------------------------------------------

// stripeCount is the number of per-user lock stripes. Messages from one
// user are serialized on their stripe; distinct users usually proceed in
// parallel.
const stripeCount = 64

// Manager owns every user session and processes one message to completion:
// state read, store operation, state write, reply.
type Manager struct {
	users userRepo
	cards cardBuilder
	dict  dictionaryService
	log   *slog.Logger

	mu       sync.Mutex // guards sessions
	sessions map[int64]*session
	stripes  [stripeCount]sync.Mutex
}

// NewManager creates a session manager.
func NewManager(users userRepo, cards cardBuilder, dict dictionaryService, log *slog.Logger) *Manager {
	return &Manager{
		users:    users,
		cards:    cards,
		dict:     dict,
		log:      log,
		sessions: make(map[int64]*session),
	}
}

// Handle processes one inbound message and returns the reply to display.
// At most one message per user is processed at a time. Store failures are
// logged and surfaced as a generic failure reply with the session state
// rolled back to its pre-operation value.
func (m *Manager) Handle(ctx context.Context, msg Message) Reply {
	stripe := &m.stripes[uint64(msg.UserID)%stripeCount]
	stripe.Lock()
	defer stripe.Unlock()

	greeting, err := m.ensureUser(ctx, msg)
	if err != nil {
		m.logError(ctx, msg.UserID, "ensure user", err)
		return Reply{Text: msgSomethingWrong}
	}

	sess := m.session(msg.UserID)
	prevStep, prevPending := sess.step, sess.pendingWord

	reply, err := m.dispatch(ctx, sess, msg.UserID, strings.TrimSpace(msg.Text))
	if err != nil {
		sess.step, sess.pendingWord = prevStep, prevPending
		m.logError(ctx, msg.UserID, "handle message", err)
		return Reply{Text: msgSomethingWrong}
	}

	if greeting != "" {
		reply.Text = joinLines(greeting, reply.Text)
	}
	return reply
}

func (m *Manager) dispatch(ctx context.Context, sess *session, userID int64, text string) (Reply, error) {
	switch sess.step {
	case StepAwaitingNewWord:
		return m.handleNewWord(sess, text)
	case StepAwaitingTranslation:
		return m.handleTranslation(ctx, sess, userID, text)
	case StepAwaitingDeleteTarget:
		return m.handleDeleteTarget(ctx, sess, userID, text)
	default:
		return m.handleAnswer(ctx, sess, userID, text)
	}
}

// ---------------------------------------------------------------------------
// Step handlers
// ---------------------------------------------------------------------------

func (m *Manager) handleAnswer(ctx context.Context, sess *session, userID int64, text string) (Reply, error) {
	switch text {
	case CommandNext:
		return m.nextCard(ctx, sess, userID, "")
	case CommandAddWord:
		sess.step = StepAwaitingNewWord
		return Reply{Text: msgPromptNewWord}, nil
	case CommandDeleteWord:
		sess.step = StepAwaitingDeleteTarget
		return Reply{Text: msgPromptDeleteTarget}, nil
	}

	if sess.card == nil {
		// No card to grade against (first message or process restart):
		// start the loop instead of failing.
		return m.nextCard(ctx, sess, userID, "")
	}

	if sess.card.IsCorrect(text) {
		return m.nextCard(ctx, sess, userID, msgCorrect(sess.card.Answer, sess.card.Prompt))
	}

	// Wrong answer: the card stays as is; the picked choice is marked in
	// this reply only.
	return Reply{
		Text:    msgWrong(sess.card.Prompt),
		Choices: markWrongChoice(sess.card.Choices, text),
	}, nil
}

func (m *Manager) handleNewWord(sess *session, text string) (Reply, error) {
	word := domain.CleanWord(text)
	if word == "" {
		return Reply{Text: msgPromptNewWord}, nil
	}

	sess.pendingWord = word
	sess.step = StepAwaitingTranslation
	return Reply{Text: msgPromptTranslation(word)}, nil
}

func (m *Manager) handleTranslation(ctx context.Context, sess *session, userID int64, text string) (Reply, error) {
	translation := domain.CleanWord(text)
	if translation == "" {
		return Reply{Text: msgPromptTranslation(sess.pendingWord)}, nil
	}

	result, err := m.dict.AddPair(ctx, userID, sess.pendingWord, translation)
	if err != nil {
		return Reply{}, err
	}

	sess.step = StepAwaitingAnswer
	sess.pendingWord = ""

	if result == domain.AddResultDuplicate {
		return Reply{Text: msgDuplicate, Choices: m.currentChoices(sess)}, nil
	}

	count, err := m.dict.CountOwned(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	return Reply{Text: msgAdded(translation, count), Choices: m.currentChoices(sess)}, nil
}

func (m *Manager) handleDeleteTarget(ctx context.Context, sess *session, userID int64, text string) (Reply, error) {
	deleted, err := m.dict.DeletePair(ctx, userID, text)
	if err != nil {
		return Reply{}, err
	}

	sess.step = StepAwaitingAnswer

	if !deleted {
		return Reply{Text: msgNotInDict, Choices: m.currentChoices(sess)}, nil
	}

	count, err := m.dict.CountOwned(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	return Reply{Text: msgDeleted(domain.CleanWord(text), count), Choices: m.currentChoices(sess)}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// nextCard builds a fresh card, stores it in the session, and returns the
// prompt (prefixed with feedback from the previous turn, if any).
func (m *Manager) nextCard(ctx context.Context, sess *session, userID int64, feedback string) (Reply, error) {
	card, err := m.cards.BuildCard(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	sess.card = card
	sess.step = StepAwaitingAnswer

	return Reply{
		Text:    joinLines(feedback, msgChooseTranslation(card.Prompt)),
		Choices: card.Choices,
	}, nil
}

// ensureUser creates the user record on first contact, before any state
// transition runs. Returns the greeting to prepend for new users.
// A concurrent create from another process is tolerated.
func (m *Manager) ensureUser(ctx context.Context, msg Message) (string, error) {
	exists, err := m.users.Exists(ctx, msg.UserID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", nil
	}

	name := strings.TrimSpace(msg.Name)
	if name == "" {
		name = "друг"
	}

	err = m.users.Create(ctx, domain.User{ID: msg.UserID, Name: name})
	if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return "", err
	}

	m.log.Info("new user registered", slog.Int64("user_id", msg.UserID))
	return msgGreeting(name), nil
}

// session returns the user's session record, creating it on first access.
func (m *Manager) session(userID int64) *session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		s = &session{}
		m.sessions[userID] = s
	}
	return s
}

// currentChoices returns the active card's choices so the keyboard is
// restored after an add/delete detour; nil when no card is active.
func (m *Manager) currentChoices(sess *session) []string {
	if sess.card == nil {
		return nil
	}
	return sess.card.Choices
}

// markWrongChoice returns a copy of choices with the picked wrong choice
// marked. The card itself is never mutated.
func markWrongChoice(choices []string, picked string) []string {
	marked := make([]string, len(choices))
	for i, c := range choices {
		if c == picked {
			marked[i] = c + wrongChoiceMark
		} else {
			marked[i] = c
		}
	}
	return marked
}

func (m *Manager) logError(ctx context.Context, userID int64, op string, err error) {
	m.log.Error(op,
		slog.Int64("user_id", userID),
		slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
		slog.String("error", err.Error()),
	)
}
