package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luxehomes/property-assistant/internal/domain"
)

// Session is one conversation: an ordered, append-only message log plus
// the single-flight pending gate. Messages are never reordered or
// mutated after append, except for the in-place replacement of the
// thinking placeholder when its turn completes.
type Session struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	CreatedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	messages []domain.Message
	pending  bool
	closed   bool
}

// SessionSnapshot is a read-only copy of session state for rendering
type SessionSnapshot struct {
	ID        uuid.UUID        `json:"id"`
	UserID    *uuid.UUID       `json:"user_id,omitempty"`
	Pending   bool             `json:"pending"`
	Messages  []domain.Message `json:"messages"`
	CreatedAt time.Time        `json:"created_at"`
}

func newSession(userID *uuid.UUID, greeting string) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.messages = append(s.messages, domain.Message{
		ID:        uuid.New(),
		Role:      domain.RoleAssistant,
		Content:   greeting,
		CreatedAt: s.CreatedAt,
	})
	return s
}

// Snapshot returns a copy of the current session state
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]domain.Message, len(s.messages))
	copy(messages, s.messages)

	return SessionSnapshot{
		ID:        s.ID,
		UserID:    s.UserID,
		Pending:   s.pending,
		Messages:  messages,
		CreatedAt: s.CreatedAt,
	}
}

// Pending reports whether a turn is currently in flight
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// beginTurn appends the user message and the thinking placeholder and
// raises the pending gate. The gate serializes turns: a second submit
// while one is in flight fails with ErrTurnInFlight.
func (s *Session) beginTurn(utterance string) (placeholderID uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return uuid.Nil, ErrSessionClosed
	}
	if s.pending {
		return uuid.Nil, ErrTurnInFlight
	}

	now := time.Now().UTC()
	s.messages = append(s.messages, domain.Message{
		ID:        uuid.New(),
		Role:      domain.RoleUser,
		Content:   utterance,
		CreatedAt: now,
	})

	placeholderID = uuid.New()
	s.messages = append(s.messages, domain.Message{
		ID:        placeholderID,
		Role:      domain.RoleAssistant,
		Pending:   true,
		CreatedAt: now,
	})

	s.pending = true
	return placeholderID, nil
}

// resolveTurn replaces the thinking placeholder with the real response
// and clears the pending gate. It reports false when the session was
// closed while the turn was in flight; the completion is then discarded.
func (s *Session) resolveTurn(placeholderID uuid.UUID, content string, properties []domain.Property) (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.Message{}, false
	}

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID != placeholderID {
			continue
		}
		s.messages[i].Content = content
		s.messages[i].Properties = properties
		s.messages[i].Pending = false
		s.pending = false
		return s.messages[i], true
	}

	return domain.Message{}, false
}

// close tears the session down, abandoning any in-flight turn
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.pending = false
	s.mu.Unlock()
	s.cancel()
}
