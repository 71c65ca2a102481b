package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luxehomes/property-assistant/internal/domain"
	"github.com/luxehomes/property-assistant/internal/interpret"
	"github.com/luxehomes/property-assistant/internal/repository/redis"
	"github.com/rs/zerolog/log"
)

const (
	greetingContent = "Hello! I can help you find properties. Try asking me about houses in a specific area, price range, or amenities!"

	searchErrorContent = "I encountered an error searching for properties. Please try again."

	noMatchContent = "I couldn't find any properties matching your criteria. Try adjusting your requirements or ask about different areas."

	// recorded in place of the full response for result-bearing turns
	resultsRecordedResponse = "Property results displayed"
)

var (
	ErrEmptyUtterance  = errors.New("utterance is empty")
	ErrTurnInFlight    = errors.New("a turn is already in flight")
	ErrSessionClosed   = errors.New("session is closed")
	ErrSessionNotFound = errors.New("session not found")
)

// ChatService runs the conversational turn pipeline: utterance in,
// constraints parsed and compiled, catalog searched, response message
// composed and the completed turn handed to the history recorder.
type ChatService struct {
	catalog       domain.CatalogStore
	recorder      *HistoryRecorder
	cache         *redis.SearchCache
	pacer         Pacer
	searchTimeout time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewChatService creates a new chat service. cache may be nil; searches
// then always hit the catalog store directly.
func NewChatService(
	catalog domain.CatalogStore,
	recorder *HistoryRecorder,
	cache *redis.SearchCache,
	pacer Pacer,
	searchTimeout time.Duration,
) *ChatService {
	return &ChatService{
		catalog:       catalog,
		recorder:      recorder,
		cache:         cache,
		pacer:         pacer,
		searchTimeout: searchTimeout,
		sessions:      make(map[uuid.UUID]*Session),
	}
}

// CreateSession starts a new conversation, pre-seeded with the greeting
func (s *ChatService) CreateSession(userID *uuid.UUID) *Session {
	session := newSession(userID, greetingContent)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Session returns the session with the given ID
func (s *ChatService) Session(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// CloseSession tears a session down. An in-flight turn is abandoned and
// its completion discarded rather than appended to the absent log.
func (s *ChatService) CloseSession(id uuid.UUID) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.close()
	return nil
}

// Submit runs one conversational turn. Blank submissions and submissions
// while a turn is pending are rejected without touching the log. The
// returned message is the resolved assistant response; if the caller's
// context expires first the turn still completes into the session.
func (s *ChatService) Submit(ctx context.Context, sessionID uuid.UUID, text string) (*domain.Message, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	utterance := strings.TrimSpace(text)
	if utterance == "" {
		return nil, ErrEmptyUtterance
	}

	placeholderID, err := session.beginTurn(utterance)
	if err != nil {
		return nil, err
	}

	done := make(chan domain.Message, 1)
	go s.runTurn(session, placeholderID, utterance, done)

	select {
	case reply := <-done:
		return &reply, nil
	case <-session.ctx.Done():
		return nil, ErrSessionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// runTurn drives Interpreting -> Searching -> Responding for one turn.
// Every failure is terminal for the turn only; the session always comes
// back to accepting input.
func (s *ChatService) runTurn(session *Session, placeholderID uuid.UUID, utterance string, done chan<- domain.Message) {
	constraints := interpret.Parse(utterance)
	spec := interpret.Compile(constraints)

	if err := s.pacer.Pace(session.ctx); err != nil {
		// Session torn down mid-turn; discard the completion.
		return
	}

	properties, searchErr := s.search(session.ctx, spec)
	if session.ctx.Err() != nil {
		return
	}

	var content string
	var attached []domain.Property
	response := ""

	switch {
	case searchErr != nil:
		log.Warn().Err(searchErr).Str("session_id", session.ID.String()).Msg("catalog search failed")
		content = searchErrorContent
		response = content
	case len(properties) == 0:
		content = noMatchContent
		response = content
	default:
		content = resultContent(len(properties))
		attached = properties
		response = resultsRecordedResponse
	}

	reply, ok := session.resolveTurn(placeholderID, content, attached)
	if !ok {
		return
	}

	s.recorder.Record(domain.HistoryRecord{
		UserID:    session.UserID,
		Utterance: utterance,
		Response:  response,
	})

	done <- reply
}

// search consults the result cache when configured, then the catalog
// store under the bounded search timeout. Cache errors degrade to a miss.
func (s *ChatService) search(ctx context.Context, spec domain.QuerySpec) ([]domain.Property, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, spec)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	searchCtx := ctx
	if s.searchTimeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()
	}

	properties, err := s.catalog.Search(searchCtx, spec)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, spec, properties); err != nil {
			log.Debug().Err(err).Msg("failed to cache search results")
		}
	}

	return properties, nil
}

func resultContent(count int) string {
	noun := "properties"
	if count == 1 {
		noun = "property"
	}
	return fmt.Sprintf("I found %d %s matching your search:", count, noun)
}
