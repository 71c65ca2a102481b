package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luxehomes/property-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(catalog domain.CatalogStore, history domain.HistoryStore) *ChatService {
	return NewChatService(
		catalog,
		NewHistoryRecorder(history, time.Second),
		nil, // no search cache
		NewFixedPacer(0),
		time.Second,
	)
}

func sampleProperties(n int) []domain.Property {
	properties := make([]domain.Property, n)
	for i := range properties {
		properties[i] = domain.Property{
			ID:           uuid.New(),
			Title:        "Listing",
			Price:        450000,
			Area:         "Miami Beach",
			Bedrooms:     3,
			PropertyType: "house",
			Status:       domain.StatusAvailable,
			Amenities:    []string{"pool"},
		}
	}
	return properties
}

func TestCreateSession_SeedsGreeting(t *testing.T) {
	svc := newTestService(new(MockCatalogStore), nil)

	session := svc.CreateSession(nil)
	snapshot := session.Snapshot()

	require.Len(t, snapshot.Messages, 1)
	assert.Equal(t, domain.RoleAssistant, snapshot.Messages[0].Role)
	assert.Contains(t, snapshot.Messages[0].Content, "I can help you find properties")
	assert.False(t, snapshot.Pending)
}

func TestSubmit_ResultBearingTurn(t *testing.T) {
	catalog := new(MockCatalogStore)
	history := new(MockHistoryStore)
	svc := newTestService(catalog, history)
	session := svc.CreateSession(nil)

	results := sampleProperties(2)
	catalog.On("Search", mock.Anything, mock.MatchedBy(func(spec domain.QuerySpec) bool {
		return spec.Limit == 6 && len(spec.Filters) == 5
	})).Return(results, nil)

	history.On("Append", mock.Anything, mock.MatchedBy(func(r domain.HistoryRecord) bool {
		return r.Utterance == "Show me available houses in Miami under 500000 with pool" &&
			r.Response == "Property results displayed"
	})).Return(nil)

	reply, err := svc.Submit(context.Background(), session.ID, "Show me available houses in Miami under 500000 with pool")
	require.NoError(t, err)

	assert.Equal(t, "I found 2 properties matching your search:", reply.Content)
	assert.Len(t, reply.Properties, 2)
	assert.False(t, reply.Pending)

	snapshot := session.Snapshot()
	require.Len(t, snapshot.Messages, 3) // greeting, user, response
	assert.Equal(t, domain.RoleUser, snapshot.Messages[1].Role)
	assert.Equal(t, reply.Content, snapshot.Messages[2].Content)
	assert.False(t, snapshot.Pending)

	svc.recorder.Drain()
	catalog.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestSubmit_SingleResultUsesSingularNoun(t *testing.T) {
	catalog := new(MockCatalogStore)
	svc := newTestService(catalog, nil)
	session := svc.CreateSession(nil)

	catalog.On("Search", mock.Anything, mock.Anything).Return(sampleProperties(1), nil)

	reply, err := svc.Submit(context.Background(), session.ID, "houses with pool")
	require.NoError(t, err)
	assert.Equal(t, "I found 1 property matching your search:", reply.Content)
}

func TestSubmit_UnrecognizedUtteranceBrowsesCatalog(t *testing.T) {
	catalog := new(MockCatalogStore)
	svc := newTestService(catalog, nil)
	session := svc.CreateSession(nil)

	catalog.On("Search", mock.Anything, mock.MatchedBy(func(spec domain.QuerySpec) bool {
		return len(spec.Filters) == 0 && spec.Limit == 6
	})).Return(sampleProperties(5), nil)

	reply, err := svc.Submit(context.Background(), session.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "I found 5 properties matching your search:", reply.Content)
	assert.Len(t, reply.Properties, 5)
}

func TestSubmit_NoMatch(t *testing.T) {
	catalog := new(MockCatalogStore)
	svc := newTestService(catalog, nil)
	session := svc.CreateSession(nil)

	catalog.On("Search", mock.Anything, mock.Anything).Return([]domain.Property{}, nil)

	reply, err := svc.Submit(context.Background(), session.ID, "castles in Atlantis")
	require.NoError(t, err)
	assert.Equal(t, noMatchContent, reply.Content)
	assert.Empty(t, reply.Properties)
	assert.False(t, session.Pending())
}

func TestSubmit_StoreFailure(t *testing.T) {
	catalog := new(MockCatalogStore)
	svc := newTestService(catalog, nil)
	session := svc.CreateSession(nil)

	catalog.On("Search", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	reply, err := svc.Submit(context.Background(), session.ID, "houses in Miami")
	require.NoError(t, err)
	assert.Equal(t, searchErrorContent, reply.Content)
	assert.Empty(t, reply.Properties)

	// Exactly one assistant message for the turn, pending cleared.
	snapshot := session.Snapshot()
	require.Len(t, snapshot.Messages, 3)
	assert.False(t, snapshot.Pending)
}

func TestSubmit_RejectsBlankUtterance(t *testing.T) {
	svc := newTestService(new(MockCatalogStore), nil)
	session := svc.CreateSession(nil)

	_, err := svc.Submit(context.Background(), session.ID, "")
	assert.ErrorIs(t, err, ErrEmptyUtterance)

	_, err = svc.Submit(context.Background(), session.ID, "   \t ")
	assert.ErrorIs(t, err, ErrEmptyUtterance)

	assert.Len(t, session.Snapshot().Messages, 1) // greeting only
}

func TestSubmit_UnknownSession(t *testing.T) {
	svc := newTestService(new(MockCatalogStore), nil)

	_, err := svc.Submit(context.Background(), uuid.New(), "houses")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmit_PendingGateSerializesTurns(t *testing.T) {
	catalog := newBlockingCatalog(sampleProperties(1), nil)
	svc := newTestService(catalog, nil)
	session := svc.CreateSession(nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), session.ID, "houses in Miami")
		firstDone <- err
	}()

	// Wait until the first turn reaches the store.
	select {
	case <-catalog.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first turn never reached the catalog store")
	}

	_, err := svc.Submit(context.Background(), session.ID, "condos downtown")
	assert.ErrorIs(t, err, ErrTurnInFlight)

	close(catalog.release)
	require.NoError(t, <-firstDone)
	assert.False(t, session.Pending())

	// The rejected submission left no trace in the log.
	snapshot := session.Snapshot()
	require.Len(t, snapshot.Messages, 3)
	assert.Equal(t, "houses in Miami", snapshot.Messages[1].Content)
}

func TestCloseSession_DiscardsInFlightTurn(t *testing.T) {
	catalog := newBlockingCatalog(sampleProperties(1), nil)
	svc := newTestService(catalog, nil)
	session := svc.CreateSession(nil)

	submitDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), session.ID, "houses in Miami")
		submitDone <- err
	}()

	select {
	case <-catalog.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("turn never reached the catalog store")
	}

	require.NoError(t, svc.CloseSession(session.ID))

	err := <-submitDone
	assert.ErrorIs(t, err, ErrSessionClosed)

	// The abandoned completion must not have replaced the placeholder.
	snapshot := session.Snapshot()
	require.Len(t, snapshot.Messages, 3)
	assert.True(t, snapshot.Messages[2].Pending)
	assert.Empty(t, snapshot.Messages[2].Content)

	_, err = svc.Session(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmit_HistoryFailureNeverSurfaces(t *testing.T) {
	catalog := new(MockCatalogStore)
	history := new(MockHistoryStore)
	svc := newTestService(catalog, history)
	session := svc.CreateSession(nil)

	catalog.On("Search", mock.Anything, mock.Anything).Return(sampleProperties(2), nil)
	history.On("Append", mock.Anything, mock.Anything).Return(assert.AnError)

	reply, err := svc.Submit(context.Background(), session.ID, "houses with pool")
	require.NoError(t, err)
	assert.Equal(t, "I found 2 properties matching your search:", reply.Content)

	svc.recorder.Drain()
	history.AssertExpectations(t)
	assert.False(t, session.Pending())
}

func TestSubmit_IdentityFlowsIntoHistory(t *testing.T) {
	catalog := new(MockCatalogStore)
	history := new(MockHistoryStore)
	svc := newTestService(catalog, history)

	userID := uuid.New()
	session := svc.CreateSession(&userID)

	catalog.On("Search", mock.Anything, mock.Anything).Return([]domain.Property{}, nil)
	history.On("Append", mock.Anything, mock.MatchedBy(func(r domain.HistoryRecord) bool {
		return r.UserID != nil && *r.UserID == userID && r.Response == noMatchContent
	})).Return(nil)

	_, err := svc.Submit(context.Background(), session.ID, "villas in Nice")
	require.NoError(t, err)

	svc.recorder.Drain()
	history.AssertExpectations(t)
}

func TestFixedPacer_CancelAborts(t *testing.T) {
	pacer := NewFixedPacer(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pacer.Pace(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
