package service

import (
	"context"

	"github.com/luxehomes/property-assistant/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCatalogStore mocks the CatalogStore interface
type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) Search(ctx context.Context, spec domain.QuerySpec) ([]domain.Property, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

// MockHistoryStore mocks the HistoryStore interface
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) Append(ctx context.Context, record domain.HistoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// blockingCatalog parks Search until released, for exercising the
// pending gate and teardown paths.
type blockingCatalog struct {
	entered chan struct{}
	release chan struct{}
	result  []domain.Property
	err     error
}

func newBlockingCatalog(result []domain.Property, err error) *blockingCatalog {
	return &blockingCatalog{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		result:  result,
		err:     err,
	}
}

func (b *blockingCatalog) Search(ctx context.Context, spec domain.QuerySpec) ([]domain.Property, error) {
	select {
	case b.entered <- struct{}{}:
	default:
	}

	select {
	case <-b.release:
		return b.result, b.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
