package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// MockManufacturingRepository is an in-memory test double for
// routing.ManufacturingRepository
type MockManufacturingRepository struct {
	mu      sync.Mutex
	byOrder map[uint]*routing.Manufacturing
	byID    map[string]*routing.Manufacturing
}

// NewMockManufacturingRepository creates an empty mock
func NewMockManufacturingRepository() *MockManufacturingRepository {
	return &MockManufacturingRepository{
		byOrder: make(map[uint]*routing.Manufacturing),
		byID:    make(map[string]*routing.Manufacturing),
	}
}

func (m *MockManufacturingRepository) FindOrCreateForOrder(ctx context.Context, orderID uint) (*routing.Manufacturing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.byOrder[orderID]; ok {
		return existing, nil
	}

	mfg := routing.NewManufacturing(orderID, time.Now().UTC())
	m.byOrder[orderID] = mfg
	m.byID[mfg.ID] = mfg
	return mfg, nil
}

func (m *MockManufacturingRepository) FindByID(ctx context.Context, id string) (*routing.Manufacturing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}
