package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/rbeltran/stitchops/internal/domain/catalog"
)

// MockOrderRepository is an in-memory test double for catalog.OrderRepository
type MockOrderRepository struct {
	mu       sync.RWMutex
	orders   map[uint]*catalog.Order
	unrouted []uint
}

// NewMockOrderRepository creates an empty mock order repository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[uint]*catalog.Order),
	}
}

// AddOrder registers an order and marks it unrouted
func (m *MockOrderRepository) AddOrder(o catalog.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = &o
	m.unrouted = append(m.unrouted, o.ID)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint) (*catalog.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id], nil
}

func (m *MockOrderRepository) FindUnroutedIDs(ctx context.Context) ([]uint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := append([]uint(nil), m.unrouted...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
