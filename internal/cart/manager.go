package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/greenbasket-io/greenbasket-backend/pkg/logger"
	"github.com/greenbasket-io/greenbasket-backend/pkg/metrics"
)

// Manager hands out one Store per shopper. Carts are scoped to their owner so
// two signed-in shoppers never share state.
type Manager struct {
	persister Persister
	logg      *logger.Logger
	metrics   *metrics.StorefrontMetrics

	mu     sync.Mutex
	stores map[string]*Store
}

// NewManager builds the per-shopper cart registry.
func NewManager(persister Persister, logg *logger.Logger, mets *metrics.StorefrontMetrics) (*Manager, error) {
	if persister == nil {
		return nil, fmt.Errorf("persister is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Manager{
		persister: persister,
		logg:      logg,
		metrics:   mets,
		stores:    map[string]*Store{},
	}, nil
}

// Store returns the cart for the owner, hydrating it on first access.
func (m *Manager) Store(ctx context.Context, ownerID string) (*Store, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is required")
	}

	m.mu.Lock()
	if store, ok := m.stores[ownerID]; ok {
		m.mu.Unlock()
		return store, nil
	}
	m.mu.Unlock()

	// Hydration happens outside the registry lock; a slow Redis read must not
	// stall other shoppers.
	store, err := NewStore(ctx, ownerID, m.persister, m.logg, m.metrics)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.stores[ownerID]; ok {
		return existing, nil
	}
	m.stores[ownerID] = store
	return store, nil
}

// Evict drops the cached store for the owner. The persisted snapshot survives;
// the next access rehydrates from it.
func (m *Manager) Evict(ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, ownerID)
}
