package repository

import (
	"context"
	"sync"
	"time"

	"storefront/internal/models"
)

// MemoryCarts keeps carts in process memory. Carts are lost on restart.
type MemoryCarts struct {
	mu    sync.RWMutex
	carts map[string]models.Cart
}

func NewMemoryCarts() *MemoryCarts {
	return &MemoryCarts{carts: make(map[string]models.Cart)}
}

var _ CartRepository = (*MemoryCarts)(nil)

func (m *MemoryCarts) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copyCart(c)
	return &cp, nil
}

func (m *MemoryCarts) Save(ctx context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart.UpdatedAt = time.Now().UTC()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = cart.UpdatedAt
	}
	m.carts[cart.SessionID] = copyCart(*cart)
	return nil
}

func (m *MemoryCarts) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[sessionID]; !ok {
		return ErrNotFound
	}
	delete(m.carts, sessionID)
	return nil
}

// copyCart detaches the quantity maps so callers never share them with the
// store.
func copyCart(c models.Cart) models.Cart {
	cp := c
	cp.Products = make(map[string]int, len(c.Products))
	for k, v := range c.Products {
		cp.Products[k] = v
	}
	cp.Deals = make(map[string]int, len(c.Deals))
	for k, v := range c.Deals {
		cp.Deals[k] = v
	}
	return cp
}
