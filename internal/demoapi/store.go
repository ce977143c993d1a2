package demoapi

import (
	"sync"

	"promstack/pkg/types"
)

// OrderStore keeps the in-memory orders that back the pending-orders gauge.
// It exists to give the histogram and gauge something to move; there is no
// persistence on purpose.
type OrderStore struct {
	mu     sync.Mutex
	orders []types.Order
}

func NewOrderStore() *OrderStore { return &OrderStore{} }

// Add appends an order and returns the new pending count.
func (s *OrderStore) Add(o types.Order) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)
	return len(s.orders)
}

// RemoveByItem drops every order for itemID and returns how many were
// removed along with the new pending count.
func (s *OrderStore) RemoveByItem(itemID int) (removed, pending int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.orders[:0]
	for _, o := range s.orders {
		if o.ItemID != itemID {
			kept = append(kept, o)
		}
	}
	removed = len(s.orders) - len(kept)
	s.orders = kept
	return removed, len(s.orders)
}

// Pending returns the current number of held orders.
func (s *OrderStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
