// Package eventstore tracks the mapping between a client's GatewayID
// (their ClOrdID) and the core OrderID it was assigned, plus the
// cancel-replace chain between successive GatewayIDs for the same
// order. It is adapted from the teacher's oms/event_store package.
package eventstore

import (
	"sync"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

// Store is the gateway's lookup table from client-facing identifiers
// to the core's OrderID, and back.
type Store interface {
	Track(gatewayID string, orderID orderbook.OrderID)
	TrackReplace(gatewayID, origGatewayID string)
	OrderID(gatewayID string) (orderbook.OrderID, bool)
	Chain(gatewayID string) []string
	Forget(gatewayID string)
}

type inMemoryStore struct {
	mu       sync.RWMutex
	orderIDs map[string]orderbook.OrderID
	chain    map[string]string // gatewayID -> origGatewayID
}

// NewInMemory returns a Store backed by plain maps guarded by an
// internal lock. It never survives a process restart — durability of
// the order stream itself is pkg/eventlog's job.
func NewInMemory() Store {
	return &inMemoryStore{
		orderIDs: make(map[string]orderbook.OrderID),
		chain:    make(map[string]string),
	}
}

func (s *inMemoryStore) Track(gatewayID string, orderID orderbook.OrderID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderIDs[gatewayID] = orderID
}

func (s *inMemoryStore) TrackReplace(gatewayID, origGatewayID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chain[gatewayID] = origGatewayID
	if orderID, ok := s.orderIDs[origGatewayID]; ok {
		s.orderIDs[gatewayID] = orderID
	}
}

func (s *inMemoryStore) OrderID(gatewayID string) (orderbook.OrderID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.orderIDs[gatewayID]
	return id, ok
}

func (s *inMemoryStore) Chain(gatewayID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var chain []string
	cur := gatewayID
	for cur != "" {
		chain = append(chain, cur)
		next, ok := s.chain[cur]
		if !ok {
			break
		}
		cur = next
	}
	return chain
}

func (s *inMemoryStore) Forget(gatewayID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orderIDs, gatewayID)
	delete(s.chain, gatewayID)
}
