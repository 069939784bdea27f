// Package orders keeps the portal's projection of backend-owned orders: an
// in-memory list for live rendering plus a best-effort SQLite cache for
// rendering across restarts.
package orders

import (
	"context"
	"log"
	"sync"
	"time"

	"deliveryPortal/internal/realtime"
	"deliveryPortal/models"
)

// Cache persists authoritative snapshots. Failures degrade to memory-only
// operation; the cache is a convenience, not a system of record.
type Cache interface {
	Upsert(ctx context.Context, o *models.Order) error
	ReplaceAll(ctx context.Context, orders []models.Order) error
}

// Store owns the order list. Presenters read through List/Active/History;
// every mutation goes through the store's own operations.
type Store struct {
	mu     sync.Mutex
	orders []models.Order // newest-first
	cache  Cache          // may be nil
}

// NewStore creates an empty store. cache may be nil for memory-only use.
func NewStore(cache Cache) *Store {
	return &Store{cache: cache}
}

// Replace installs an authoritative snapshot, discarding every provisional
// record: the fetch result supersedes anything synthesized from events.
func (s *Store) Replace(ctx context.Context, snapshot []models.Order) {
	s.mu.Lock()
	s.orders = make([]models.Order, len(snapshot))
	copy(s.orders, snapshot)
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.ReplaceAll(ctx, snapshot); err != nil {
			log.Printf("orders: cache snapshot failed: %v", err)
		}
	}
}

// Seed installs cached orders at startup without writing back to the cache.
// Seeded rows render immediately and are superseded by the first
// authoritative Replace.
func (s *Store) Seed(snapshot []models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.orders) > 0 {
		return
	}
	s.orders = make([]models.Order, len(snapshot))
	copy(s.orders, snapshot)
}

// AddProvisional prepends a record synthesized from a new-order event. The
// record is tagged provisional and is never cached: it holds only what the
// event payload carried and must be replaced wholesale by the next
// authoritative fetch (see Replace and Upsert).
func (s *Store) AddProvisional(ev realtime.Event) *models.Order {
	if ev.Data.OrderID == "" {
		return nil
	}
	createdAt := ev.ReceivedAt
	if ev.Data.CreatedAt != nil {
		createdAt = *ev.Data.CreatedAt
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	o := models.Order{
		ID:              ev.Data.OrderID,
		Status:          models.OrderStatusPending,
		ClientName:      ev.Data.ClientName,
		ClientPhone:     ev.Data.ClientPhone,
		Description:     ev.Data.Description,
		DeliveryAddress: ev.Data.DeliveryAddress,
		CreatedAt:       createdAt,
		Provisional:     true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			// Already known, authoritatively or otherwise.
			return &s.orders[i]
		}
	}
	s.orders = append([]models.Order{o}, s.orders...)
	return &o
}

// Upsert installs one authoritative order, replacing any existing record
// with the same id (including its provisional stand-in) wholesale.
func (s *Store) Upsert(ctx context.Context, o models.Order) {
	o.Provisional = false

	s.mu.Lock()
	replaced := false
	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			s.orders[i] = o
			replaced = true
			break
		}
	}
	if !replaced {
		s.orders = append([]models.Order{o}, s.orders...)
	}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Upsert(ctx, &o); err != nil {
			log.Printf("orders: cache upsert %s failed: %v", o.ID, err)
		}
	}
}

// ApplyStatus records a status observed from the event stream. An illegal
// transition is logged and applied anyway: the backend is authoritative and
// the projection must follow it. Unknown orders are ignored; the next
// snapshot will pick them up.
func (s *Store) ApplyStatus(id string, raw string) {
	status := models.NormalizeStatus(raw)
	if status == models.OrderStatusUnknown {
		// Keep the raw value for the unknown-status badge.
		status = models.OrderStatus(raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		from := s.orders[i].Status
		if !models.IsLegalTransition(from, status) {
			log.Printf("orders: observed illegal transition %s -> %s on %s, applying anyway", from, status, id)
		}
		s.orders[i].Status = status
		return
	}
}

// Get returns a copy of the order with the given id.
func (s *Store) Get(id string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			return s.orders[i], true
		}
	}
	return models.Order{}, false
}

// List returns a copy of every order, newest first.
func (s *Store) List() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Active returns orders still in flight (PENDING, ASSIGNED, IN_DELIVERY).
func (s *Store) Active() []models.Order {
	return s.filter(true)
}

// History returns finished orders (DELIVERED, RECEIVED, CANCELLED).
func (s *Store) History() []models.Order {
	return s.filter(false)
}

func (s *Store) filter(active bool) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if models.IsActiveStatus(o.Status) == active {
			out = append(out, o)
		}
	}
	return out
}
