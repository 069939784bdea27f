package notify

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"deliveryPortal/internal/realtime"
	"deliveryPortal/models"
)

// remoteTimeout bounds the fire-and-forget remote calls issued by the store.
const remoteTimeout = 5 * time.Second

// Remote is the slice of the backend API the store needs. Every call is
// advisory: a failure degrades to local-only state, never corrupts it.
type Remote interface {
	FetchNotifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteAllNotifications(ctx context.Context) error
}

// Store owns the per-session notification list. It is the single writer;
// presenters only read through List/UnreadCount. All methods are safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	remote  Remote
	records []models.Notification // newest-first
}

// NewStore creates an empty store backed by the given remote API.
func NewStore(remote Remote) *Store {
	return &Store{remote: remote}
}

// Load merges a server snapshot into the store. Live events may already have
// arrived while the fetch was in flight, so entries are de-duplicated by id
// and re-sorted newest-first. A fetch error is logged and leaves the store
// untouched: the snapshot is a convenience, not a system of record.
func (s *Store) Load(ctx context.Context) {
	if s.remote == nil {
		return
	}
	snapshot, err := s.remote.FetchNotifications(ctx)
	if err != nil {
		log.Printf("notifications: snapshot fetch failed: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(s.records))
	for _, r := range s.records {
		seen[r.ID] = struct{}{}
	}
	for _, r := range snapshot {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		s.records = append(s.records, r)
	}
	sort.SliceStable(s.records, func(i, j int) bool {
		return s.records[i].CreatedAt.After(s.records[j].CreatedAt)
	})
}

// Ingest normalizes a live event and prepends it to the list. Re-delivery of
// an id already in the store returns the existing record instead of creating
// a duplicate. Never blocks on I/O.
func (s *Store) Ingest(ev realtime.Event) models.Notification {
	n := FromEvent(ev)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == n.ID {
			return r
		}
	}
	s.records = append([]models.Notification{n}, s.records...)
	return n
}

// MarkRead sets the read flag locally and issues a fire-and-forget remote
// update. The local flag is kept even when the remote call fails: read state
// is best-effort. Locally generated ids are never reported to the server.
func (s *Store) MarkRead(id string) {
	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].IsRead = true
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found || s.remote == nil || IsLocalID(id) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		if err := s.remote.MarkNotificationRead(ctx, id); err != nil {
			log.Printf("notifications: mark read %s failed: %v", id, err)
		}
	}()
}

// Remove dismisses a single notification locally. There is deliberately no
// remote call: single-item dismissal is ephemeral, only ClearAll reaches the
// backend.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return
		}
	}
}

// ClearAll deletes everything remotely, then clears the local list. The
// local clear happens even when the remote delete fails, trading strict
// consistency for a responsive bell menu.
func (s *Store) ClearAll(ctx context.Context) {
	if s.remote != nil {
		if err := s.remote.DeleteAllNotifications(ctx); err != nil {
			log.Printf("notifications: clear all failed remotely: %v", err)
		}
	}
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
}

// ClearLocal drops the in-memory list without touching the backend. Used on
// session changes, where the next session reloads its own snapshot.
func (s *Store) ClearLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

// List returns a copy of the records, newest first.
func (s *Store) List() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.records))
	copy(out, s.records)
	return out
}

// UnreadCount returns the number of records not yet marked read.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.records {
		if !r.IsRead {
			n++
		}
	}
	return n
}
