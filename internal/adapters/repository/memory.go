package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/ticketscan/internal/domain/model"
)

// MemoryStore keeps history in process memory. Records are held in
// insertion order; List walks them backwards.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.HistoryRecord
	byID    map[string]int
	max     int
	closed  bool
}

var _ HistoryStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := newSettings(opts)
	return &MemoryStore{
		byID: make(map[string]int),
		max:  s.maxRecords,
	}
}

// Save implements HistoryStore.
func (s *MemoryStore) Save(ctx context.Context, rec model.HistoryRecord) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if _, ok := s.byID[rec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, rec.ID)
	}
	rec.Numbers = slices.Clone(rec.Numbers)
	s.records = append(s.records, rec)
	s.byID[rec.ID] = len(s.records) - 1

	if s.max > 0 && len(s.records) > s.max {
		drop := len(s.records) - s.max
		for _, r := range s.records[:drop] {
			delete(s.byID, r.ID)
		}
		s.records = slices.Clone(s.records[drop:])
		for i, r := range s.records {
			s.byID[r.ID] = i
		}
	}
	return nil
}

// Get implements HistoryStore.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return model.HistoryRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.records[i], nil
}

// List implements HistoryStore. Records saved out of time order are still
// returned newest first; equal times keep reverse insertion order.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]model.HistoryRecord, len(s.records))
	for i, r := range s.records {
		out[len(out)-1-i] = r
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b model.HistoryRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count implements HistoryStore.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Ping implements HistoryStore.
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Close implements HistoryStore.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
