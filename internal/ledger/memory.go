package ledger

import (
	"context"
	"sync"
	"time"

	"kharcha/internal/core"
)

// MemStore is a non-durable Store used by tests and as a fallback
// backend. Semantics match FileStore minus persistence.
type MemStore struct {
	mu      sync.Mutex
	records []core.Expense
	lastID  int64
}

// NewMemStore seeds a store with the given records. With no arguments
// the store starts empty; use NewMemStore(DefaultExpenses()...) to get
// the bundled dataset.
func NewMemStore(records ...core.Expense) *MemStore {
	s := &MemStore{records: append([]core.Expense(nil), records...)}
	for _, e := range s.records {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	return s
}

func (s *MemStore) Load(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemStore) Add(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	e.ID = id
	s.records = append([]core.Expense{e}, s.records...)
	return e, nil
}

func (s *MemStore) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	for _, e := range s.records {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.records = kept
	return nil
}
