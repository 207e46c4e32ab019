package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"kharcha/internal/core"
)

// FileStore keeps the ledger in a single JSON file, the durable
// "expenses" slot. The file is read once and rewritten wholesale after
// each mutation; there is no partial-write or transactional guarantee,
// and a corrupt file is silently replaced by the default dataset.
type FileStore struct {
	path string

	mu      sync.Mutex
	records []core.Expense
	loaded  bool
	lastID  int64
}

// NewFileStore creates a store backed by the JSON file at path. The
// file is not touched until the first operation.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]core.Expense, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *FileStore) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return core.Expense{}, err
	}

	e.ID = s.nextID()
	s.records = append([]core.Expense{e}, s.records...)
	s.persist(ctx)

	slog.InfoContext(ctx, "Expense added to ledger",
		"id", e.ID,
		"title", e.Title,
		"amount_paise", e.Amount.Paise,
		"category", e.Category,
		"date", e.Date.String())
	return e, nil
}

func (s *FileStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	kept := s.records[:0]
	removed := false
	for _, e := range s.records {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	s.records = kept
	if !removed {
		// Absent ids are a no-op by contract.
		return nil
	}
	s.persist(ctx)
	slog.InfoContext(ctx, "Expense removed from ledger", "id", id)
	return nil
}

// ensureLoaded reads the slot on first use. Missing or unparsable data
// is treated as absence and replaced by the bundled defaults.
func (s *FileStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.seedDefaults(ctx)
	case err != nil:
		return fmt.Errorf("read ledger slot: %w", err)
	default:
		var records []core.Expense
		if jsonErr := json.Unmarshal(raw, &records); jsonErr != nil {
			slog.WarnContext(ctx, "Ledger slot unreadable, replacing with defaults",
				"path", s.path, "error", jsonErr)
			s.seedDefaults(ctx)
		} else {
			s.records = records
		}
	}

	for _, e := range s.records {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	s.loaded = true
	return nil
}

func (s *FileStore) seedDefaults(ctx context.Context) {
	s.records = DefaultExpenses()
	s.persist(ctx)
	slog.InfoContext(ctx, "Ledger slot seeded with default dataset",
		"path", s.path, "count", len(s.records))
}

// persist overwrites the slot with the full sequence. Persistence is
// best-effort: a failed write is logged and the in-memory ledger stays
// authoritative for the rest of the session.
func (s *FileStore) persist(ctx context.Context) {
	raw, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode ledger", "error", err)
		return
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.WarnContext(ctx, "Failed to create ledger directory", "dir", dir, "error", err)
			return
		}
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		slog.WarnContext(ctx, "Failed to persist ledger", "path", s.path, "error", err)
	}
}

// nextID hands out unique, monotonically increasing ids within the
// process. The wall clock in milliseconds is the base, bumped past the
// last id when two additions land in the same millisecond.
func (s *FileStore) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
