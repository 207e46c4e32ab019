// Package ledger provides the expense ledger store: the ordered record
// list behind the dashboard, loaded once at startup from a durable JSON
// slot and rewritten wholesale on every mutation.
package ledger

import (
	"context"

	"kharcha/internal/core"
)

// Store is the port the service layer drives. Implementations keep the
// sequence newest-first as a display convention, not a stored invariant.
type Store interface {
	// Load returns the current records, seeding the slot with the
	// bundled default dataset when it is empty or unreadable.
	Load(ctx context.Context) ([]core.Expense, error)

	// Add assigns a fresh unique id, prepends the record and persists
	// the full sequence. The stored record is returned.
	Add(ctx context.Context, e core.Expense) (core.Expense, error)

	// Remove deletes the record with the given id and persists. A
	// missing id is a no-op, not an error.
	Remove(ctx context.Context, id int64) error
}
