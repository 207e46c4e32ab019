// Package worker mirrors ledger records into the SQLite transaction
// history, driven by AMQP events with a periodic catch-up sweep.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/ledger"
	"kharcha/internal/storage"
)

// MirrorUserID owns the mirrored rows.
const MirrorUserID = "demo-user"

// MirrorWorker keeps the transactions table in step with the ledger.
// Rows it creates carry a source id so the sync is idempotent.
type MirrorWorker struct {
	store ledger.Store
	repo  *storage.TransactionRepository
}

func NewMirrorWorker(store ledger.Store, repo *storage.TransactionRepository) *MirrorWorker {
	return &MirrorWorker{store: store, repo: repo}
}

// SourceID is the stable mirror key for a ledger record.
func SourceID(id int64) string {
	return "ledger:" + strconv.FormatInt(id, 10)
}

// HandleEvent applies one ledger event to the transaction history.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev amqp.LedgerEvent) error {
	switch ev.Op {
	case amqp.OpAdded:
		return w.mirrorByID(ctx, ev.ID)
	case amqp.OpRemoved:
		return w.repo.RemoveBySource(ctx, SourceID(ev.ID))
	default:
		slog.WarnContext(ctx, "Unknown ledger event op", "op", ev.Op, "id", ev.ID)
		return nil
	}
}

func (w *MirrorWorker) mirrorByID(ctx context.Context, id int64) error {
	records, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	for _, e := range records {
		if e.ID == id {
			return w.mirror(ctx, e)
		}
	}
	// The record may already be gone again; events can outlive it.
	slog.InfoContext(ctx, "Ledger record not found for mirroring", "id", id)
	return nil
}

func (w *MirrorWorker) mirror(ctx context.Context, e core.Expense) error {
	sourceID := SourceID(e.ID)
	exists, err := w.repo.HasSource(ctx, sourceID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = w.repo.CreateTransaction(ctx, storage.NewTransaction{
		UserID:      MirrorUserID,
		Category:    e.Category,
		Amount:      e.Amount,
		Type:        storage.TypeExpense,
		Description: e.Title,
		Date:        e.Date,
		SourceID:    sourceID,
	})
	if err != nil {
		return fmt.Errorf("mirror expense %d: %w", e.ID, err)
	}
	slog.InfoContext(ctx, "Mirrored ledger record", "id", e.ID, "title", e.Title)
	return nil
}

// SyncAll sweeps the whole ledger, mirroring anything missed while the
// worker was down. Returns the number of rows created.
func (w *MirrorWorker) SyncAll(ctx context.Context) (int, error) {
	records, err := w.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}

	created := 0
	for _, e := range records {
		sourceID := SourceID(e.ID)
		exists, err := w.repo.HasSource(ctx, sourceID)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		if err := w.mirror(ctx, e); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
