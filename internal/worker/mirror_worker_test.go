package worker

import (
	"context"
	"path/filepath"
	"testing"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/ledger"
	"kharcha/internal/storage"
)

func newWorker(t *testing.T, records ...core.Expense) *MirrorWorker {
	t.Helper()
	repo, err := storage.NewTransactionRepository(filepath.Join(t.TempDir(), "kharcha.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewMirrorWorker(ledger.NewMemStore(records...), repo)
}

func chai(id int64) core.Expense {
	return core.Expense{
		ID:       id,
		Title:    "Chai",
		Amount:   core.Money{Paise: 2000},
		Category: "Food",
		Date:     core.NewDate(2025, 8, 30),
	}
}

func TestHandleAddedMirrorsRecord(t *testing.T) {
	w := newWorker(t, chai(7))
	ctx := context.Background()

	if err := w.HandleEvent(ctx, amqp.NewLedgerEvent(amqp.OpAdded, 7)); err != nil {
		t.Fatalf("handle added: %v", err)
	}

	rows, err := w.repo.ListRecent(ctx, MirrorUserID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Description != "Chai" || rows[0].Amount != 2000 {
		t.Fatalf("unexpected mirrored rows: %+v", rows)
	}

	// Replaying the same event stays idempotent.
	if err := w.HandleEvent(ctx, amqp.NewLedgerEvent(amqp.OpAdded, 7)); err != nil {
		t.Fatalf("replay: %v", err)
	}
	rows, _ = w.repo.ListRecent(ctx, MirrorUserID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after replay, got %d", len(rows))
	}
}

func TestHandleRemovedDropsMirror(t *testing.T) {
	w := newWorker(t, chai(7))
	ctx := context.Background()

	if err := w.HandleEvent(ctx, amqp.NewLedgerEvent(amqp.OpAdded, 7)); err != nil {
		t.Fatalf("handle added: %v", err)
	}
	if err := w.HandleEvent(ctx, amqp.NewLedgerEvent(amqp.OpRemoved, 7)); err != nil {
		t.Fatalf("handle removed: %v", err)
	}

	rows, _ := w.repo.ListRecent(ctx, MirrorUserID)
	if len(rows) != 0 {
		t.Fatalf("expected mirror row removed, got %+v", rows)
	}
}

func TestHandleAddedForMissingRecord(t *testing.T) {
	w := newWorker(t)
	if err := w.HandleEvent(context.Background(), amqp.NewLedgerEvent(amqp.OpAdded, 99)); err != nil {
		t.Fatalf("missing record should not error: %v", err)
	}
}

func TestSyncAll(t *testing.T) {
	w := newWorker(t, chai(1), chai(2), chai(3))
	ctx := context.Background()

	created, err := w.SyncAll(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if created != 3 {
		t.Fatalf("expected 3 created, got %d", created)
	}

	created, err = w.SyncAll(ctx)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if created != 0 {
		t.Fatalf("second sweep should create nothing, got %d", created)
	}
}
