// Package services orchestrates ledger operations: store mutations,
// best-effort event publishing and cleanup.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/ledger"
)

// EventPublisher is the outbound port for ledger mutation events.
// *amqp.Publisher satisfies it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev amqp.LedgerEvent) error
	Close() error
}

// LedgerService wraps a ledger store with event publishing. The
// publisher is optional; with none configured the service is a plain
// pass-through.
type LedgerService struct {
	store  ledger.Store
	events EventPublisher
}

func NewLedgerService(store ledger.Store, events EventPublisher) *LedgerService {
	return &LedgerService{store: store, events: events}
}

// Load returns the current ledger snapshot.
func (s *LedgerService) Load(ctx context.Context) ([]core.Expense, error) {
	return s.store.Load(ctx)
}

// Add stores a record and announces it. A publish failure is logged
// and swallowed: the record is already durably stored.
func (s *LedgerService) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	stored, err := s.store.Add(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	s.publish(ctx, amqp.OpAdded, stored.ID)
	return stored, nil
}

// Remove deletes a record by id and announces the removal. Absent ids
// remain a no-op, and no event is suppressed for them: the store treats
// both the same, so consumers must tolerate removal events for ids they
// never saw.
func (s *LedgerService) Remove(ctx context.Context, id int64) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove expense: %w", err)
	}
	s.publish(ctx, amqp.OpRemoved, id)
	return nil
}

func (s *LedgerService) publish(ctx context.Context, op string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, amqp.NewLedgerEvent(op, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"op", op, "id", id, "error", err)
	}
}

// Close releases the publisher connection if one is configured.
func (s *LedgerService) Close() error {
	if s.events == nil {
		return nil
	}
	if err := s.events.Close(); err != nil && err != io.EOF {
		return fmt.Errorf("close event publisher: %w", err)
	}
	return nil
}
