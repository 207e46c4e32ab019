package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"
)

// Handler processes one decoded ledger event. Returning an error drops
// the message after logging; events are advisory and the ledger itself
// stays the source of truth.
type Handler func(ctx context.Context, ev LedgerEvent) error

// Consumer reads ledger events from the queue the publisher binds.
type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   string
}

func NewConsumer(url, exchange, queue string) (*Consumer, error) {
	// Reuse the publisher's topology setup so either side can start
	// first.
	p, err := NewPublisher(url, exchange, queue)
	if err != nil {
		return nil, err
	}
	return &Consumer{conn: p.conn, channel: p.channel, queue: queue}, nil
}

// Consume blocks, dispatching events to handler until ctx is done or
// the broker closes the channel.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}

			ev, err := DecodeLedgerEvent(msg.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to decode ledger event", "error", err)
				_ = msg.Nack(false, false)
				continue
			}

			if err := handler(ctx, ev); err != nil {
				slog.ErrorContext(ctx, "Ledger event handler failed",
					"error", err, "op", ev.Op, "id", ev.ID)
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
