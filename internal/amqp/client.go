// Package amqp publishes ledger mutation events to a RabbitMQ exchange
// so external tooling can follow along. The publisher is optional: the
// ledger works identically with it disabled, and publish failures never
// fail the originating mutation.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

// NewPublisher dials the broker and declares a durable direct exchange
// and queue bound by the queue name.
func NewPublisher(url, exchange, queue string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
	}
	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return p, nil
}

func (p *Publisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchange,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = p.channel.QueueDeclare(
		p.queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := p.channel.QueueBind(p.queue, p.queue, p.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishLedgerEvent publishes one mutation event as a persistent
// message. The call is bounded by a short timeout so a slow broker
// never stalls a mutation's request path.
func (p *Publisher) PublishLedgerEvent(ctx context.Context, ev LedgerEvent) error {
	body, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		p.queue, // routing key matches the bound queue
		false,   // mandatory
		false,   // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	slog.InfoContext(ctx, "Published ledger event",
		"op", ev.Op,
		"id", ev.ID,
		"exchange", p.exchange,
		"queue", p.queue)
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
