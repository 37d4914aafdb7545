package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// amqpChannel is the part of *amqp091.Channel the publisher uses.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	IsClosed() bool
	Close() error
}

// AMQPPublisher publishes events as persistent JSON messages on a topic exchange.
//
// A channel closed by the broker is reopened on the next publish. A lost
// connection is not redialed; publishing fails until the process restarts.
type AMQPPublisher struct {
	conn         *amqp091.Connection
	open         func() (amqpChannel, error)
	exchangeName string
	routingKey   string

	mu      sync.Mutex // channels are not safe for concurrent publishing
	channel amqpChannel
}

// NewAMQPPublisher dials url and declares the durable exchange.
func NewAMQPPublisher(url, exchangeName, routingKey string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	p := newAMQPPublisher(func() (amqpChannel, error) {
		return conn.Channel()
	}, exchangeName, routingKey)
	p.conn = conn

	if err := p.connect(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func newAMQPPublisher(open func() (amqpChannel, error), exchangeName, routingKey string) *AMQPPublisher {
	return &AMQPPublisher{
		open:         open,
		exchangeName: exchangeName,
		routingKey:   routingKey,
	}
}

// connect opens a channel and declares the exchange on it. Callers hold p.mu
// or own p exclusively.
func (p *AMQPPublisher) connect() error {
	channel, err := p.open()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	p.channel = channel
	return nil
}

// PublishRecalculated sends event to the configured exchange and routing key.
func (p *AMQPPublisher) PublishRecalculated(ctx context.Context, event *BalancesRecalculated) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		slog.InfoContext(ctx, "Reopening AMQP channel", "exchange", p.exchangeName)
		if err := p.connect(); err != nil {
			return err
		}
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	slog.DebugContext(ctx, "Published recalculation event",
		"trigger", event.Trigger,
		"participants", len(event.Balances),
		"exchange", p.exchangeName,
		"routing_key", p.routingKey)
	return nil
}

// Close closes the channel and the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil && !p.channel.IsClosed() {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
