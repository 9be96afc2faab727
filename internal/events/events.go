// internal/events/events.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	RoutingFundAdded = "fund.added"
	publishTimeout   = 5 * time.Second
)

// FundAdded is published after an amount lands in a savings fund.
type FundAdded struct {
	TransactionID string    `json:"transaction_id"`
	Owner         string    `json:"owner"`
	Amount        float64   `json:"amount"`
	TotalSaved    float64   `json:"total_saved"`
	Transactions  int64     `json:"transactions"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishFundAdded(ctx context.Context, ev FundAdded) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishFundAdded(context.Context, FundAdded) error { return nil }
func (NoopPublisher) Close() error                                      { return nil }

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type AMQPPublisher struct {
	conn     *amqp091.Connection
	ch       *amqp091.Channel
	pub      channel
	exchange string
	log      *zap.Logger
	mu       sync.Mutex
}

// NewAMQPPublisher dials the broker and declares a durable topic exchange.
func NewAMQPPublisher(url, exchange string, log *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange, log)
	p.conn, p.ch = conn, ch
	return p, nil
}

func newPublisher(ch channel, exchange string, log *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{pub: ch, exchange: exchange, log: log}
}

func (p *AMQPPublisher) PublishFundAdded(ctx context.Context, ev FundAdded) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.pub.PublishWithContext(
		ctx,
		p.exchange,       // exchange
		RoutingFundAdded, // routing key
		false,            // mandatory
		false,            // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    ev.TransactionID,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish %s: %w", RoutingFundAdded, err)
	}

	p.log.Debug("event published",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", RoutingFundAdded),
		zap.String("transaction_id", ev.TransactionID))
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
