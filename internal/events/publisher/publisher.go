package publisher

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// Envelope описывает тело сообщения о событии.
type Envelope struct {
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// channel покрывает часть amqp.Channel, нужную публикатору.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher публикует события сессии в topic exchange.
// Ключ маршрутизации совпадает с типом события.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	log      *slog.Logger
	now      func() time.Time
	mu       sync.Mutex
}

// NewAMQPPublisher подключается к брокеру и объявляет exchange.
func NewAMQPPublisher(amqpURL, exchange string, log *slog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	p := newPublisher(ch, exchange, log)
	p.conn = conn

	return p, nil
}

func newPublisher(ch channel, exchange string, log *slog.Logger) *AMQPPublisher {
	if log == nil {
		log = slog.Default()
	}

	return &AMQPPublisher{
		channel:  ch,
		exchange: exchange,
		log:      log,
		now:      time.Now,
	}
}

// Publish отправляет событие eventType с данными payload.
func (p *AMQPPublisher) Publish(eventType string, payload interface{}) error {
	body, err := json.Marshal(Envelope{
		Type:       eventType,
		Payload:    payload,
		OccurredAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", eventType, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}

	p.log.Debug("event published", "type", eventType, "exchange", p.exchange)

	return nil
}

// Close закрывает канал и соединение.
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
