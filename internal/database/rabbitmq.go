package database

import (
	"fmt"

	"github.com/oranjParker/Sintillio/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitConn struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// NewRabbitConnection dials the broker and declares a durable topic exchange
// plus one queue bound to every routing key in keys.
func NewRabbitConnection(cfg config.RabbitMQConfig, keys ...string) (*RabbitConn, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	fail := func(step string, err error) (*RabbitConn, error) {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fail("declare exchange", err)
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fail("declare queue", err)
	}

	for _, key := range keys {
		if err := ch.QueueBind(q.Name, key, cfg.Exchange, false, nil); err != nil {
			return fail("bind queue", err)
		}
	}

	return &RabbitConn{Conn: conn, Channel: ch}, nil
}

func (r *RabbitConn) Close() error {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.Conn != nil {
		return r.Conn.Close()
	}
	return nil
}
