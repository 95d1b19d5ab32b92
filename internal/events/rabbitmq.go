package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oranjParker/Sintillio/internal/core"
	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpPublisher is the part of *amqp.Channel the publisher needs.
type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitPublisher struct {
	channel  amqpPublisher
	exchange string
	close    func() error
}

func NewRabbitPublisher(ch amqpPublisher, exchange string, closeFn func() error) *RabbitPublisher {
	return &RabbitPublisher{channel: ch, exchange: exchange, close: closeFn}
}

func (r *RabbitPublisher) Publish(ctx context.Context, evt core.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		Subject(evt.Type),
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    evt.Type + ":" + evt.QueryID,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (r *RabbitPublisher) Close() error {
	if r.close != nil {
		return r.close()
	}
	return nil
}
