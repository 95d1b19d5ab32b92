// Package events carries pipeline lifecycle notifications between the API
// server and the embed worker.
package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/database"
)

const subjectPrefix = "pipeline."

// Subject maps an event type onto its broker subject or routing key.
func Subject(eventType string) string {
	return subjectPrefix + eventType
}

// StreamSubjects lists every subject bound to the pipeline stream.
func StreamSubjects() []string {
	return []string{
		Subject(core.EventAcquisitionCompleted),
		Subject(core.EventContentEmbedded),
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt core.Event) error
	Close() error
}

// Noop drops every event. It is used when events.driver is "none".
type Noop struct{}

func (Noop) Publish(context.Context, core.Event) error { return nil }
func (Noop) Close() error { return nil }

// New connects the publisher selected by cfg.Driver.
func New(cfg config.EventsConfig, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return Noop{}, nil
	case "nats":
		nc, err := database.NewNatsConnection(cfg.NATS, StreamSubjects()...)
		if err != nil {
			return nil, err
		}
		logger.Info("event publisher ready", "driver", "nats", "stream", cfg.NATS.Stream)
		return NewNatsPublisher(nc.JS, nc.Close), nil
	case "rabbitmq":
		rc, err := database.NewRabbitConnection(cfg.RabbitMQ, StreamSubjects()...)
		if err != nil {
			return nil, err
		}
		logger.Info("event publisher ready", "driver", "rabbitmq", "exchange", cfg.RabbitMQ.Exchange)
		return NewRabbitPublisher(rc.Channel, cfg.RabbitMQ.Exchange, rc.Close), nil
	default:
		return nil, fmt.Errorf("%w: unknown events driver %q", core.ErrConfiguration, cfg.Driver)
	}
}
