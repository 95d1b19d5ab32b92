package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/oranjParker/Sintillio/internal/core"
)

type NatsPublisher struct {
	JS    nats.JetStreamContext
	close func()
}

func NewNatsPublisher(js nats.JetStreamContext, closeFn func()) *NatsPublisher {
	return &NatsPublisher{JS: js, close: closeFn}
}

func (n *NatsPublisher) Publish(ctx context.Context, evt core.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("nats marshal failed: %w", err)
	}

	_, err = n.JS.Publish(Subject(evt.Type), data, nats.Context(ctx), nats.MsgId(evt.Type+":"+evt.QueryID))
	if err != nil {
		return fmt.Errorf("nats publish %s: %w", evt.Type, err)
	}
	return nil
}

func (n *NatsPublisher) Close() error {
	if n.close != nil {
		n.close()
	}
	return nil
}
