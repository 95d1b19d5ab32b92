package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oranjParker/Sintillio/internal/core"
)

// NatsSource streams events of one type from the pipeline stream through a
// queue group, so several workers share the load.
type NatsSource struct {
	JS        nats.JetStreamContext
	EventType string
	Queue     string
	logger    *slog.Logger
}

func NewNatsSource(js nats.JetStreamContext, eventType, queue string, logger *slog.Logger) *NatsSource {
	return &NatsSource{
		JS:        js,
		EventType: eventType,
		Queue:     queue,
		logger:    logger.With("component", "nats_source"),
	}
}

func (n *NatsSource) Stream(ctx context.Context) (<-chan *core.Document[core.Event], error) {
	out := make(chan *core.Document[core.Event])

	sub, err := n.JS.QueueSubscribeSync(Subject(n.EventType), n.Queue, nats.AckExplicit(), nats.ManualAck())
	if err != nil {
		return nil, fmt.Errorf("nats subscription failed: %w", err)
	}

	go func() {
		defer close(out)
		defer sub.Unsubscribe()

		var backoff time.Duration
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if !sub.IsValid() {
				n.logger.Error("subscription is no longer valid, stopping", "subject", Subject(n.EventType))
				return
			}

			msg, err := sub.NextMsg(time.Second)
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					backoff = 0
					continue
				}
				backoff = nextBackoff(backoff)
				n.logger.Warn("next message failed", "error", err, "retry_in", backoff)
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return
				}
				continue
			}
			backoff = 0

			doc, err := decodeEvent(msg.Data)
			if err != nil {
				n.logger.Warn("malformed event, terminating message", "error", err)
				msg.Term()
				continue
			}

			var once sync.Once
			doc.Ack = func() {
				once.Do(func() {
					if err := msg.Ack(); err != nil {
						n.logger.Warn("ack failed", "query_id", doc.ID, "error", err)
					}
				})
			}

			select {
			case out <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

const (
	minBackoff = 100 * time.Millisecond
	maxBackoff = 5 * time.Second
)

func nextBackoff(d time.Duration) time.Duration {
	if d < minBackoff {
		return minBackoff
	}
	if d *= 2; d > maxBackoff {
		return maxBackoff
	}
	return d
}

func decodeEvent(data []byte) (*core.Document[core.Event], error) {
	var evt core.Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	if evt.QueryID == "" {
		return nil, fmt.Errorf("event %q has no query id", evt.Type)
	}
	return &core.Document[core.Event]{
		ID:        evt.QueryID,
		Source:    evt.Source,
		Content:   evt,
		Metadata:  map[string]any{},
		CreatedAt: evt.Timestamp,
	}, nil
}
