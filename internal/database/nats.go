package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oranjParker/Sintillio/internal/config"
)

type NatsConn struct {
	Conn *nats.Conn
	JS   nats.JetStreamContext
}

// NewNatsConnection connects to NATS and makes sure the pipeline stream
// exists with the given subjects bound to it.
func NewNatsConnection(cfg config.NATSConfig, subjects ...string) (*NatsConn, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("sintillio"),
		nats.Timeout(10*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	if len(subjects) > 0 {
		if err := ensureStream(js, cfg.Stream, subjects); err != nil {
			nc.Close()
			return nil, err
		}
	}

	return &NatsConn{
		Conn: nc,
		JS:   js,
	}, nil
}

func ensureStream(js nats.JetStreamContext, name string, subjects []string) error {
	_, err := js.StreamInfo(name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("stream lookup %s: %w", name, err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      name,
		Subjects:  subjects,
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", name, err)
	}
	return nil
}

func (n *NatsConn) Close() {
	if n.Conn != nil {
		n.Conn.Close()
	}
}
