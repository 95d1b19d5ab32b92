package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oranjParker/Sintillio/internal/core"
)

type EventDoc = *core.Document[core.Event]

// EventSink runs the generator for every acquisition event that reaches the
// end of the worker pipeline.
type EventSink struct {
	gen *Generator
}

func NewEventSink(gen *Generator) *EventSink {
	return &EventSink{gen: gen}
}

func (s *EventSink) Write(ctx context.Context, doc EventDoc) error {
	stats, err := s.gen.Embed(ctx, doc.Content.QueryID)
	switch {
	case errors.Is(err, core.ErrEmbeddingInProgress):
		// The run holding the claim picks up these rows.
		return nil
	case errors.Is(err, core.ErrPersistence):
		return &core.RetryableError{Err: err, RetryAfter: 30 * time.Second}
	case err != nil:
		return err
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["processed"] = stats.Processed
	doc.Metadata["total"] = stats.Total
	return nil
}

func (s *EventSink) Close() error {
	return nil
}

// AcquisitionFilter drops events that carry nothing to embed.
func AcquisitionFilter() core.Processor[EventDoc, EventDoc] {
	return &core.FunctionalProcessor[EventDoc, EventDoc]{
		Fn: func(ctx context.Context, doc EventDoc) ([]EventDoc, error) {
			if doc.Content.Type != core.EventAcquisitionCompleted {
				return nil, fmt.Errorf("unexpected event type %q", doc.Content.Type)
			}
			if doc.Content.Total == 0 {
				return nil, nil
			}
			return []EventDoc{doc}, nil
		},
	}
}
