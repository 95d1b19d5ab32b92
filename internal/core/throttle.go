package core

import (
	"context"
	"time"
)

// ThrottledSource spaces out items from Src by at least Interval, keeping
// embedding providers under their request quota. A zero Interval passes
// items straight through.
type ThrottledSource[T any] struct {
	Src      Source[T]
	Interval time.Duration
}

func NewThrottledSource[T any](src Source[T], interval time.Duration) *ThrottledSource[T] {
	return &ThrottledSource[T]{Src: src, Interval: interval}
}

func (s *ThrottledSource[T]) Stream(ctx context.Context) (<-chan T, error) {
	srcStream, err := s.Src.Stream(ctx)
	if err != nil {
		return nil, err
	}
	if s.Interval <= 0 {
		return srcStream, nil
	}

	out := make(chan T)
	go func() {
		defer close(out)

		var last time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-srcStream:
				if !ok {
					return
				}
				if wait := s.Interval - time.Since(last); !last.IsZero() && wait > 0 {
					timer := time.NewTimer(wait)
					select {
					case <-timer.C:
					case <-ctx.Done():
						timer.Stop()
						return
					}
				}
				select {
				case out <- item:
					last = time.Now()
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
