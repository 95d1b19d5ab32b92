package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Acker is implemented by items that must be acknowledged to their source
// once fully handled.
type Acker interface {
	DoAck()
}

type PipelineRunner[T any] struct {
	Source     Source[T]
	Processors []Processor[T, T]
	Sink       Sink[T]
	Config     PipelineConfig
	Logger     *slog.Logger

	handled atomic.Int64
	failed  atomic.Int64
}

type PipelineConfig struct {
	Concurrency int
	Name        string
}

type PipelineStats struct {
	Handled int64
	Failed  int64
}

func NewPipelineRunner[T any](src Source[T], sink Sink[T], cfg PipelineConfig, logger *slog.Logger) *PipelineRunner[T] {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineRunner[T]{
		Source:     src,
		Sink:       sink,
		Config:     cfg,
		Logger:     logger.With("pipeline", cfg.Name),
		Processors: make([]Processor[T, T], 0),
	}
}

func (p *PipelineRunner[T]) AddProcessor(proc Processor[T, T]) {
	p.Processors = append(p.Processors, proc)
}

func (p *PipelineRunner[T]) Stats() PipelineStats {
	return PipelineStats{Handled: p.handled.Load(), Failed: p.failed.Load()}
}

// Run drains the source until it closes or ctx is cancelled. A failing item
// is logged and counted; it never stops the other workers. Items whose error
// is retryable are left unacknowledged so the source can redeliver them.
func (p *PipelineRunner[T]) Run(ctx context.Context) error {
	stream, err := p.Source.Stream(ctx)
	if err != nil {
		return fmt.Errorf("pipeline [%s] source error: %w", p.Config.Name, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < p.Config.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for item := range stream {
				select {
				case <-ctx.Done():
					return
				default:
				}
				p.handle(ctx, workerID, item)
			}
		}(i)
	}

	wg.Wait()
	return p.Sink.Close()
}

func (p *PipelineRunner[T]) handle(ctx context.Context, workerID int, item T) {
	err := p.process(ctx, item)
	if err == nil {
		p.handled.Add(1)
		ack(item)
		return
	}

	p.failed.Add(1)
	if retry, _ := IsRetryable(err); retry {
		p.Logger.Warn("item failed, leaving for redelivery", "worker", workerID, "error", err)
		return
	}
	p.Logger.Error("item failed", "worker", workerID, "error", err)
	ack(item)
}

func (p *PipelineRunner[T]) process(ctx context.Context, item T) error {
	processedItems, err := p.processRecursive(ctx, item, 0)
	if err != nil {
		return err
	}
	for _, processedItem := range processedItems {
		if err := p.Sink.Write(ctx, processedItem); err != nil {
			return fmt.Errorf("sink write error: %w", err)
		}
	}
	return nil
}

func (p *PipelineRunner[T]) processRecursive(ctx context.Context, item T, procIdx int) ([]T, error) {
	if procIdx >= len(p.Processors) {
		return []T{item}, nil
	}
	expanded, err := p.Processors[procIdx].Process(ctx, item)
	if err != nil {
		return nil, err
	}

	finalResults := make([]T, 0, len(expanded))
	for _, nextItem := range expanded {
		nextResults, err := p.processRecursive(ctx, nextItem, procIdx+1)
		if err != nil {
			return nil, err
		}
		finalResults = append(finalResults, nextResults...)
	}

	return finalResults, nil
}

func ack(item any) {
	if a, ok := item.(Acker); ok {
		a.DoAck()
	}
}
