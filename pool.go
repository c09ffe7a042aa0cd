package acervo

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/ygrebnov/errorc"
	"golang.org/x/sync/errgroup"

	"github.com/King-witcher/acervo/metrics"
)

// Pool runs a fixed number of workers that drain a shared source, apply a
// transform to each item, and push the outputs to a sink. Each item is
// claimed by exactly one worker. The first worker error cancels the run:
// siblings exit at their next claim, and Consume returns only after every
// worker has exited, surfacing that first error.
//
// The configuration is immutable; Consume may be called multiple times, each
// call running an independent worker group.
type Pool[In, Out any] struct {
	sink      Sender[Out]
	transform func(context.Context, In) (Out, error)
	cfg       config

	items    metrics.Counter
	failures metrics.Counter
	inflight metrics.UpDownCounter
}

// NewPool constructs a pool pushing transformed items into sink. Any channel
// variant or a Collector can serve as the sink.
func NewPool[In, Out any](
	sink Sender[Out],
	transform func(context.Context, In) (Out, error),
	opts ...Option,
) (*Pool[In, Out], error) {
	if sink == nil {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("sink", "nil"))
	}
	if transform == nil {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("transform", "nil"))
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Pool[In, Out]{
		sink:      sink,
		transform: transform,
		cfg:       cfg,
		items:     cfg.Metrics.Counter("pool_items_processed"),
		failures:  cfg.Metrics.Counter("pool_transform_failures"),
		inflight:  cfg.Metrics.UpDownCounter("pool_items_inflight"),
	}, nil
}

// Consume drains a lazy sequence. Item claiming is exclusive: no two workers
// observe the same element.
func (p *Pool[In, Out]) Consume(ctx context.Context, seq iter.Seq[In]) error {
	puller := newSeqPuller(seq)
	defer puller.close()
	return p.run(ctx, func(context.Context) (In, bool, error) {
		v, ok := puller.pull()
		return v, ok, nil
	})
}

// ConsumeSlice drains a fixed collection. Workers share one cursor, so each
// element is processed exactly once.
func (p *Pool[In, Out]) ConsumeSlice(ctx context.Context, items []In) error {
	cursor := newSliceCursor(items)
	return p.run(ctx, func(context.Context) (In, bool, error) {
		v, ok := cursor.claim()
		return v, ok, nil
	})
}

// ConsumeChannel drains a channel until it reports ErrChannelClosed, which
// is treated as normal exhaustion. Draining an open Channel or
// BoundedChannel only ends when ctx is done.
func (p *Pool[In, Out]) ConsumeChannel(ctx context.Context, src Receiver[In]) error {
	return p.run(ctx, func(c context.Context) (In, bool, error) {
		v, err := src.Receive(c)
		if err != nil {
			var zero In
			if errors.Is(err, ErrChannelClosed) {
				return zero, false, nil
			}
			return zero, false, err
		}
		return v, true, nil
	})
}

// run launches the worker group over a claim function and waits for all
// workers to exit.
func (p *Pool[In, Out]) run(ctx context.Context, next func(context.Context) (In, bool, error)) error {
	g, gctx := errgroup.WithContext(ctx)
	for range p.cfg.Concurrency {
		g.Go(func() error {
			return p.work(gctx, next)
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return err
}

func (p *Pool[In, Out]) work(ctx context.Context, next func(context.Context) (In, bool, error)) error {
	for {
		// Stop claiming as soon as a sibling failed or the caller cancelled.
		if ctx.Err() != nil {
			return nil
		}
		v, ok, err := next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if !ok {
			return nil
		}

		p.inflight.Add(1)
		out, err := p.transform(ctx, v)
		p.inflight.Add(-1)
		if err != nil {
			p.failures.Add(1)
			return fmt.Errorf("%w: %w", ErrWorkerFailure, err)
		}
		if err := p.sink.Send(ctx, out); err != nil {
			return err
		}
		p.items.Add(1)
	}
}
