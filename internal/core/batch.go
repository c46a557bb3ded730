package core

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchOptions controls Batches.
type BatchOptions struct {
	Size  int           // items per batch; values < 1 mean 1
	Pause time.Duration // wait between consecutive batches
	// OnBatch, if set, is called before each batch starts.
	OnBatch func(index, size int)
}

// Partition splits items into consecutive chunks of at most size.
func Partition[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

// Batches applies fn to every item. Items of one batch run concurrently; the
// next batch starts only after the whole batch has returned and opts.Pause has
// elapsed. Results keep input order. fn cannot fail: callers substitute their
// own fallback value so one item never aborts its siblings.
//
// A cancelled ctx shortens the pause but every item is still handed to fn,
// which sees the cancelled ctx.
func Batches[T, R any](ctx context.Context, opts BatchOptions, items []T, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))
	batches := Partition(items, opts.Size)
	offset := 0
	for i, batch := range batches {
		if i > 0 {
			sleep(ctx, opts.Pause)
		}
		if opts.OnBatch != nil {
			opts.OnBatch(i, len(batch))
		}

		var g errgroup.Group
		for j, item := range batch {
			idx := offset + j
			g.Go(func() error {
				results[idx] = fn(ctx, item)
				return nil
			})
		}
		_ = g.Wait()
		offset += len(batch)
	}
	return results
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
