package paging

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FetchFunc loads one page from a paged source.
type FetchFunc[T any] func(ctx context.Context, req Request) (Page[T], error)

// ForEach walks every page of fetch, starting at page 0, and applies action to each element.
// afterChunk, when non-nil, runs once after each page. The walk stops at the first page that
// reports no next page, or at the first error; failed fetches are not retried.
func ForEach[T any](
	ctx context.Context,
	fetch FetchFunc[T],
	action func(T) error,
	afterChunk func(Page[T]) error,
	chunkSize int,
) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	req := Of(0, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := fetch(ctx, req)
		if err != nil {
			return err
		}
		for _, item := range page.Content {
			if err := action(item); err != nil {
				return err
			}
		}
		if afterChunk != nil {
			if err := afterChunk(page); err != nil {
				return err
			}
		}
		if !page.HasNext() {
			return nil
		}
		req = req.Next()
	}
}

// PMap transforms the content of p in parallel with at most workers goroutines.
// Output order matches input order. fn must be safe for concurrent use.
func PMap[T, R any](ctx context.Context, p Page[T], fn func(context.Context, T) (R, error), workers int) (Page[R], error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]R, len(p.Content))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range p.Content {
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Page[R]{}, err
	}

	return Page[R]{Content: out, Number: p.Number, Size: p.Size, TotalElements: p.TotalElements}, nil
}
