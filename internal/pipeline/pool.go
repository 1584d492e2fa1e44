package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/swfsprite/internal/extract"
)

// workFunc processes one input file. It must not panic and reports every
// outcome through its Result.
type workFunc func(ctx context.Context, path string) extract.Result

// dispatch runs fn over files with at most workers calls in flight and
// streams each Result as soon as it completes, so the receiver sees
// completion order rather than submission order. The channel is closed after
// the last result. Cancelling ctx does not stop submission; fn is expected
// to return promptly for a cancelled context.
func dispatch(ctx context.Context, files []string, workers int, fn workFunc) <-chan extract.Result {
	if workers < 1 {
		workers = 1
	}
	results := make(chan extract.Result, workers)

	go func() {
		defer close(results)
		var g errgroup.Group
		g.SetLimit(workers)
		for _, path := range files {
			path := path
			g.Go(func() error {
				results <- fn(ctx, path)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return results
}
