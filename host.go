package dovibake

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// BakeFrames reconstructs frames first..last (inclusive, clamped to the
// stream) on up to workers goroutines and calls fn for each one, in no
// particular order. fn must be safe for concurrent use.
//
// Skipped frames reach fn with a nil frame and an error wrapping
// ErrFrameSkipped. Any other error from GetFrame or fn stops the remaining
// work and is returned.
func BakeFrames(ctx context.Context, b *Baker, first, last, workers int, fn func(n int, f *Frame, err error) error) error {
	if first < 0 {
		first = 0
	}
	if last >= b.FrameCount() {
		last = b.FrameCount() - 1
	}
	total := last - first + 1
	if total <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > total {
		workers = total
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				f, err := b.GetFrame(n)
				if err != nil && !errors.Is(err, ErrFrameSkipped) {
					fail(err)
					continue
				}
				if err := fn(n, f, err); err != nil {
					fail(err)
				}
			}
		}()
	}

feed:
	for n := first; n <= last; n++ {
		select {
		case jobs <- n:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
