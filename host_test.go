package dovibake

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBaker(t *testing.T, frames int, skip map[int]bool) *Baker {
	t.Helper()

	src := &MemorySource{}
	for i := 0; i < frames; i++ {
		src.Frames = append(src.Frames, grayFrame(LayoutYUV420, 4, 4, uint16(i)))
	}
	b, err := NewBaker(src, nil, &StaticReshaper{Frames: frames, Skip: skip})
	require.NoError(t, err)
	return b
}

func TestBakeFrames(t *testing.T) {
	b := testBaker(t, 10, map[int]bool{3: true})

	var (
		mu      sync.Mutex
		done    []int
		skipped []int
	)
	err := BakeFrames(context.Background(), b, 2, 100, 3, func(n int, f *Frame, err error) error {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			assert.True(t, errors.Is(err, ErrFrameSkipped))
			assert.Nil(t, f)
			skipped = append(skipped, n)
			return nil
		}
		assert.Equal(t, uint16(n), f.Planes[0].At(0, 0))
		done = append(done, n)
		return nil
	})
	require.NoError(t, err)

	sort.Ints(done)
	assert.Equal(t, []int{2, 4, 5, 6, 7, 8, 9}, done)
	assert.Equal(t, []int{3}, skipped)
}

func TestBakeFrames_error(t *testing.T) {
	b := testBaker(t, 50, nil)
	boom := errors.New("boom")

	var (
		mu    sync.Mutex
		calls int
	)
	err := BakeFrames(context.Background(), b, 0, -1+b.FrameCount(), 2, func(n int, f *Frame, err error) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if n == 5 {
			return boom
		}
		return nil
	})
	assert.Same(t, boom, err)
	assert.Less(t, calls, 50)
}

func TestBakeFrames_canceled(t *testing.T) {
	b := testBaker(t, 5, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := BakeFrames(ctx, b, 0, 4, 1, func(int, *Frame, error) error { return nil })
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBakeFrames_emptyRange(t *testing.T) {
	b := testBaker(t, 2, nil)
	called := false
	require.NoError(t, BakeFrames(context.Background(), b, 5, 9, 0, func(int, *Frame, error) error {
		called = true
		return nil
	}))
	assert.False(t, called)
}

func TestBakeFrames_clampsRange(t *testing.T) {
	b := testBaker(t, 4, nil)

	var (
		mu   sync.Mutex
		done []int
	)
	require.NoError(t, BakeFrames(context.Background(), b, -3, 1, 2, func(n int, f *Frame, err error) error {
		assert.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		done = append(done, n)
		return nil
	}))

	sort.Ints(done)
	assert.Equal(t, []int{0, 1}, done)
}
