package taskstore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock hands out a controllable time to a store under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// runStoreTests exercises the Store contract against any implementation.
func runStoreTests(t *testing.T, newStore func(t *testing.T, clock *testClock) Store) {
	t.Run("create and get", func(t *testing.T) {
		ctx := context.Background()
		clock := newTestClock()
		s := newStore(t, clock)

		require.NoError(t, s.Create(ctx, Task{ID: "t1", Name: "parachain", Status: StatusPending}))

		got, err := s.Get(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "t1", got.ID)
		assert.Equal(t, "parachain", got.Name)
		assert.Equal(t, StatusPending, got.Status)
		assert.True(t, got.CreatedAt.Equal(clock.Now()))
		assert.Empty(t, got.Location)
	})

	t.Run("create rejects duplicates and non-pending tasks", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, newTestClock())

		require.NoError(t, s.Create(ctx, Task{ID: "t1", Status: StatusPending}))
		assert.ErrorIs(t, s.Create(ctx, Task{ID: "t1", Status: StatusPending}), ErrExists)
		assert.ErrorIs(t, s.Create(ctx, Task{ID: "t2", Status: StatusFinished}), ErrInvalidTransition)
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := newStore(t, newTestClock()).Get(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("complete once", func(t *testing.T) {
		ctx := context.Background()
		clock := newTestClock()
		s := newStore(t, clock)
		require.NoError(t, s.Create(ctx, Task{ID: "t1", Status: StatusPending}))

		clock.Advance(time.Second)
		require.NoError(t, s.Complete(ctx, "t1", Finished("https://example.com/t1.zip")))

		got, err := s.Get(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, StatusFinished, got.Status)
		assert.Equal(t, "https://example.com/t1.zip", got.Location)
		assert.True(t, got.UpdatedAt.Equal(clock.Now()))

		assert.ErrorIs(t, s.Complete(ctx, "t1", Failed(errors.New("late"))), ErrAlreadyCompleted)
		got, err = s.Get(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, StatusFinished, got.Status)
		assert.Empty(t, got.Error)
	})

	t.Run("complete failure", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, newTestClock())
		require.NoError(t, s.Create(ctx, Task{ID: "t1", Status: StatusPending}))

		require.NoError(t, s.Complete(ctx, "t1", Failed(errors.New("upload denied"))))
		got, err := s.Get(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, got.Status)
		assert.Equal(t, "upload denied", got.Error)
		assert.Empty(t, got.Location)
	})

	t.Run("complete errors", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, newTestClock())
		require.NoError(t, s.Create(ctx, Task{ID: "t1", Status: StatusPending}))

		assert.ErrorIs(t, s.Complete(ctx, "missing", Finished("x")), ErrNotFound)
		assert.ErrorIs(t, s.Complete(ctx, "t1", Result{Status: StatusPending}), ErrInvalidTransition)
	})

	t.Run("concurrent completion has one winner", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, newTestClock())
		require.NoError(t, s.Create(ctx, Task{ID: "t1", Status: StatusPending}))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				r := Finished("loc")
				if i%2 == 1 {
					r = Failed(errors.New("boom"))
				}
				if err := s.Complete(ctx, "t1", r); err == nil {
					wins.Add(1)
				} else {
					assert.ErrorIs(t, err, ErrAlreadyCompleted)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
		got, err := s.Get(ctx, "t1")
		require.NoError(t, err)
		assert.True(t, got.Status.Terminal())
	})

	t.Run("sweep removes old terminal tasks only", func(t *testing.T) {
		ctx := context.Background()
		clock := newTestClock()
		s := newStore(t, clock)

		require.NoError(t, s.Create(ctx, Task{ID: "old-done", Status: StatusPending}))
		require.NoError(t, s.Create(ctx, Task{ID: "old-pending", Status: StatusPending}))
		require.NoError(t, s.Complete(ctx, "old-done", Finished("loc")))

		clock.Advance(time.Hour)
		require.NoError(t, s.Create(ctx, Task{ID: "new-done", Status: StatusPending}))
		require.NoError(t, s.Complete(ctx, "new-done", Finished("loc")))

		removed, err := s.Sweep(ctx, clock.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, err = s.Get(ctx, "old-done")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.Get(ctx, "old-pending")
		assert.NoError(t, err)
		_, err = s.Get(ctx, "new-done")
		assert.NoError(t, err)
	})
}

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		status   Status
		terminal bool
	}{
		{StatusPending, false},
		{StatusFinished, true},
		{StatusFailed, true},
		{Status("unknown"), false},
	}
	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.terminal, tc.status.Terminal())
		})
	}
}
