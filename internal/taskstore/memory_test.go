package taskstore

import (
	"testing"
)

func TestMemory(t *testing.T) {
	t.Parallel()
	runStoreTests(t, func(t *testing.T, clock *testClock) Store {
		m := NewMemory()
		m.now = clock.Now
		return m
	})
}
