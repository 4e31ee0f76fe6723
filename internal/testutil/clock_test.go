package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicClock_Defaults(t *testing.T) {
	clock := NewDeterministicClock(time.Time{}, 0)
	assert.Equal(t, Epoch, clock.Now())
	assert.Equal(t, Epoch.Add(time.Second), clock.Now())
}

func TestDeterministicClock_Steps(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := NewDeterministicClock(start, time.Minute)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Minute), clock.Now())
	assert.Equal(t, start.Add(2*time.Minute), clock.Now())
	assert.Equal(t, int64(3), clock.Ticks())
}

func TestDeterministicClock_Reset(t *testing.T) {
	clock := NewDeterministicClock(time.Time{}, time.Hour)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, int64(0), clock.Ticks())
	assert.Equal(t, Epoch, clock.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock(time.Time{}, time.Millisecond)
	const numGoroutines = 50
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[time.Time]bool)

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				now := clock.Now()
				mu.Lock()
				seen[now] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, numGoroutines*callsPerGoroutine, "every reading is unique")
	assert.Equal(t, int64(numGoroutines*callsPerGoroutine), clock.Ticks())
}

func TestFixedIDGenerator(t *testing.T) {
	gen := NewFixedIDGenerator("viz-1", "viz-2")

	assert.Equal(t, 2, gen.Remaining())
	assert.Equal(t, "viz-1", gen.Generate())
	assert.Equal(t, "viz-2", gen.Generate())
	assert.Equal(t, 0, gen.Remaining())
	assert.Panics(t, func() { gen.Generate() })
}

func TestFixtures(t *testing.T) {
	ix := SalesIndex()
	assert.Equal(t, 500, ix.RowCount())
	assert.True(t, ix.IsNumeric("sales"))

	path := WriteFile(t, "sales.csv", SalesCSV)
	assert.FileExists(t, path)
}
