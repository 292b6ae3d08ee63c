package bidgate

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGate_SingleSlot(t *testing.T) {
	var g Gate

	require.True(t, g.TryAcquire())
	require.True(t, g.Held())
	require.False(t, g.TryAcquire(), "second acquire must fail while held")

	g.Release()
	require.False(t, g.Held())
	require.True(t, g.TryAcquire(), "acquire after release must succeed")

	g.Release()
	g.Release() // releasing a free gate is harmless
	require.False(t, g.Held())
}

func TestGate_ConcurrentAcquire(t *testing.T) {
	var g Gate
	var winners atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire() {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), winners.Load())
}
