package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelizeCoversEveryIndexOnce(t *testing.T) {
	for _, items := range []int{0, 1, 7, 100, 10007} {
		hits := make([]int32, items)
		Parallelize(items, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("items=%d: index %d visited %d times", items, i, h)
			}
		}
	}
}

func TestParallelizeWithThresholdRunsInlineBelowThreshold(t *testing.T) {
	var calls int32
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, int32(1), calls)

	calls = 0
	ParallelizeWithThreshold(0, 100, func(start, end int) { atomic.AddInt32(&calls, 1) })
	assert.Equal(t, int32(0), calls)
}

func TestMapPreservesOrder(t *testing.T) {
	got := Map(5000, 16, func(i int) float64 { return float64(i * i) })
	assert.Len(t, got, 5000)
	for i, v := range got {
		if v != float64(i*i) {
			t.Fatalf("Map()[%d] = %v, want %v", i, v, float64(i*i))
		}
	}
	assert.Empty(t, Map(0, 16, func(int) float64 { return 1 }))
}
