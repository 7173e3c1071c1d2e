package moderation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemo_Get(t *testing.T) {
	var memo Memo[int]
	calls := 0
	compute := func() int {
		calls++
		return calls * 10
	}

	value, hit := memo.Get("a", compute)
	assert.Equal(t, 10, value)
	assert.False(t, hit)

	value, hit = memo.Get("a", compute)
	assert.Equal(t, 10, value)
	assert.True(t, hit)

	// chave nova substitui a anterior
	value, hit = memo.Get("b", compute)
	assert.Equal(t, 20, value)
	assert.False(t, hit)

	value, hit = memo.Get("a", compute)
	assert.Equal(t, 30, value)
	assert.False(t, hit)

	hits, misses := memo.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 3, misses)
}

func TestMemo_Reset(t *testing.T) {
	var memo Memo[string]

	memo.Get("a", func() string { return "first" })
	memo.Reset()

	value, hit := memo.Get("a", func() string { return "second" })
	assert.Equal(t, "second", value)
	assert.False(t, hit)
}

func TestMemo_ConcurrentSameKeyComputesOnce(t *testing.T) {
	var (
		memo  Memo[int]
		mu    sync.Mutex
		calls int
		wg    sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			memo.Get("same", func() int {
				mu.Lock()
				defer mu.Unlock()
				calls++
				return 1
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}
