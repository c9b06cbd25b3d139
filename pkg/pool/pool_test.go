package pool

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchNilPool(t *testing.T) {
	var p *Pool
	assert.Equal(t, 1, p.Workers())
	calls := 0
	results := p.Search(3, func(worker int) interface{} {
		assert.Equal(t, 0, worker)
		calls++
		if calls%2 == 0 {
			return calls
		}
		return nil
	})
	assert.Equal(t, []interface{}{2, 4, 6}, results)
}

func TestSearch(t *testing.T) {
	p := NewPool(4)
	defer p.TearDown()
	require.Equal(t, 4, p.Workers())

	var (
		calls int64
		mu    sync.Mutex
		busy  = make(map[int]bool)
	)
	results := p.Search(10, func(worker int) interface{} {
		mu.Lock()
		assert.False(t, busy[worker], "worker id used concurrently")
		assert.True(t, worker >= 0 && worker < 4)
		busy[worker] = true
		mu.Unlock()
		defer func() {
			mu.Lock()
			busy[worker] = false
			mu.Unlock()
		}()
		if atomic.AddInt64(&calls, 1)%3 == 0 {
			return worker
		}
		return nil
	})
	require.Len(t, results, 10)
	for _, r := range results {
		assert.NotNil(t, r)
	}

	// the pool can be reused
	results = p.Search(2, func(worker int) interface{} { return true })
	assert.Equal(t, []interface{}{true, true}, results)
}

func TestSearchZero(t *testing.T) {
	p := NewPool(2)
	defer p.TearDown()
	assert.Empty(t, p.Search(0, func(int) interface{} { return 1 }))
}

func TestLockedReader(t *testing.T) {
	data := bytes.Repeat([]byte{1, 2, 3, 4}, 1024)
	r := NewLockedReader(bytes.NewReader(data))
	var (
		wg    sync.WaitGroup
		total int64
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 16)
			for {
				n, err := r.Read(buf)
				atomic.AddInt64(&total, int64(n))
				if err == io.EOF {
					return
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(len(data)), total)
}
