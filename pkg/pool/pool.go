package pool

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// searchAlone runs f, which may return nil, until count elements are found
func searchAlone(f func(int) interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		results[i] = nil
		for ; results[i] == nil; results[i] = f(0) {
		}
	}
	return results
}

// search is the command sent to every worker when searching.
//
// Every worker keeps calling f until count results have been claimed.
type search struct {
	f func(int) interface{}
	// This counter indicates the number of results that still need to be claimed.
	ctr *int64
	// This counter indicates the number of results already stored.
	filled *int64
	// closed once every slot of results is filled
	done    chan struct{}
	results []interface{}
}

// run is the subroutine called by worker id for a search command.
//
// We need to keep searching for successful queries of f while *ctr > 0.
// When we find a successful result, we decrement *ctr, and claim the slot.
func (s *search) run(id int) {
	for atomic.LoadInt64(s.ctr) > 0 {
		res := s.f(id)
		if res == nil {
			continue
		}
		i := atomic.AddInt64(s.ctr, -1)
		if i < 0 {
			break
		}
		s.results[i] = res
		if atomic.AddInt64(s.filled, 1) == int64(len(s.results)) {
			close(s.done)
		}
	}
}

// worker starts up a new worker with a given id, listening to commands.
func worker(id int, commands <-chan *search) {
	for c := range commands {
		c.run(id)
	}
}

// Pool represents a pool of workers, used for parallelizing searches.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current thread instead.
//
// By creating a pool, you avoid the overhead of spinning up goroutines for
// each new operation.
type Pool struct {
	// The common channel used to send commands to the workers.
	commands chan *search
	// This holds the number of workers we've created
	workerCount int
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	var p Pool

	if count <= 0 {
		count = runtime.NumCPU()
	}

	p.commands = make(chan *search)
	p.workerCount = count

	for i := 0; i < count; i++ {
		go worker(i, p.commands)
	}

	return &p
}

// Workers returns the number of workers of the pool, 1 for a nil pool.
//
// Worker ids passed to search functions are in [0, Workers()).
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workerCount
}

// TearDown cleanly tears down a pool, closing channels, etc.
func (p *Pool) TearDown() {
	close(p.commands)
}

// Search queries the function f, until count successes are found.
//
// f is supposed to try a single candidate, returning nil if that candidate isn't
// successful. It receives the id of the worker calling it, so that state such as
// a random source can be kept per worker. A given id is never used concurrently.
//
// The result will be an array containing the first count successes.
func (p *Pool) Search(count int, f func(worker int) interface{}) []interface{} {
	if p == nil {
		return searchAlone(f, count)
	}

	ctr, filled := int64(count), int64(0)
	cmd := &search{
		f:       f,
		ctr:     &ctr,
		filled:  &filled,
		done:    make(chan struct{}),
		results: make([]interface{}, count),
	}
	if count <= 0 {
		return cmd.results
	}
	for i := 0; i < p.workerCount; i++ {
		p.commands <- cmd
	}
	<-cmd.done

	return cmd.results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This type implements io.Reader, returning the same output.
//
// This means acquiring a lock whenever a read happens, so be aware of that
// for performance or concurrency reasons.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	// Intentionally not initializing m, since the zero value is ok
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader
//
// The behavior is to return the same output as the underlying reader. The difference
// is that it's safe to call this function concurrently.
//
// Naturally, when calling this function concurrently, what value ends up getting
// read is raced, so a seeded reader no longer produces reproducible results.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
