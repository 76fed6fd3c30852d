package resilience

import "sync"

// SingleFlight collapses concurrent calls that share a key into one execution.
// Every waiter receives the result of the call that was already in flight.
type SingleFlight[T any] struct {
	mu    sync.Mutex
	calls map[string]*call[T]
}

type call[T any] struct {
	wg   sync.WaitGroup
	val  T
	err  error
	dups int
}

func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call[T])
	}

	if c, ok := g.calls[key]; ok {
		c.dups++
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call[T]{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	func() {
		defer c.wg.Done()
		c.val, c.err = fn()
	}()

	g.mu.Lock()
	shared := c.dups > 0
	delete(g.calls, key)
	g.mu.Unlock()

	return c.val, c.err, shared
}

// Result is what DoChan delivers.
type Result[T any] struct {
	Val    T
	Err    error
	Shared bool
}

// DoChan is Do without blocking the caller: the call runs on its own
// goroutine and the result arrives on the returned channel, so a caller can
// stop waiting while the shared call carries on for the others.
func (g *SingleFlight[T]) DoChan(key string, fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		val, err, shared := g.Do(key, fn)
		ch <- Result[T]{Val: val, Err: err, Shared: shared}
	}()
	return ch
}

// InFlight reports how many distinct keys are currently executing.
func (g *SingleFlight[T]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
