package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution; the generation pass and cache loads run behind it. The
// boolean result reports whether the caller shared another call's
// result.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*sharedCall
}

type sharedCall struct {
	wg  sync.WaitGroup
	val any
	err error
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*sharedCall)
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &sharedCall{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	c.wg.Done()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return c.val, c.err, false
}
