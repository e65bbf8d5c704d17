package model

import "sync"

// idGuard serializes operations that target the same route point ID.
// Entries are dropped once no caller holds or waits for them.
type idGuard struct {
	mu    sync.Mutex
	locks map[string]*idLock
}

type idLock struct {
	mu   sync.Mutex
	refs int
}

func newIDGuard() *idGuard {
	return &idGuard{locks: make(map[string]*idLock)}
}

func (g *idGuard) lock(id string) (unlock func()) {
	g.mu.Lock()
	l, ok := g.locks[id]
	if !ok {
		l = &idLock{}
		g.locks[id] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, id)
		}
		g.mu.Unlock()
	}
}

func (g *idGuard) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
