package slot

import (
	"context"
	"sync"
)

// Locker serializes capacity changes per slot id inside one process.
// Entries are dropped once nobody holds or waits for them.
type Locker struct {
	mu    sync.Mutex
	slots map[string]*slotLock
}

type slotLock struct {
	sem  chan struct{}
	refs int
}

func NewLocker() *Locker {
	return &Locker{slots: make(map[string]*slotLock)}
}

// Lock blocks until id is free or ctx is done. The returned func releases
// the lock and is safe to call more than once.
func (l *Locker) Lock(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	e, ok := l.slots[id]
	if !ok {
		e = &slotLock{sem: make(chan struct{}, 1)}
		l.slots[id] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.drop(id, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.drop(id, e)
		})
	}, nil
}

func (l *Locker) drop(id string, e *slotLock) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.slots, id)
	}
	l.mu.Unlock()
}

// Len reports how many ids are currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
