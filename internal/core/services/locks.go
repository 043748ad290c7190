package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// keyedMutex serialises work per key. Unused keys are released so the map
// only holds keys with a holder or waiters.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sem  chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// lock acquires key and returns its unlock function. With noWait a held
// key fails with domain.ErrIngestInProgress; otherwise it waits until the
// key is free or ctx ends.
func (k *keyedMutex) lock(ctx context.Context, key string, noWait bool) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{sem: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	release := func() {
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}

	if noWait {
		select {
		case l.sem <- struct{}{}:
		default:
			release()
			return nil, domain.ErrIngestInProgress
		}
	} else {
		select {
		case l.sem <- struct{}{}:
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			release()
		})
	}, nil
}

// held reports the number of keys currently tracked.
func (k *keyedMutex) held() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
