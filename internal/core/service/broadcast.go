package service

import (
	"sync"
	"sync/atomic"
)

type subscriber[T any] struct {
	fn        func(T)
	after     uint64
	cancelled atomic.Bool
}

// broadcaster delivers sequenced values to subscribers. Deliveries are
// serialised and a value whose sequence is not newer than the last one
// delivered is dropped. Callbacks run on the publishing goroutine and
// must not publish to the same broadcaster.
type broadcaster[T any] struct {
	deliverMu sync.Mutex

	mu   sync.Mutex
	subs []*subscriber[T]
	last uint64
}

// subscribe registers fn for values with sequence greater than after.
func (b *broadcaster[T]) subscribe(fn func(T), after uint64) func() {
	s := &subscriber[T]{fn: fn, after: after}

	b.mu.Lock()
	b.subs = append(b.subs, s)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.cancelled.Store(true)
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, cur := range b.subs {
				if cur == s {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *broadcaster[T]) publish(seq uint64, v T) {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.mu.Lock()
	if seq <= b.last {
		b.mu.Unlock()
		return
	}
	b.last = seq
	subs := make([]*subscriber[T], len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		if seq > s.after && !s.cancelled.Load() {
			s.fn(v)
		}
	}
}

func (b *broadcaster[T]) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
