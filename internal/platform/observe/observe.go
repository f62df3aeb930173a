package observe

import "sync"

// Broadcaster pushes status snapshots to subscribers. Each subscriber holds at
// most one pending value; a slow reader only ever sees the latest snapshot.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan T
	closed bool
}

// Subscribe returns a channel of snapshots and a function that cancels the
// subscription. The channel is closed on cancel or Close.
func (b *Broadcaster[T]) Subscribe() (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan T, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	if b.subs == nil {
		b.subs = map[int]chan T{}
	}
	id := b.next
	b.next++
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Map relays src through fn with the same latest-value semantics. The returned
// channel closes when src does.
func Map[A, B any](src <-chan A, fn func(A) B) <-chan B {
	out := make(chan B, 1)
	go func() {
		defer close(out)
		for v := range src {
			mapped := fn(v)
			select {
			case out <- mapped:
				continue
			default:
			}
			select {
			case <-out:
			default:
			}
			select {
			case out <- mapped:
			default:
			}
		}
	}()
	return out
}
