// Package queue provides an async FIFO queue shared by producer and consumer goroutines.
//
// A Queue is unbounded unless WithCapacity is given: a producer that outpaces its consumers
// grows memory without limit. Callers that cannot trust their consumers to keep up should
// configure a capacity and pick a full-queue Policy.
package queue

import (
	"context"
	"errors"
	"sync"
)

type Policy int

const (
	// Block makes Send wait until a receiver frees a slot.
	Block Policy = iota
	// DropOldest evicts the head item to make room for the new one.
	DropOldest
	// Reject discards the new item.
	Reject
)

type Option func(*options)

type options struct {
	capacity int
	policy   Policy
}

// WithCapacity bounds the queue to n items. n <= 0 keeps the queue unbounded.
func WithCapacity(n int, policy Policy) Option {
	return func(o *options) {
		o.capacity = n
		o.policy = policy
	}
}

var closed = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

type Queue[T any] struct {
	mu    sync.Mutex
	items []T

	// notEmpty is closed and replaced on every Send, waking all waiting receivers.
	notEmpty chan struct{}
	// notFull is closed and replaced on every removal, waking blocked senders.
	notFull chan struct{}

	capacity int
	policy   Policy
	dropped  uint64
}

func New[T any](opts ...Option) *Queue[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return &Queue[T]{
		notEmpty: make(chan struct{}),
		notFull:  make(chan struct{}),
		capacity: o.capacity,
		policy:   o.policy,
	}
}

// ErrFull is returned by SendContext when a Reject queue discards the item.
var ErrFull = errors.New("queue is full")

// Send appends item to the tail and wakes every blocked receiver.
// On an unbounded queue it never blocks beyond the internal lock.
func (q *Queue[T]) Send(item T) {
	_, _ = q.put(context.Background(), item, true)
}

// SendContext is Send that gives up waiting for room when ctx is done.
func (q *Queue[T]) SendContext(ctx context.Context, item T) error {
	ok, err := q.put(ctx, item, true)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFull
	}
	return nil
}

// TrySend never waits: on a full Block queue the item is discarded and counted as dropped.
// It reports whether the item was enqueued.
func (q *Queue[T]) TrySend(item T) bool {
	ok, _ := q.put(context.Background(), item, false)
	return ok
}

func (q *Queue[T]) put(ctx context.Context, item T, wait bool) (bool, error) {
	q.mu.Lock()
	for q.capacity > 0 && len(q.items) >= q.capacity {
		switch {
		case q.policy == DropOldest:
			q.popLocked()
			q.dropped++
		case q.policy == Reject || !wait:
			q.dropped++
			q.mu.Unlock()
			return false, nil
		default:
			notFull := q.notFull
			q.mu.Unlock()
			select {
			case <-notFull:
			case <-ctx.Done():
				return false, ctx.Err()
			}
			q.mu.Lock()
		}
	}

	q.items = append(q.items, item)
	close(q.notEmpty)
	q.notEmpty = make(chan struct{})
	q.mu.Unlock()
	return true, nil
}

// Recv blocks until an item is available and removes it from the head.
// A woken receiver that loses the race to another receiver goes back to waiting.
// The only error is ctx.Err().
func (q *Queue[T]) Recv(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.popLocked()
			q.mu.Unlock()
			return item, nil
		}
		wait := q.notEmpty
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryRecv removes the head item if there is one.
func (q *Queue[T]) TryRecv() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// Ready returns a channel that is closed once the queue holds at least one item.
// It is meant for select loops: after it fires, TryRecv may still find the queue
// empty if another receiver got there first.
func (q *Queue[T]) Ready() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) > 0 {
		return closed
	}
	return q.notEmpty
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped reports how many items a bounded queue discarded: DropOldest evictions, Reject refusals
// and TrySend calls that found a Block queue full.
func (q *Queue[T]) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	clear(q.items)
	q.items = q.items[:0]
	q.wakeSendersLocked()
}

func (q *Queue[T]) popLocked() T {
	item := q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	q.wakeSendersLocked()
	return item
}

func (q *Queue[T]) wakeSendersLocked() {
	if q.capacity <= 0 {
		return
	}
	close(q.notFull)
	q.notFull = make(chan struct{})
}
