// Package queue implements FIFO queue backed by a ring buffer.
package queue

const minSize = 4

// Queue holds items in insertion order, zero value is not usable, use New.
type Queue[T any] struct {
	items      []T
	head, size int
}

// New creates a queue containing given items.
func New[T any](items ...T) *Queue[T] {
	capacity := minSize
	for capacity < len(items) {
		capacity <<= 1
	}
	q := &Queue[T]{items: make([]T, capacity), size: len(items)}
	copy(q.items, items)
	return q
}

func (q *Queue[T]) IsEmpty() bool {
	return q.size == 0
}

func (q *Queue[T]) Len() int {
	return q.size
}

// Append adds item to the end of the queue.
func (q *Queue[T]) Append(item T) *Queue[T] {
	if q.size == len(q.items) {
		q.grow()
	}
	q.items[(q.head+q.size)&(len(q.items)-1)] = item
	q.size++
	return q
}

// First removes and returns the first item, false means the queue is empty.
func (q *Queue[T]) First() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}

	res := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) & (len(q.items) - 1)
	q.size--
	return res, true
}

// Items returns queued items in order.
func (q *Queue[T]) Items() []T {
	res := make([]T, q.size)
	n := copy(res, q.items[q.head:min(q.head+q.size, len(q.items))])
	copy(res[n:], q.items)
	return res
}

func (q *Queue[T]) grow() {
	items := make([]T, len(q.items)<<1)
	copy(items, q.Items())
	q.items = items
	q.head = 0
}
