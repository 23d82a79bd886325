package syncx

import "sync"

// UnboundedChan is a FIFO queue with channel ends. Sends to In never block on
// a slow reader; values wait in an internal buffer until Out is drained.
type UnboundedChan[T any] struct {
	in  chan<- T
	out <-chan T

	closeOnce *sync.Once
}

func (c UnboundedChan[T]) In() chan<- T {
	return c.in
}

func (c UnboundedChan[T]) Out() <-chan T {
	return c.out
}

// Close stops accepting values. Out yields what is still buffered and is
// closed afterwards. Close may be called more than once.
func (c UnboundedChan[T]) Close() {
	c.closeOnce.Do(func() { close(c.in) })
}

func NewUnboundedChan[T any](capacity int) UnboundedChan[T] {
	in := make(chan T, capacity)
	out := make(chan T, capacity)
	go forward(in, out, capacity)
	return UnboundedChan[T]{in: in, out: out, closeOnce: new(sync.Once)}
}

func forward[T any](in <-chan T, out chan<- T, capacity int) {
	defer close(out)
	buffer := make([]T, 0, capacity)

loop:
	for {
		val, ok := <-in
		if !ok {
			break loop
		}

		select {
		case out <- val:
			continue
		default:
		}

		// out is full, park val
		buffer = append(buffer, val)
		for len(buffer) > 0 {
			select {
			case val, ok := <-in:
				if !ok {
					break loop
				}
				buffer = append(buffer, val)
			case out <- buffer[0]:
				buffer = buffer[1:]
				if len(buffer) == 0 {
					// fresh backing array so the drained one can be collected
					buffer = make([]T, 0, capacity)
				}
			}
		}
	}

	for _, val := range buffer {
		out <- val
	}
}
