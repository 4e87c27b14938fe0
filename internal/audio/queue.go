package audio

import "sync"

// commandQueue is an unbounded multi-producer FIFO with a single blocking
// consumer. Enqueue never blocks; memory is the only bound.
type commandQueue struct {
	mu     sync.Mutex
	items  []Command
	closed bool
	signal chan struct{} // buffered, size 1; coalesces wakeups
}

func newCommandQueue() *commandQueue {
	return &commandQueue{
		items:  make([]Command, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends c. Returns false if the queue is closed.
func (q *commandQueue) Enqueue(c Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, c)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// Dequeue removes and returns the front command, blocking until one is
// available. Returns false once the queue is closed.
func (q *commandQueue) Dequeue() (Command, bool) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return Command{}, false
		}
		if len(q.items) > 0 {
			c := q.items[0]
			q.items[0] = Command{} // drop buffer references for GC
			if len(q.items) == 1 {
				q.items = q.items[:0]
			} else {
				q.items = q.items[1:]
			}
			q.mu.Unlock()
			return c, true
		}
		q.mu.Unlock()
		<-q.signal
	}
}

// Len returns the number of queued commands.
func (q *commandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further commands, wakes the consumer and returns the
// commands that were still pending.
func (q *commandQueue) Close() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	pending := q.items
	q.items = nil
	close(q.signal)
	return pending
}
