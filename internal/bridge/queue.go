package bridge

import (
	"sync"

	"github.com/midilink-io/midilink/sdk/contracts"
)

// msgQueue is the single-producer/single-consumer message queue behind every
// input connection: the transport callback thread pushes, the caller thread
// pops. Logically unbounded, preserving real-time ordering over memory
// bounding; a push is bounded work (append under a mutex) and never blocks on
// the consumer.
type msgQueue struct {
	mu    sync.Mutex
	items []contracts.Message
	head  int
}

func newMsgQueue() *msgQueue {
	return &msgQueue{items: make([]contracts.Message, 0, 64)}
}

func (q *msgQueue) push(m contracts.Message) {
	q.mu.Lock()
	q.items = append(q.items, m)
	q.mu.Unlock()
}

// pop removes and returns the oldest message, reporting false when empty.
func (q *msgQueue) pop() (contracts.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head >= len(q.items) {
		return contracts.Message{}, false
	}
	m := q.items[q.head]
	q.items[q.head] = contracts.Message{}
	q.head++
	// Reclaim the drained prefix once it dominates the backing array.
	if q.head > 64 && q.head*2 >= len(q.items) {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return m, true
}

func (q *msgQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// clear discards all queued messages.
func (q *msgQueue) clear() {
	q.mu.Lock()
	q.items = q.items[:0]
	q.head = 0
	q.mu.Unlock()
}
