package mqtt

import "log"

// outMsg stores a serialized MQTT message for replay after reconnection.
type outMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// replayQueue is a fixed-capacity FIFO holding messages published while the
// broker connection is down. On overflow the oldest message is dropped; a
// lost heartbeat matters less than a lost set record, and set records are
// rare enough that the queue never realistically fills.
// Not safe for concurrent use; the caller must synchronize.
type replayQueue struct {
	buf      []outMsg
	capacity int
	head     int // next write position
	count    int
	overflow bool // true if any message was dropped since last drain
}

func newReplayQueue(capacity int) *replayQueue {
	return &replayQueue{
		buf:      make([]outMsg, capacity),
		capacity: capacity,
	}
}

func (q *replayQueue) push(msg outMsg) {
	if q.count == q.capacity {
		if !q.overflow {
			log.Printf("mqtt: replay queue full (%d messages), dropping oldest", q.capacity)
			q.overflow = true
		}
		// Overwrite oldest: head is already pointing at it
		q.buf[q.head] = msg
		q.head = (q.head + 1) % q.capacity
		// count stays at capacity
		return
	}
	q.buf[q.head] = msg
	q.head = (q.head + 1) % q.capacity
	q.count++
}

// drain returns all queued messages oldest-first and empties the queue.
func (q *replayQueue) drain() []outMsg {
	if q.count == 0 {
		return nil
	}

	result := make([]outMsg, q.count)
	// Oldest item is at (head - count) mod capacity
	start := (q.head - q.count + q.capacity) % q.capacity
	for i := 0; i < q.count; i++ {
		result[i] = q.buf[(start+i)%q.capacity]
	}

	q.count = 0
	q.head = 0
	q.overflow = false
	return result
}

func (q *replayQueue) len() int {
	return q.count
}
