package audio

import (
	"sync"
	"sync/atomic"
)

// blockQueue bridges the push-style render loop to pull-style device callbacks
// Capacity equals the block count, so a full queue back-pressures the render loop
type blockQueue struct {
	ready      chan []byte
	free       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	blockBytes int

	// Reader state, owned by the device callback goroutine
	cur    []byte
	off    int
	primed bool

	underrun atomic.Bool
	starved  atomic.Uint64
}

func newBlockQueue(blockCount, blockBytes int) *blockQueue {
	return &blockQueue{
		ready:      make(chan []byte, blockCount),
		free:       make(chan []byte, blockCount+1),
		done:       make(chan struct{}),
		blockBytes: blockBytes,
	}
}

// push copies block into the queue, blocking while it is full
// A pending underrun is reported instead of queueing until cleared
func (q *blockQueue) push(block []byte) error {
	if q.underrun.Load() {
		return ErrUnderrun
	}

	var buf []byte
	select {
	case buf = <-q.free:
	default:
	}
	if cap(buf) < len(block) {
		buf = make([]byte, len(block), max(len(block), q.blockBytes))
	}
	buf = buf[:len(block)]
	copy(buf, block)

	select {
	case <-q.done:
		return ErrSinkClosed
	default:
	}

	select {
	case q.ready <- buf:
		return nil
	case <-q.done:
		return ErrSinkClosed
	}
}

// read fills p from queued blocks and never blocks
// Missing data is zero-filled; once the stream has started that counts as an underrun
func (q *blockQueue) read(p []byte) int {
	n := 0
	for n < len(p) {
		if q.cur == nil || q.off >= len(q.cur) {
			q.recycle()
			select {
			case b := <-q.ready:
				q.cur, q.off = b, 0
				q.primed = true
			default:
				clear(p[n:])
				if q.primed {
					q.underrun.Store(true)
					q.starved.Add(1)
				}
				return len(p)
			}
		}
		c := copy(p[n:], q.cur[q.off:])
		q.off += c
		n += c
	}
	return n
}

func (q *blockQueue) recycle() {
	if q.cur == nil {
		return
	}
	select {
	case q.free <- q.cur:
	default:
	}
	q.cur = nil
}

func (q *blockQueue) clearUnderrun() {
	q.underrun.Store(false)
}

// close unblocks pending pushes; safe to call more than once
func (q *blockQueue) close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}
