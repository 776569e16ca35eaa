// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring implements a fixed-capacity circular byte buffer used as the
// sink engine's pending-frames queue.
//
// All operations refuse rather than overwrite when a request would not fit.
// The ring allocates its backing array once, at construction, sized to the
// largest capacity it will ever need; SetLimit narrows the effective
// capacity (and resets the queue) without any further allocation, which is
// how the sink engine re-derives a smaller per-borrow capacity on every
// BORROW while keeping the rule that capacity is set once per borrow and
// never resized during the Lent lifetime.
package ring

// Ring is a fixed-capacity circular byte buffer. The zero value is not
// usable; construct one with New.
type Ring struct {
	buf   []byte
	limit int // effective capacity, <= len(buf)

	head int // index of the oldest stored byte
	size int // number of stored bytes
}

// New allocates a Ring whose backing storage holds up to maxCapacity bytes.
// The ring starts with its effective capacity equal to maxCapacity; call
// SetLimit to narrow it.
func New(maxCapacity int) *Ring {
	return &Ring{buf: make([]byte, maxCapacity), limit: maxCapacity}
}

// MaxCapacity returns the size of the backing allocation, the upper bound
// any SetLimit call must respect.
func (r *Ring) MaxCapacity() int { return len(r.buf) }

// Limit returns the current effective capacity.
func (r *Ring) Limit() int { return r.limit }

// SetLimit narrows the effective capacity to n and clears the queue. It
// returns false without changing anything if n exceeds MaxCapacity.
func (r *Ring) SetLimit(n int) bool {
	if n < 0 || n > len(r.buf) {
		return false
	}
	r.limit = n
	r.head = 0
	r.size = 0
	return true
}

// Len returns the number of bytes currently stored.
func (r *Ring) Len() int { return r.size }

// Free returns the number of bytes that can still be enqueued before the
// ring is full.
func (r *Ring) Free() int { return r.limit - r.size }

// Reset empties the ring without changing its effective capacity.
func (r *Ring) Reset() {
	r.head = 0
	r.size = 0
}

// Enqueue appends src to the ring. If src does not fit in the remaining
// free space, Enqueue makes no change and returns false.
func (r *Ring) Enqueue(src []byte) bool {
	if len(src) > r.Free() {
		return false
	}
	if len(src) == 0 {
		return true
	}
	tail := (r.head + r.size) % r.limit
	n := copy(r.buf[tail:r.limit], src)
	copy(r.buf[0:], src[n:])
	r.size += len(src)
	return true
}

// DequeueInto copies the oldest len(dst) bytes into dst and advances the
// head past them. If fewer than len(dst) bytes are stored, DequeueInto
// makes no change and returns false.
func (r *Ring) DequeueInto(dst []byte) bool {
	if len(dst) > r.size {
		return false
	}
	if len(dst) == 0 {
		return true
	}
	n := copy(dst, r.buf[r.head:r.limit])
	copy(dst[n:], r.buf[0:])
	r.head = (r.head + len(dst)) % r.limit
	r.size -= len(dst)
	return true
}

// Drop discards the oldest n bytes without copying them out. If fewer than
// n bytes are stored, Drop makes no change and returns false.
func (r *Ring) Drop(n int) bool {
	if n > r.size {
		return false
	}
	if n == 0 {
		return true
	}
	r.head = (r.head + n) % r.limit
	r.size -= n
	return true
}

// Peek copies the oldest len(dst) bytes into dst without advancing the
// head. If fewer than len(dst) bytes are stored, Peek makes no change and
// returns false.
func (r *Ring) Peek(dst []byte) bool {
	if len(dst) > r.size {
		return false
	}
	n := copy(dst, r.buf[r.head:r.limit])
	copy(dst[n:], r.buf[0:])
	return true
}
