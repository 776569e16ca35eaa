// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"code.hybscloud.com/lumen/internal/clock"
	"code.hybscloud.com/lumen/transport"
	"code.hybscloud.com/lumen/wire"
)

// processDatagram walks every message packed into one datagram and
// dispatches each in turn. A tag the iterator can't parse (unknown type,
// or a payload length that overruns the datagram) ends the datagram early
// with a single FAIL to the sender, addressed by the offending message's
// id when that much of the header survived parsing.
func (s *Sink) processDatagram(data []byte, from transport.Endpoint) {
	it := wire.NewIterator(data)
	for it.HasNext() {
		pos := it.Pos()
		if err := it.Next(); err != nil {
			msgID, _ := wire.PeekMsgID(data, pos)
			s.emitFailTo(from, msgID, wire.ErrCodeBadMsg)
			return
		}
		s.dispatch(it, from)
	}
}

func (s *Sink) dispatch(it *wire.Iterator, from transport.Endpoint) {
	switch it.Type() {
	case wire.TypeBorrow:
		durMs, bufLenFrames, ok := it.BorrowParams()
		if !ok {
			s.emitFailTo(from, it.MsgID(), wire.ErrCodeBadMsg)
			return
		}
		s.handleBorrow(from, it.MsgID(), durMs, bufLenFrames)
	case wire.TypeEnqueue:
		frameIdx, frame, ok := it.EnqueueParams()
		s.handleEnqueue(from, it.MsgID(), frameIdx, frame, ok)
	default:
		// LENT and FAIL are sink-to-source only; a sink receiving either is
		// a peer behaving oddly, not a protocol error worth reacting to.
	}
}

func (s *Sink) handleBorrow(from transport.Endpoint, msgID uint16, durMs, bufLenFrames byte) {
	if s.state == StateLent && !transport.EndpointEqual(from, s.borrower) {
		s.emitFailTo(from, msgID, wire.ErrCodeLentToOtherSource)
		return
	}
	maxFrames := s.ring.MaxCapacity() / s.frameByteSize
	switch {
	case int(durMs) < minFrameDurationMs:
		s.emitFailTo(from, msgID, wire.ErrCodeRequestedFrameDurationTooShort)
		if s.state == StateLent {
			s.dropBorrower()
		}
		return
	case int(bufLenFrames) > maxFrames:
		s.emitFailTo(from, msgID, wire.ErrCodeRequestedBufferTooLarge)
		if s.state == StateLent {
			s.dropBorrower()
		}
		return
	}
	s.beginLent(from, durMs, bufLenFrames)
}

func (s *Sink) handleEnqueue(from transport.Endpoint, msgID uint16, frameIdx byte, frame []byte, wellFormed bool) {
	if s.state != StateLent {
		s.emitFailTo(from, msgID, wire.ErrCodeNotBorrowed)
		return
	}
	if !transport.EndpointEqual(from, s.borrower) {
		s.emitFailTo(from, msgID, wire.ErrCodeLentToOtherSource)
		return
	}
	if !wellFormed {
		s.emitFailTo(from, msgID, wire.ErrCodeBadMsg)
		s.dropBorrower()
		return
	}
	s.lastRecvTime = clock.NowMs()
	s.applyEnqueue(frameIdx, frame)
}

// applyEnqueue implements the ordering and skip-fill policy of the
// protocol's frame sequencing: duplicates are dropped, a forward gap is
// filled by tiling the newest frame into the skipped slots, and a frame
// too far out of order (diff > 128) is dropped silently.
func (s *Sink) applyEnqueue(frameIdx byte, frame []byte) {
	if !s.hasLastEnqueuedIdx {
		if !s.enqueueOne(frame) {
			return
		}
		s.lastEnqueuedIdx = frameIdx
		s.hasLastEnqueuedIdx = true
		return
	}

	diff := boundedDiff(s.lastEnqueuedIdx, frameIdx)
	switch {
	case diff == 0:
		// Exact duplicate of the last frame accepted: ignore.
		return
	case diff > 128:
		// Far out of order: drop silently rather than reorder the queue.
		s.metrics.incDropped()
		return
	default:
		ok := true
		for i := byte(1); i < diff; i++ {
			if !s.enqueueOne(frame) {
				ok = false
				break
			}
		}
		if ok {
			ok = s.enqueueOne(frame)
		}
		// A ring full enough to reject any of these writes leaves
		// last_enqueued_idx where it was, so the next ENQUEUE still sees
		// the true gap instead of silently losing frames off the count.
		if ok {
			s.lastEnqueuedIdx = frameIdx
		}
	}
}

// enqueueOne pattern-fills frame into a frame_byte_size scratch buffer
// (copying the prefix if frame is long enough, tiling it otherwise) and
// writes that into the ring, reporting whether it fit.
func (s *Sink) enqueueOne(frame []byte) bool {
	patternFill(s.frameScratch, frame)
	if !s.ring.Enqueue(s.frameScratch) {
		s.metrics.incDropped()
		return false
	}
	s.metrics.incEnqueued()
	return true
}

// boundedDiff computes the forward distance from a to b on a ring of
// modulus 256, i.e. the number of increments needed to walk a to b.
func boundedDiff(a, b byte) byte {
	return b - a
}

// patternFill copies src into dst, tiling src repeatedly if dst is longer.
// If src is empty, dst is left unchanged.
func patternFill(dst, src []byte) {
	if len(src) == 0 {
		return
	}
	n := copy(dst, src)
	for n < len(dst) {
		n += copy(dst[n:], src[:min(len(src), len(dst)-n)])
	}
}
