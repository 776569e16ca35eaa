// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

// Builder assembles wire messages into a single growable scratch buffer.
//
// Builder is single-threaded: each Build* call resizes the internal buffer,
// writes the header and payload, advances the message id counter, and
// returns a borrow of that buffer. The returned slice is invalidated by the
// next Build* call on the same Builder — callers MUST hand it to the
// transport (or copy it) before building the next message.
type Builder struct {
	buf       []byte
	nextMsgID uint16
}

// NewBuilder returns a Builder whose message id counter starts at 0.
func NewBuilder() *Builder {
	return &Builder{}
}

// NextMsgID returns the id that will be assigned to the next built message.
func (b *Builder) NextMsgID() uint16 { return b.nextMsgID }

// header grows buf to hold a header+payload of the given type and payload
// length, writes the header, and returns the buffer (payload bytes are left
// for the caller to fill starting at offset headerLen).
func (b *Builder) header(typ Type, payloadLen int) []byte {
	total := headerLen + payloadLen
	if cap(b.buf) < total {
		b.buf = make([]byte, total)
	} else {
		b.buf = b.buf[:total]
	}
	b.buf[0] = byte(typ)
	byteOrder.PutUint16(b.buf[1:3], b.nextMsgID)
	byteOrder.PutUint16(b.buf[3:5], uint16(payloadLen))
	return b.buf
}

// finish advances the message id counter and returns the finished message.
func (b *Builder) finish() []byte {
	out := b.buf
	b.nextMsgID++
	return out
}

// BuildBorrow builds a BORROW message.
func (b *Builder) BuildBorrow(frameDurationMs, bufferLengthFrames byte) []byte {
	buf := b.header(TypeBorrow, 2)
	buf[headerLen+0] = frameDurationMs
	buf[headerLen+1] = bufferLengthFrames
	return b.finish()
}

// BuildLent builds an empty-payload LENT message.
func (b *Builder) BuildLent() []byte {
	b.header(TypeLent, 0)
	return b.finish()
}

// BuildEnqueue builds an ENQUEUE message carrying frame as its frame data.
// It returns ErrTooLong if frame would make the payload exceed MaxPayloadLen.
func (b *Builder) BuildEnqueue(frameIdx byte, frame []byte) ([]byte, error) {
	if len(frame) > MaxPayloadLen-enqueueHeaderLen {
		return nil, ErrTooLong
	}
	buf := b.header(TypeEnqueue, enqueueHeaderLen+len(frame))
	buf[headerLen] = frameIdx
	byteOrder.PutUint16(buf[headerLen+1:headerLen+enqueueHeaderLen], uint16(len(frame)))
	copy(buf[headerLen+enqueueHeaderLen:], frame)
	return b.finish(), nil
}

// BuildFail builds a FAIL message reporting offendingMsgID and code.
func (b *Builder) BuildFail(offendingMsgID uint16, code ErrorCode) []byte {
	buf := b.header(TypeFail, failPayloadLen)
	byteOrder.PutUint16(buf[headerLen:headerLen+2], offendingMsgID)
	buf[headerLen+2] = byte(code)
	return b.finish()
}
