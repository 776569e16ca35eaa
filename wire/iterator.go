// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

// Iterator is a non-owning cursor over a raw datagram buffer. It does not
// copy the buffer; accessors return sub-slices that alias it, so the buffer
// must outlive the Iterator.
type Iterator struct {
	buf []byte
	pos int

	// fields describing the last message returned by Next.
	typ        Type
	id         uint16
	payloadLen uint16
	payloadOff int
}

// NewIterator returns an Iterator over buf, positioned before the first
// message.
func NewIterator(buf []byte) *Iterator {
	return &Iterator{buf: buf}
}

// HasNext reports whether the cursor has not yet reached the end of the
// datagram. It does not validate that a well-formed message follows; call
// Next to find out.
func (it *Iterator) HasNext() bool {
	return it.pos < len(it.buf)
}

// Pos returns the byte offset of the message Next will parse next. Callers
// use it together with PeekMsgID to address a FAIL at a message whose
// header couldn't be fully parsed.
func (it *Iterator) Pos() int {
	return it.pos
}

// PeekMsgID reads the msg_id field of the record at pos in buf without
// validating its type tag or payload length. ok is false if fewer than 3
// bytes remain from pos.
func PeekMsgID(buf []byte, pos int) (msgID uint16, ok bool) {
	if pos+3 > len(buf) {
		return 0, false
	}
	return byteOrder.Uint16(buf[pos+1 : pos+3]), true
}

// Next advances the cursor past one message and makes its fields available
// through Type, MsgID, PayloadLen, BorrowParams, EnqueueParams, and
// FailParams. It returns ErrNoMessage if HasNext is false, or ErrMalformed
// if the type tag is unrecognized or the payload length overruns buf.
func (it *Iterator) Next() error {
	if !it.HasNext() {
		return ErrNoMessage
	}
	if it.pos+headerLen > len(it.buf) {
		return ErrMalformed
	}
	typ := Type(it.buf[it.pos])
	if !typ.valid() {
		return ErrMalformed
	}
	id := byteOrder.Uint16(it.buf[it.pos+1 : it.pos+3])
	payloadLen := byteOrder.Uint16(it.buf[it.pos+3 : it.pos+5])
	payloadOff := it.pos + headerLen
	if payloadOff+int(payloadLen) > len(it.buf) {
		return ErrMalformed
	}

	it.typ = typ
	it.id = id
	it.payloadLen = payloadLen
	it.payloadOff = payloadOff
	it.pos = payloadOff + int(payloadLen)
	return nil
}

// Type returns the type tag of the last message parsed by Next.
func (it *Iterator) Type() Type { return it.typ }

// MsgID returns the message id of the last message parsed by Next.
func (it *Iterator) MsgID() uint16 { return it.id }

// PayloadLen returns the payload length of the last message parsed by Next.
func (it *Iterator) PayloadLen() uint16 { return it.payloadLen }

// BorrowParams returns the BORROW payload fields. ok is false if the last
// message is not a well-formed (2-byte payload) BORROW.
func (it *Iterator) BorrowParams() (frameDurationMs, bufferLengthFrames byte, ok bool) {
	if it.typ != TypeBorrow || it.payloadLen != 2 {
		return 0, 0, false
	}
	return it.buf[it.payloadOff], it.buf[it.payloadOff+1], true
}

// EnqueueParams returns the ENQUEUE payload fields. The returned frame
// slice aliases the iterator's underlying buffer. ok is false if the
// payload is shorter than the 3-byte frame_idx+frame_byte_length prefix —
// the caller (the sink engine) treats that as a bad ENQUEUE,
// distinct from a malformed datagram.
func (it *Iterator) EnqueueParams() (frameIdx byte, frame []byte, ok bool) {
	if it.typ != TypeEnqueue || it.payloadLen < enqueueHeaderLen {
		return 0, nil, false
	}
	frameIdx = it.buf[it.payloadOff]
	frameLen := int(it.payloadLen) - enqueueHeaderLen
	frameStart := it.payloadOff + enqueueHeaderLen
	return frameIdx, it.buf[frameStart : frameStart+frameLen], true
}

// FailParams returns the FAIL payload fields. ok is false if the payload is
// not the fixed 3-byte FAIL shape.
func (it *Iterator) FailParams() (offendingMsgID uint16, code ErrorCode, ok bool) {
	if it.typ != TypeFail || it.payloadLen != failPayloadLen {
		return 0, 0, false
	}
	offendingMsgID = byteOrder.Uint16(it.buf[it.payloadOff : it.payloadOff+2])
	code = ErrorCode(it.buf[it.payloadOff+2])
	return offendingMsgID, code, true
}
