// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements the four-message framing layer used by the sink
// and source engines.
//
// Wire format: each message is a 5-byte header followed by payload bytes.
//
//	type:u8 | msg_id:u16-LE | payload_len:u16-LE | payload[payload_len]
//
// A single datagram is a concatenation of such records; a receiver iterates
// until the buffer is exhausted (Iterator). Message ids are assigned by each
// peer from its own monotonically increasing 16-bit counter starting at 0
// and wrapping (Builder); they are never compared across peers. Maximum
// payload length is MaxPayloadLen.
//
// Payloads:
//
//	BORROW  (0x00): frame_duration_ms:u8 | buffer_length_frames:u8
//	LENT    (0x01): (empty)
//	ENQUEUE (0x02): frame_idx:u8 | frame_byte_length:u16-LE | frame[frame_byte_length]
//	FAIL    (0xFF): offending_msg_id:u16-LE | error_code:u8
package wire

import "encoding/binary"

// Type is the one-byte message type tag.
type Type byte

const (
	TypeBorrow  Type = 0x00
	TypeLent    Type = 0x01
	TypeEnqueue Type = 0x02
	TypeFail    Type = 0xFF
)

func (t Type) valid() bool {
	switch t {
	case TypeBorrow, TypeLent, TypeEnqueue, TypeFail:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	switch t {
	case TypeBorrow:
		return "BORROW"
	case TypeLent:
		return "LENT"
	case TypeEnqueue:
		return "ENQUEUE"
	case TypeFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

const (
	// headerLen is the fixed 5-byte type|msg_id|payload_len header.
	headerLen = 5

	// MaxPayloadLen is the largest payload a single message may carry.
	MaxPayloadLen = 1<<16 - 1

	// enqueueHeaderLen is the frame_idx + frame_byte_length prefix inside
	// an ENQUEUE payload, before the frame bytes themselves.
	enqueueHeaderLen = 3

	// failPayloadLen is the fixed payload length of a FAIL message.
	failPayloadLen = 3
)

var byteOrder = binary.LittleEndian
