// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "errors"

var (
	// ErrMalformed reports that a datagram could not be parsed as a
	// well-formed sequence of messages: an unknown type tag, or a payload
	// length that overruns the datagram.
	ErrMalformed = errors.New("wire: malformed message")

	// ErrTooLong reports that a payload exceeds MaxPayloadLen.
	ErrTooLong = errors.New("wire: payload too long")

	// ErrNoMessage reports that Iterator.Next was called with no message
	// remaining in the datagram.
	ErrNoMessage = errors.New("wire: no message remaining")
)

// ErrorCode is the one-byte error code carried in a FAIL message payload.
type ErrorCode byte

// Wire error codes.
const (
	ErrCodeNotBorrowed                    ErrorCode = 1
	ErrCodeRequestedBufferTooLarge        ErrorCode = 2
	ErrCodeRequestedFrameDurationTooShort ErrorCode = 3
	ErrCodeLentToOtherSource              ErrorCode = 4
	ErrCodeBadMsg                         ErrorCode = 5
	ErrCodeTimeout                        ErrorCode = 6
)

// String returns a human-readable description of the error code, the same
// mapping a source engine uses to populate its error message on receiving a
// FAIL. Unknown codes map to a generic description, matching the
// "unrecoverable sink error" fallback.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNotBorrowed:
		return "sink is not borrowed"
	case ErrCodeRequestedBufferTooLarge:
		return "requested buffer too large"
	case ErrCodeRequestedFrameDurationTooShort:
		return "requested frame duration too short"
	case ErrCodeLentToOtherSource:
		return "sink is lent to another source"
	case ErrCodeBadMsg:
		return "malformed message"
	case ErrCodeTimeout:
		return "timed out"
	default:
		return "unrecoverable sink error"
	}
}
