// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sink

// State is the sink's reservation status.
type State int

const (
	// StateOpen means the sink is waiting for a BORROW.
	StateOpen State = iota
	// StateLent means the sink is associated with one borrower endpoint.
	StateLent
	// StateError is terminal: all further input is ignored.
	StateError
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "Open"
	case StateLent:
		return "Lent"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}
