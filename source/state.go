// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package source

// State is the source's connection status.
type State int

const (
	// StateWaiting means the source has sent BORROW and has not yet seen
	// a LENT back.
	StateWaiting State = iota
	// StateOpen means the sink has accepted this source as its borrower.
	StateOpen
	// StateError is terminal: Put and Tick become no-ops.
	StateError
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "Waiting"
	case StateOpen:
		return "Open"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}
