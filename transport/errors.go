// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock reports that a Send/SendTo/RecvFrom could not make
// progress without blocking. Engines treat it as "nothing happened this
// tick" and never retry inline.
//
// This re-exports code.hybscloud.com/iox's sentinel rather than a
// package-local value, so the would-block signal is shared across every
// non-blocking layer in this module.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrNoPeer reports that Send was called before ResolveAndConnect or
// SetPeer established a default peer.
var ErrNoPeer = errors.New("transport: no peer set")
