// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package clock provides a monotonic wall-clock function and a sleep
// primitive built on wrap-safe 32-bit millisecond arithmetic, correct
// because every timeout this module compares is far smaller than 2^32 ms
// (~49 days).
package clock

import "time"

// start anchors NowMs to the monotonic clock reading taken at package
// initialization.
var start = time.Now()

// NowMs returns the current monotonic time in milliseconds (measured from
// package initialization), truncated to 32 bits. Truncation is intentional:
// every timeout comparison in sink and source uses unsigned subtraction,
// which stays correct across the wrap.
func NowMs() uint32 {
	return uint32(time.Since(start).Milliseconds())
}

// Elapsed returns how many milliseconds have passed from since to now,
// using unsigned wrap-around subtraction. Callers MUST NOT use signed
// subtraction here — it produces the wrong answer across a wrap.
func Elapsed(since, now uint32) uint32 {
	return now - since
}

// Sleep pauses the calling goroutine for d. Only the source engine calls
// this: Put, to pace itself to the sink's expected dequeue rate, and New's
// blocking handshake loop between ticks.
func Sleep(d time.Duration) {
	time.Sleep(d)
}
