// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clock

import "testing"

func TestElapsed_NoWrap(t *testing.T) {
	if got := Elapsed(1000, 1500); got != 500 {
		t.Fatalf("Elapsed(1000, 1500) = %d, want 500", got)
	}
}

func TestElapsed_AcrossWrap(t *testing.T) {
	// since is just before the uint32 wrap, now is just after it; the
	// elapsed time should still read as a small positive number.
	since := ^uint32(0) - 10 // 2^32 - 11
	now := uint32(9)         // 9 ms after the wrap, 20 ms after since
	if got := Elapsed(since, now); got != 20 {
		t.Fatalf("Elapsed across wrap = %d, want 20", got)
	}
}

func TestNowMs_Monotonic(t *testing.T) {
	a := NowMs()
	b := NowMs()
	if b < a {
		t.Fatalf("NowMs went backwards: a=%d b=%d", a, b)
	}
}
