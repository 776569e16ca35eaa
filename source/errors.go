// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package source

import "errors"

// ErrInvalidConfig reports a Config with a frame_duration_ms below the
// protocol's 10 ms floor; this is caught at construction rather than left
// for the sink's BORROW rejection to surface later.
var ErrInvalidConfig = errors.New("source: FrameDurationMs must be at least 10")

// ErrNotOpen reports that Put was called while the source is not Open.
var ErrNotOpen = errors.New("source: not open")
