// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sink

import "errors"

// ErrInvalidConfig reports a Config with a non-positive LightsCount; this
// is a local construction-time mistake, not a wire-visible protocol
// violation, so it surfaces as a Go error rather than a state transition.
var ErrInvalidConfig = errors.New("sink: LightsCount must be positive")
