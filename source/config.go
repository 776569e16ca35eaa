// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package source

// minFrameDurationMs mirrors the sink's own floor on frame_duration_ms;
// rejecting a too-low value at construction avoids a round trip to learn
// it from the sink's FAIL.
const minFrameDurationMs = 10

const (
	// DefaultMaxBufferedFrames is the assumed depth of the sink's queue
	// used to pace Put when Config.MaxBufferedFrames is left at zero.
	DefaultMaxBufferedFrames = 16

	// DefaultRetryTimeoutMs is how often an unanswered BORROW is re-sent.
	DefaultRetryTimeoutMs = 100

	// DefaultDisconnectTimeoutMs is how long a source tolerates silence
	// from its sink, whether waiting for the first LENT or already Open.
	DefaultDisconnectTimeoutMs = 750
)

// Config parametrizes a Source.
type Config struct {
	// SinkHost and SinkPort identify the sink to reserve.
	SinkHost string
	SinkPort int

	// FrameDurationMs is the cadence this source commits to on every BORROW.
	// Must be at least 10; lower values make New and NewWithTransport
	// return ErrInvalidConfig.
	FrameDurationMs byte

	// MaxBufferedFrames is how many frames this source believes the sink's
	// queue can hold; it paces Put and is sent as buffer_length_frames on
	// every BORROW. Zero selects DefaultMaxBufferedFrames.
	MaxBufferedFrames int

	// RetryTimeoutMs bounds how long the source waits for a LENT before
	// re-emitting BORROW. Zero selects DefaultRetryTimeoutMs.
	RetryTimeoutMs uint32

	// DisconnectTimeoutMs bounds how long the source tolerates silence,
	// both during the initial handshake and once Open. Zero selects
	// DefaultDisconnectTimeoutMs.
	DisconnectTimeoutMs uint32

	// AsyncMake skips the blocking tick+sleep loop in New that otherwise
	// runs until the source leaves Waiting.
	AsyncMake bool
}

func (c Config) maxBufferedFrames() int {
	if c.MaxBufferedFrames <= 0 {
		return DefaultMaxBufferedFrames
	}
	return c.MaxBufferedFrames
}

func (c Config) retryTimeoutMs() uint32 {
	if c.RetryTimeoutMs == 0 {
		return DefaultRetryTimeoutMs
	}
	return c.RetryTimeoutMs
}

func (c Config) disconnectTimeoutMs() uint32 {
	if c.DisconnectTimeoutMs == 0 {
		return DefaultDisconnectTimeoutMs
	}
	return c.DisconnectTimeoutMs
}
