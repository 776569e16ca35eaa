// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

// Options configures how BindAny/BindPort bind their socket.
type Options struct {
	// ForceIPv4 binds an IPv4-only socket instead of the default IPv6
	// wildcard bind with v4-mapped addresses preferred.
	ForceIPv4 bool
}

var defaultOptions = Options{}

// Option configures Options.
type Option func(*Options)

// WithIPv4Only selects an IPv4-only bind, useful on hosts or CI runners
// without IPv6 support, instead of the default dual-stack bind.
func WithIPv4Only() Option {
	return func(o *Options) { o.ForceIPv4 = true }
}
