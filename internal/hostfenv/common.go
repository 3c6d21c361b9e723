// Package hostfenv binds the host C library's floating point environment
// functions through purego, without cgo. It exists to cross-check the
// native backend against the host's own view of the registers; the control
// layer itself never depends on it.
package hostfenv

import "errors"

// ErrUnavailable is returned on platforms where no host library can be
// bound.
var ErrUnavailable = errors.New("host fenv bindings unavailable on this platform")
