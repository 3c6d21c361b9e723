// Package native accesses the host's floating point control registers
// directly. The state it manipulates belongs to the current OS thread;
// callers must pin their goroutine with runtime.LockOSThread for the
// duration of any sequence of operations. Only amd64 is supported; other
// architectures use the software core instead.
package native

import "errors"

// ErrUnsupported is returned by Open on architectures without direct
// floating point register access.
var ErrUnsupported = errors.New("native floating point register access requires amd64")
