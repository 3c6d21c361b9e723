//go:build linux && amd64

package hostfenv

// glibc keeps the fenv entry points in the math library.
const libraryPath = "libm.so.6"
