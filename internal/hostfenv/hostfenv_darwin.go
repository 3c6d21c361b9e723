//go:build darwin && amd64

package hostfenv

const libraryPath = "/usr/lib/libSystem.B.dylib"
