// Package version reports the build identity of the binary: the -ldflags
// values when set, otherwise what the Go toolchain embedded.
package version
