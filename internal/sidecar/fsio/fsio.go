// Package fsio is the filesystem seam for the sidecar documents.
//
// The sidecar store reads and rewrites whole JSON documents; this package
// narrows the filesystem surface to exactly those operations so tests can
// inject read and write failures deterministically.
//
// Two implementations are provided:
//   - [Real]: production use, wraps the [os] package with atomic writes
//   - [Injected]: testing use, fails selected paths with chosen errors
package fsio

import "os"

// FS defines the filesystem operations the sidecar documents need.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically via temp file +
	// rename, then applies perm. A crash never leaves a partial document.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)
}
