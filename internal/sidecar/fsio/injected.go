package fsio

import "os"

// Injected wraps another [FS] and fails selected operations.
//
// A nil hook means "pass through". Hooks receive the path and return the
// error to inject, or nil to let the call proceed.
type Injected struct {
	Base FS

	// FailRead, if non-nil, is consulted before every ReadFile.
	FailRead func(path string) error

	// FailWrite, if non-nil, is consulted before every WriteFileAtomic.
	// An injected write failure leaves the target file untouched.
	FailWrite func(path string) error
}

var _ FS = (*Injected)(nil)

func (i *Injected) ReadFile(path string) ([]byte, error) {
	if i.FailRead != nil {
		if err := i.FailRead(path); err != nil {
			return nil, err
		}
	}

	return i.Base.ReadFile(path)
}

func (i *Injected) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if i.FailWrite != nil {
		if err := i.FailWrite(path); err != nil {
			return err
		}
	}

	return i.Base.WriteFileAtomic(path, data, perm)
}

func (i *Injected) Stat(path string) (os.FileInfo, error) {
	return i.Base.Stat(path)
}
