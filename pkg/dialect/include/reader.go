package include

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// FileReader is the only I/O capability the file pre-pass needs.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// ReaderFunc adapts a function to FileReader.
type ReaderFunc func(path string) ([]byte, error)

// ReadFile calls f(path).
func (f ReaderFunc) ReadFile(path string) ([]byte, error) {
	return f(path)
}

// OSReader reads from the local filesystem with an optional size limit.
type OSReader struct {
	MaxFileSize int64 // 0 disables the limit
}

// ReadFile implements FileReader.
func (r OSReader) ReadFile(path string) ([]byte, error) {
	if r.MaxFileSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.Size() > r.MaxFileSize {
			return nil, fmt.Errorf("file size %d exceeds maximum %d bytes", info.Size(), r.MaxFileSize)
		}
	}
	return os.ReadFile(path)
}

// isNotFound reports whether err means the path does not exist, including
// a path component that is a regular file.
func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
