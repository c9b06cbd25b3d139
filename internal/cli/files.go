package cli

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// OpenInput opens path for reading, or returns stdin if path is empty.
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// CreateOutput creates path with the given permissions, or returns stdout if path is empty.
//
// An existing file is truncated, and its permissions are reset to perm.
func CreateOutput(path string, perm os.FileMode, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{stdout}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	if err = f.Chmod(perm); err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "chmod %s", path)
	}
	return f, nil
}
