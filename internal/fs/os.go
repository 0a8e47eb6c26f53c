//go:build !windows
// +build !windows

package fs

import (
	"fmt"
	"os"
)

// Open opens a block device or an image file read-only.
func Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}

	finfo, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if finfo.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%q is a directory", path)
	}
	return f, nil
}
