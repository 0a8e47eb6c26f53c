package os

import (
	"errors"
	"fmt"
	"os"
)

// EnsureDir creates dir and its parents when missing, and fails when the
// path exists but is not a directory.
func EnsureDir(dir string) error {
	finfo, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}

	if !finfo.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
