//go:build unix

package serialport

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// CheckAccess verifies that device exists, is not a directory, and can be
// opened for reading and writing by the current user.
func CheckAccess(device string) error {
	info, err := os.Stat(device)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", ErrConnection, device)
		}
		return fmt.Errorf("%w: stat %s: %w", ErrConnection, device, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrConnection, device)
	}
	if err := unix.Access(device, unix.R_OK|unix.W_OK); err != nil {
		return fmt.Errorf("%w: %s: insufficient permissions: %w", ErrConnection, device, err)
	}
	return nil
}
