//go:build !unix

package serialport

import (
	"fmt"
	"os"
)

// CheckAccess verifies that device exists. Permission bits are not
// inspected on this platform; Open reports access problems instead.
func CheckAccess(device string) error {
	info, err := os.Stat(device)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrConnection, device, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrConnection, device)
	}
	return nil
}
