package daemon

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// checkWritable verifies the process can create files under dir before the
// capture loop starts. Failures here are setup errors and abort startup.
func checkWritable(dir string) error {
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return fmt.Errorf("folder %s is not writable: %w", dir, err)
	}
	return nil
}
