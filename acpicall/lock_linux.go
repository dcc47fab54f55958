//go:build linux

package acpicall

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func lock(f *os.File) (func(), error) {
	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		return nil, fmt.Errorf("Locking %s failed: %w", f.Name(), err)
	}
	return func() {
		if err := unix.Flock(fd, unix.LOCK_UN); err != nil {
			log.Warningf("Unlocking %s failed: %v", f.Name(), err)
		}
	}, nil
}
