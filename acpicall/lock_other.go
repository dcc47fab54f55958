//go:build !linux

package acpicall

import "os"

// acpi_call exists only on Linux.
func lock(f *os.File) (func(), error) {
	return func() {}, nil
}
