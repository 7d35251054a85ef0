//go:build unix

package fsutil

import "golang.org/x/sys/unix"

// accessRead asks the kernel whether the real uid may read path, so
// permission checks match what the engine will see when it opens the file.
func accessRead(path string) error {
	return unix.Access(path, unix.R_OK)
}
