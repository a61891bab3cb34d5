// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// exhausted reports whether err means the kernel refused further watches:
// the inotify watch limit (ENOSPC) or a file descriptor limit (EMFILE,
// ENFILE). A watcher in that state misses events for the rest of its life.
func exhausted(err error) bool {
	for _, errno := range []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
