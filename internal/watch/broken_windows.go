// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes reported through ReadDirectoryChangesW.
const (
	errTooManyOpenFiles = syscall.Errno(4) // ERROR_TOO_MANY_OPEN_FILES
	errInvalidHandle    = syscall.Errno(6) // ERROR_INVALID_HANDLE, e.g. the root was removed
	errNotEnoughMemory  = syscall.Errno(8) // ERROR_NOT_ENOUGH_MEMORY
)

// exhausted reports whether err leaves the watcher unable to deliver further
// events: a handle limit, a handle invalidated under it, or a notification
// buffer that could not be allocated.
func exhausted(err error) bool {
	for _, errno := range []syscall.Errno{errTooManyOpenFiles, errInvalidHandle, errNotEnoughMemory} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
