// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// The helpers build cookbook trees on disk (WriteTree, NewCookbook) and fail
// the test immediately when a filesystem operation fails (MustMkdirAll).
package testutil
