// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/cookbook/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/cookbook/config.cue on macOS,
// %APPDATA%\cookbook\config.cue on Windows), then from ./config.cue, unless a file is
// given explicitly. Values are validated against an embedded CUE schema
// (config_schema.cue) and may be overridden with COOKBOOK_-prefixed environment
// variables, for example COOKBOOK_LOG_LEVEL=debug or
// COOKBOOK_COOKBOOK_PATH=./cookbooks,./site-cookbooks.
package config
