// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	WriteTree(t, root, map[string]string{
		"recipes/default.rb": "package 'ntp'",
		"files/default/":     "",
	})

	data, err := os.ReadFile(filepath.Join(root, "recipes", "default.rb"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "package 'ntp'" {
		t.Errorf("recipes/default.rb = %q", data)
	}
	info, err := os.Stat(filepath.Join(root, "files", "default"))
	if err != nil || !info.IsDir() {
		t.Errorf("files/default should be a directory, stat error = %v", err)
	}
}

func TestNewCookbook(t *testing.T) {
	t.Parallel()

	root := NewCookbook(t, "ntp", map[string]string{"metadata.rb": "name 'ntp'"})
	if filepath.Base(root) != "ntp" {
		t.Errorf("NewCookbook() = %q, want a directory named ntp", root)
	}
	if _, err := os.Stat(filepath.Join(root, "metadata.rb")); err != nil {
		t.Errorf("metadata.rb not written: %v", err)
	}
}
