// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"github.com/sysbot/chef/pkg/cookbook"
	"github.com/sysbot/chef/pkg/metadata"
)

// Assemble builds the cookbook version for an overlay. It returns false when
// the overlay is empty. A frozen overlay yields a frozen version.
func Assemble(name string, ov *Overlay, md *metadata.Metadata) (*cookbook.Version, bool) {
	if ov.Empty() {
		return nil, false
	}

	v := cookbook.NewVersion(name, ov.Roots, md, ov.Files)
	if ov.Frozen {
		v.Freeze()
	}
	return v, true
}
