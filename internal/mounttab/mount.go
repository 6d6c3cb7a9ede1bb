package mounttab

import (
	"fmt"
	"strings"
)

// Mount describes a mounted filesystem, one entry of the kernel mount
// table. See fstab(5) for the meaning of the fields.
type Mount struct {
	// Device is the source the filesystem is mounted from, e.g. /dev/sda1
	Device string
	// MountPoint is where in the tree the device is mounted, e.g. /mnt/disk
	MountPoint string
	// FSType is the filesystem type, e.g. ext4
	FSType string
	// Options holds the mount options in table order, e.g. ["ro", "nosuid"].
	// Duplicates are kept as written.
	Options []string
}

// String renders the entry the way mount(8) lists it:
//
//	/dev/sda1 on /mnt/disk type ext4 (ro,nosuid)
func (m *Mount) String() string {
	return fmt.Sprintf("%s on %s type %s (%s)",
		m.Device, m.MountPoint, m.FSType, strings.Join(m.Options, ","))
}
