package mounttab

import (
	"regexp"
	"strings"
	"testing"
)

func TestMountString(t *testing.T) {
	m := &Mount{
		Device:     "/dev/sda1",
		MountPoint: "/mnt/disk",
		FSType:     "ext4",
		Options:    []string{"ro", "nosuid"},
	}

	want := "/dev/sda1 on /mnt/disk type ext4 (ro,nosuid)"
	if got := m.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// displayPattern is the inverse of the display form. Recovery is exact
// as long as no field contains a literal '(', ')' or ','; that is a
// documented limitation of the format, not of the parser.
var displayPattern = regexp.MustCompile(`^(.+) on (.+) type (.+) \((.*)\)$`)

func TestMountString_RoundTrip(t *testing.T) {
	mounts := []*Mount{
		{Device: "/dev/sda1", MountPoint: "/mnt/disk", FSType: "ext4", Options: []string{"rw"}},
		{Device: "tmpfs", MountPoint: "/run", FSType: "tmpfs", Options: []string{"rw", "nosuid", "size=4096k"}},
		{Device: "/dev/my disk", MountPoint: "/mnt/with space", FSType: "xfs", Options: []string{"user xattr", "ro"}},
	}

	for _, m := range mounts {
		groups := displayPattern.FindStringSubmatch(m.String())
		if groups == nil {
			t.Fatalf("rendering %q does not match the display form", m.String())
		}
		if groups[1] != m.Device || groups[2] != m.MountPoint || groups[3] != m.FSType {
			t.Errorf("recovered (%q, %q, %q) from %q, want (%q, %q, %q)",
				groups[1], groups[2], groups[3], m.String(), m.Device, m.MountPoint, m.FSType)
		}
		if got := strings.Split(groups[4], ","); !equalStrings(got, m.Options) {
			t.Errorf("recovered options %v from %q, want %v", got, m.String(), m.Options)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
