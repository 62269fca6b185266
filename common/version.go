package common

import "strconv"

const (
	major = 0
	minor = 3
	patch = 0

	// Version of the record layouts and wire formats of all programs.
	Version = major*1_000_000 + minor*1_000 + patch
)

// VersionString returns Version in major.minor.patch form.
func VersionString() string {
	return strconv.Itoa(major) + "." + strconv.Itoa(minor) + "." + strconv.Itoa(patch)
}

// CheckVersion checks that data written by the given version can be read by
// the current code.
func CheckVersion(from int) bool {
	return from/1_000_000 == major && from <= Version
}
