// Package version reports the build version, set at link time with
// -ldflags "-X github.com/TFMV/partskeeper/version.Version=...".
package version

import "fmt"

var Version = "0.1.0"
var BuildDate = "unknown"
var Commit = ""

func GetVersion() string {
	return Version
}

func GetBuildDate() string {
	return BuildDate
}

// String formats the version for the version command.
func String() string {
	s := fmt.Sprintf("partskeeper %s (built %s", Version, BuildDate)
	if Commit != "" {
		s += ", commit " + Commit
	}
	return s + ")"
}
