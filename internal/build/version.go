package build

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// appMajor defines the major version of this binary.
	appMajor uint = 0

	// appMinor defines the minor version of this binary.
	appMinor uint = 2

	// appPatch defines the application patch for this binary.
	appPatch uint = 0

	// appPreRelease must only contain characters from the semantic
	// versioning alphanumeric set.
	appPreRelease = "beta"
)

var (
	// Commit stores the current commit of this build, set by the linker
	// with -ldflags.
	Commit string

	// CommitHash stores the current commit hash of this build.
	CommitHash string

	// GoVersion stores the Go version the binary was built with.
	GoVersion = runtime.Version()

	// RawTags contains the comma separated build tags this binary was
	// built with.
	RawTags string
)

// Version returns the application version as a properly formed string per
// the semantic versioning 2.0.0 spec (https://semver.org/).
func Version() string {
	version := fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)

	if appPreRelease != "" {
		version = fmt.Sprintf("%s-%s", version, appPreRelease)
	}

	return version
}

// Tags returns the build tags this binary was built with.
func Tags() []string {
	if RawTags == "" {
		return nil
	}

	return strings.Split(RawTags, ",")
}
