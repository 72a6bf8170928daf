// Package version carries build identification, injected via -ldflags at
// release time.
package version

var (
	// Version is the current release version.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String formats the build identity for -version output.
func String() string {
	return Version + " (" + GitSHA + ", built " + BuildTime + ")"
}
