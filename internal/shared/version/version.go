// Package version holds build metadata stamped via -ldflags.
package version

var (
	Version = "dev"
	Commit  = ""
)

// String renders the version with the commit when one was stamped.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
