// Package version exposes build metadata for the rfdict binary.
package version

import "runtime/debug"

// Build metadata, overridable at link time:
//
//	go build -ldflags "-X .../pkg/version.Version=v1.2.3 -X .../pkg/version.Commit=abc1234"
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the Git hash the binary was built from.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// InitBinaryVersion fills in missing build metadata from the embedded module
// build info. Values already set via ldflags take precedence.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	if Commit != "unknown" {
		return
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			Commit = setting.Value
		}

		if setting.Key == "vcs.time" && Date == "unknown" {
			Date = setting.Value
		}
	}
}
