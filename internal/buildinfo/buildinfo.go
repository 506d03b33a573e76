// Package buildinfo centralises build metadata for the lazybranch binary.
// The linker injects values into cmd/lazybranch/main.go; main() calls Set()
// to forward them here so every other package can query them.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

// String formats the metadata for --version.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s by %s)", i.Version, shortCommit(i.Commit), i.Date, i.BuiltBy)
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}

var current = Info{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
	BuiltBy: "unknown",
}

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Set stores the build metadata received from linker-injected variables.
func Set(v, c, d, b string) {
	current = Info{Version: v, Commit: c, Date: d, BuiltBy: b}
}

// Get returns the current build metadata.
func Get() Info { return current }

// Version returns the build version string.
func Version() string { return current.Version }

// Commit returns the build commit hash.
func Commit() string { return current.Commit }

// Enrich fills metadata the linker did not provide from the binary's
// embedded build info: module version for `go install` builds, VCS
// revision and time, and the Go version as the builder.
func Enrich() {
	info, ok := readBuildInfo()
	if !ok {
		return
	}

	if current.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		current.Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if current.Commit == "none" {
				current.Commit = setting.Value
			}
		case "vcs.time":
			if current.Date == "unknown" {
				current.Date = setting.Value
			}
		}
	}
	if current.BuiltBy == "unknown" {
		current.BuiltBy = info.GoVersion
	}
}
