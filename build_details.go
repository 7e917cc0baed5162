package apish

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags at release time:
//
//	-X github.com/erraggy/apish.version=v1.2.3
//	-X github.com/erraggy/apish.commit=abc1234
//	-X github.com/erraggy/apish.buildTime=2026-01-02T15:04:05Z
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Version returns the compiled version or "dev" when run from source.
func Version() string {
	return version
}

// Commit returns the git commit the binary was built from. Without ldflags
// it falls back to the VCS revision recorded by the Go toolchain, then to
// "unknown".
func Commit() string {
	if commit != "unknown" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return commit
}

// BuildTime returns the RFC3339 build timestamp or "unknown".
func BuildTime() string {
	return buildTime
}

// GoVersion returns the Go runtime version.
func GoVersion() string {
	return runtime.Version()
}

// UserAgent returns the User-Agent used for outbound requests.
func UserAgent() string {
	return fmt.Sprintf("apish/%s", version)
}

// BuildInfo returns the multi-line summary printed by "apish version".
func BuildInfo() string {
	return fmt.Sprintf("apish %s\n  Version:    %s\n  Commit:     %s\n  Build Time: %s\n  Go Version: %s\n",
		Version(), Version(), Commit(), BuildTime(), GoVersion())
}
