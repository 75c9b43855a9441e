// Package version holds build metadata for the dollar CLI.
// The variables can be overridden at build time via -ldflags, e.g.
//
//	-X dollar/internal/version.GitCommit=$(git rev-parse HEAD)
package version

import (
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Info is the resolved build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Get returns the build metadata. A missing commit falls back to the VCS
// revision recorded by the Go toolchain, when there is one.
func Get() Info {
	info := Info{
		Version:   strings.TrimSpace(Version),
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.GitCommit == "" || info.BuildDate == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch {
				case s.Key == "vcs.revision" && info.GitCommit == "":
					info.GitCommit = s.Value
				case s.Key == "vcs.time" && info.BuildDate == "":
					info.BuildDate = s.Value
				}
			}
		}
	}
	return info
}

// Colored renders v with major, minor and patch in distinct colors. A
// pre-release or build suffix is kept uncolored. Versions that are not
// dotted triples are returned unchanged.
func Colored(v string, enabled bool) string {
	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	paint := func(c *color.Color, s string) string {
		if !enabled {
			return s
		}
		cc := *c
		cc.EnableColor()
		return cc.Sprint(s)
	}
	return paint(majorColor, parts[0]) + "." + paint(minorColor, parts[1]) + "." + paint(patchColor, parts[2]) + suffix
}
