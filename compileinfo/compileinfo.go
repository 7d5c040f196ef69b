// Package compileinfo reports the VCS state a binary was built from, so that
// an output table can be traced back to the code that produced it.
package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Package == "" {
		return "No build information is embedded in this binary."
	}

	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	commit := c.Commit
	if commit == "" {
		commit = "unknown"
	}

	return fmt.Sprintf("This %s %s binary was built with %s at commit %s (%s).%s", c.Package, c.Version, c.GoVersion, commit, c.CommitTime, mod)
}

// FromBuildInfo extracts the fields of interest from bi.
func FromBuildInfo(bi *debug.BuildInfo) CompileInfo {
	out := CompileInfo{}
	if bi == nil {
		return out
	}

	out.GoVersion = bi.GoVersion
	out.Package = bi.Path
	out.Version = bi.Main.Version
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

func Get() CompileInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return FromBuildInfo(bi)
}

func PrintToStdErr() {
	fmt.Fprintf(os.Stderr, "%s\n", Get())
}
