package app

import (
	"fmt"
	"io"
	"runtime"
)

// Build metadata, overridden at link time with
// -ldflags "-X github.com/agbru/cpuutil/internal/app.Version=v1.2.3".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args request version information. It is
// checked before flag parsing so that --version works alongside otherwise
// invalid flags.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--version", "-version", "-V":
			return true
		case "--":
			return false
		}
	}
	return false
}

// PrintVersion writes the program name, version and build metadata to out.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "cpuutil %s\n", Version)
	fmt.Fprintf(out, "  commit: %s\n", Commit)
	fmt.Fprintf(out, "  built:  %s\n", BuildDate)
	fmt.Fprintf(out, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
