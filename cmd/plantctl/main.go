// Package main is plantctl, the command line companion of the catalog
// server: it exports filtered selections, lists filter options, manages
// database accounts and creates TLS certificates.
package main

import (
	"cmp"
	"fmt"
	"os"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	root := newRootCmd()
	root.Version = fmt.Sprintf("%s (built: %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
