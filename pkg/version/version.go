// Package version holds the arbor version string, overridden at build time
// via -ldflags "-X github.com/treelab/arbor/pkg/version.Version=...".
package version

// Version is the current arbor version.
var Version = "0.3.0-dev"
