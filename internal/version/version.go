// Package version holds the build version string.
package version

// Version is the current Promptgate release.
var Version = "0.1.0"
