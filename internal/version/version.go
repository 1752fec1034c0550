// Package version holds the build version, overridable at link time.
package version

// Version is the release version of gridhub.
var Version = "1.0.0"
