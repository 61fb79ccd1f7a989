// Package version holds build metadata injected at link time.
package version

// Version is overridden with -ldflags "-X .../internal/version.Version=x.y.z".
var Version = "dev"
