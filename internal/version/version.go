// Package version exposes the build version, overridable at link time with
// -ldflags "-X github.com/seabeam/echofetch/internal/version.Version=v1.2.3".
package version

var Version = "0.1.0-dev"
