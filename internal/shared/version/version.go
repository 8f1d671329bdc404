// Package version reports the build version.
package version

// Version is set at build time with
// -ldflags "-X github.com/orris-inc/paygate/internal/shared/version.Version=v1.2.3".
var Version = "dev"
