// Package version reports build metadata for flowkit tools.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags; anything left unset falls back to the module build info:
//
//	go build -ldflags "-X github.com/kbukum/flowkit/version.Version=1.0.0" ./cmd/flowctl
package version
