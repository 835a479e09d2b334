// Package version reports build information for healthd.
//
// Version, commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/healthkit/version.Version=1.0.0"
//
// Missing values are filled from the module's embedded VCS settings.
package version
