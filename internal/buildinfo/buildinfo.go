// Package buildinfo exposes the application version, set at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/ark/internal/buildinfo.Version=1.2.0"
package buildinfo

// Version of the running binary.
var Version = "dev"
