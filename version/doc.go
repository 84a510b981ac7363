// Package version exposes build metadata for the client and CLI.
//
// Values are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/transcribe/version.Version=1.4.0 \
//	    -X github.com/kbukum/transcribe/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Unset values fall back to the module build info embedded by the Go
// toolchain.
package version
