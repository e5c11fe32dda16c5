// Package build holds build-time information about the kiln binary.
package build

// Version is the kiln release this binary was built from.
// It defaults to "dev" and is set with -ldflags "-X go.trai.ch/kiln/internal/build.Version=...".
var Version = "dev"
