// Package settings holds build metadata and the options of a single run.
package settings

import "context"

// BinaryName is the command name.
const BinaryName = "pullrefresh"

// VersionInformation is set at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-dev",
	BuildTime:    "unknown",
}

// VersionInfo describes the running binary.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the options of one invocation.
type Run struct {
	MinLogLevel int8
	LogFile     string
	ConfigPath  string
	NoColor     bool
}

// NewRun returns run options with info-level logging and no log file.
func NewRun() *Run {
	return &Run{}
}

type contextKey struct{}

// IntoContext stores r in ctx.
func IntoContext(ctx context.Context, r *Run) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext returns the run options stored in ctx.
func FromContext(ctx context.Context) (*Run, bool) {
	r, ok := ctx.Value(contextKey{}).(*Run)
	return r, ok
}
