/*
Package spawn runs the external processes of a build: compilers, linkers and
archivers. A Runner receives the full argument vector and the environment of
the child process explicitly, so configuration never leaks through the
environment of the host process.

Two runners are provided. Direct runs one child process per call. Chunked
wraps another runner and splits oversized archiver invocations into one call
per archive member, for hosts whose command line length is limited.
*/
package spawn

import (
	"context"
	"path/filepath"
	"strings"
)

// A Runner runs a command to completion.
type Runner interface {
	// Run executes argv[0] with the arguments argv[1:] and the environment environ,
	// waiting for it to finish. It returns the exit code of the process.
	// A non-nil error means that the process could not be run at all.
	Run(ctx context.Context, argv []string, environ []string) (int, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, argv []string, environ []string) (int, error)

func (f RunnerFunc) Run(ctx context.Context, argv []string, environ []string) (int, error) {
	return f(ctx, argv, environ)
}

// CommandLine joins the argument vector into a single command line.
func CommandLine(argv []string) string {
	return strings.Join(argv, " ")
}

// IsArchiver reports whether argv invokes an ar-style archiver, for example
// ar, gcc-ar or powerpc-eabi-ar.exe.
func IsArchiver(argv []string) bool {
	if len(argv) == 0 {
		return false
	}

	name := filepath.Base(argv[0])
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".exe") {
		name = name[:len(name)-len(ext)]
	}

	return strings.HasSuffix(name, "ar")
}

// ForHost returns the runner to use on the given host operating system.
// Windows hosts get a Chunked runner splitting archiver calls longer than limit;
// every other host uses inner as is.
func ForHost(goos string, inner Runner, limit int) Runner {
	if goos != "windows" {
		return inner
	}
	return &Chunked{Runner: inner, MaxCommandLine: limit}
}
