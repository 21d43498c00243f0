package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

var execCommandContext = exec.CommandContext

// CompilerInfo holds some information about the toolchain's compiler.
type CompilerInfo struct {
	// Name of the compiler.
	Name string
	// Path of the compiler's executable.
	Path string
	// Version number of the compiler.
	Version string
}

// Compiler looks up the toolchain's C compiler using the PATH from environ
// and asks it for its version.
func (c Cross) Compiler(ctx context.Context, environ []string) (CompilerInfo, error) {
	name := c.CC()

	path, err := LookPath(name, environ)
	if err != nil {
		return CompilerInfo{}, fmt.Errorf("toolchain: failed to find compiler %q: %w", name, err)
	}

	cmd := execCommandContext(ctx, path, "-dumpversion")
	cmd.Env = environ

	version, err := cmd.Output()
	if err != nil {
		return CompilerInfo{}, fmt.Errorf("toolchain: failed to query compiler %q: %w", name, err)
	}

	return CompilerInfo{
		Name:    name,
		Path:    path,
		Version: string(bytes.TrimSpace(version)),
	}, nil
}
