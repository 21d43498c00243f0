/*
Package pkgconfig queries pkg-config, or a target-specific wrapper of it, for
the compiler and linker flags of installed libraries.
*/
package pkgconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tmaxmax/wiibuild/pkg/toolchain"
)

var execCommandContext = exec.CommandContext

// DefaultName is the name of the host's pkg-config executable.
const DefaultName = "pkg-config"

// Client runs a pkg-config executable.
type Client struct {
	// Name is the executable, looked up in the PATH of the environment each
	// query is given. Defaults to DefaultName.
	Name string
	// Logger is optional.
	Logger *zap.Logger
}

// Flags returns the compiler and linker flags of module, as reported by
// "pkg-config <module> --cflags --libs".
func (c *Client) Flags(ctx context.Context, environ []string, module string) ([]string, error) {
	out, err := c.output(ctx, environ, module, "--cflags", "--libs")
	if err != nil {
		return nil, fmt.Errorf("pkgconfig: failed to query %q: %w", module, err)
	}

	flags, err := shellwords.Parse(strings.TrimSpace(out))
	if err != nil {
		return nil, fmt.Errorf("pkgconfig: malformed flags for %q: %w", module, err)
	}

	c.logger().Debug("Resolved package flags", zap.String("module", module), zap.Strings("flags", flags))

	return flags, nil
}

// FlagsAll queries the flags of several modules concurrently. The result holds
// the flags of each module at the module's index.
func (c *Client) FlagsAll(ctx context.Context, environ []string, modules ...string) ([][]string, error) {
	results := make([][]string, len(modules))
	g, gctx := errgroup.WithContext(ctx)

	for i := range modules {
		i := i

		g.Go(func() error {
			flags, err := c.Flags(gctx, environ, modules[i])
			if err != nil {
				return err
			}

			results[i] = flags
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Version returns the version reported by "pkg-config --version".
func (c *Client) Version(ctx context.Context, environ []string) (string, error) {
	out, err := c.output(ctx, environ, "--version")
	if err != nil {
		return "", fmt.Errorf("pkgconfig: failed to get version: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) output(ctx context.Context, environ []string, args ...string) (string, error) {
	name := c.name()

	path, err := toolchain.LookPath(name, environ)
	if err != nil {
		return "", err
	}

	var stderr bytes.Buffer

	cmd := execCommandContext(ctx, path, args...)
	cmd.Env = environ
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return "", fmt.Errorf("%s: %w: %s", name, err, msg)
			}
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}

	return string(out), nil
}

func (c *Client) name() string {
	if c.Name == "" {
		return DefaultName
	}
	return c.Name
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
