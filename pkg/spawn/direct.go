package spawn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/tmaxmax/wiibuild/pkg/toolchain"
)

var execCommandContext = exec.CommandContext

// Delimiter frames the error output of failed commands.
const Delimiter = "====="

// Direct runs each command as a single child process. The output of the
// process is captured; when it exits with a non-zero code its error output is
// written to Out between two Delimiter lines.
type Direct struct {
	// Out receives the error output of failed commands. Defaults to os.Stdout.
	Out io.Writer
	// Logger is optional.
	Logger *zap.Logger
}

var _ Runner = (*Direct)(nil)

func (d *Direct) Run(ctx context.Context, argv []string, environ []string) (int, error) {
	if len(argv) == 0 {
		return -1, errors.New("spawn: empty command")
	}

	path, err := toolchain.LookPath(argv[0], environ)
	if err != nil {
		path = argv[0]
	}

	var stdout, stderr bytes.Buffer

	cmd := execCommandContext(ctx, path, argv[1:]...)
	cmd.Env = environ
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.logger().Debug("Spawning", zap.String("command", argv[0]), zap.Int("args", len(argv)-1))

	err = cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		code := exitErr.ExitCode()
		d.logger().Debug("Command failed", zap.String("command", argv[0]), zap.Int("code", code))
		fmt.Fprintf(d.out(), "%s\n%s\n%s\n", Delimiter, stderr.String(), Delimiter)
		return code, nil
	default:
		return -1, fmt.Errorf("spawn: failed to run %s: %w", argv[0], err)
	}
}

func (d *Direct) out() io.Writer {
	if d.Out == nil {
		return os.Stdout
	}
	return d.Out
}

func (d *Direct) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
