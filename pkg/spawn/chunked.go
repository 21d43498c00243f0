package spawn

import (
	"context"

	"github.com/docker/go-units"
	"go.uber.org/zap"
)

// DefaultMaxCommandLine is the length above which Chunked splits archiver calls
// when MaxCommandLine is not set.
const DefaultMaxCommandLine = 32000

// archiverPrefix is the number of leading arguments repeated in every split
// archiver call: the archiver, its mode flags and the archive.
const archiverPrefix = 3

// Chunked wraps a Runner to work around host command line length limits.
// Commands whose command line is longer than MaxCommandLine and which satisfy
// Match are run as several calls, each adding a single member to the archive.
// The calls run sequentially and stop at the first failure.
type Chunked struct {
	// Runner runs the actual child processes.
	Runner Runner
	// MaxCommandLine is the longest command line run unsplit.
	// Defaults to DefaultMaxCommandLine.
	MaxCommandLine int
	// Match selects the commands that may be split. Defaults to IsArchiver.
	Match func(argv []string) bool
	// Logger is optional.
	Logger *zap.Logger
}

var _ Runner = (*Chunked)(nil)

func (c *Chunked) Run(ctx context.Context, argv []string, environ []string) (int, error) {
	if !c.shouldSplit(argv) {
		return c.Runner.Run(ctx, argv, environ)
	}

	prefix := argv[:archiverPrefix:archiverPrefix]
	members := argv[archiverPrefix:]

	c.logger().Debug("Splitting archiver command",
		zap.String("command", argv[0]),
		zap.String("length", units.HumanSize(float64(len(CommandLine(argv))))),
		zap.Int("calls", len(members)))

	for _, member := range members {
		code, err := c.Runner.Run(ctx, append(prefix, member), environ)
		if err != nil || code != 0 {
			return code, err
		}
	}

	return 0, nil
}

func (c *Chunked) shouldSplit(argv []string) bool {
	if len(argv) <= archiverPrefix {
		return false
	}
	if len(CommandLine(argv)) <= c.limit() {
		return false
	}

	match := c.Match
	if match == nil {
		match = IsArchiver
	}
	return match(argv)
}

func (c *Chunked) limit() int {
	if c.MaxCommandLine <= 0 {
		return DefaultMaxCommandLine
	}
	return c.MaxCommandLine
}

func (c *Chunked) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
