package buildenv

import (
	"fmt"
	"strings"

	"github.com/docker/go-units"
)

// Target is the build configuration category. It selects which optimization
// and diagnostic flags a platform applies.
type Target int

const (
	Debug Target = iota
	ReleaseDebug
	Release

	targetDebugString        = "debug"
	targetReleaseDebugString = "release_debug"
	targetReleaseString      = "release"
)

func (t Target) String() string {
	switch t {
	case Release:
		return targetReleaseString
	case ReleaseDebug:
		return targetReleaseDebugString
	default:
		return targetDebugString
	}
}

// ParseTarget converts the textual representation of a target to its value.
func ParseTarget(input string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case targetDebugString:
		return Debug, nil
	case targetReleaseDebugString, "release-debug":
		return ReleaseDebug, nil
	case targetReleaseString:
		return Release, nil
	default:
		return Debug, fmt.Errorf("buildenv: unknown target %q", input)
	}
}

func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Target) UnmarshalText(text []byte) error {
	v, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Optimize chooses between optimizing for speed or for size in release builds.
type Optimize int

const (
	OptimizeSpeed Optimize = iota
	OptimizeSize
)

func (o Optimize) String() string {
	if o == OptimizeSize {
		return "size"
	}
	return "speed"
}

// ParseOptimize converts "speed" or "size" to its Optimize value.
func ParseOptimize(input string) (Optimize, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "speed":
		return OptimizeSpeed, nil
	case "size":
		return OptimizeSize, nil
	default:
		return OptimizeSpeed, fmt.Errorf("buildenv: unknown optimization goal %q", input)
	}
}

func (o Optimize) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Optimize) UnmarshalText(text []byte) error {
	v, err := ParseOptimize(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// DebugSymbols is the verbosity of debugging information added to release builds.
type DebugSymbols int

const (
	DebugSymbolsNo DebugSymbols = iota
	DebugSymbolsYes
	DebugSymbolsFull
)

func (d DebugSymbols) String() string {
	switch d {
	case DebugSymbolsYes:
		return "yes"
	case DebugSymbolsFull:
		return "full"
	default:
		return "no"
	}
}

// ParseDebugSymbols converts "no", "yes" or "full" to its DebugSymbols value.
func ParseDebugSymbols(input string) (DebugSymbols, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "no":
		return DebugSymbolsNo, nil
	case "yes":
		return DebugSymbolsYes, nil
	case "full":
		return DebugSymbolsFull, nil
	default:
		return DebugSymbolsNo, fmt.Errorf("buildenv: unknown debug symbols level %q", input)
	}
}

func (d DebugSymbols) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DebugSymbols) UnmarshalText(text []byte) error {
	v, err := ParseDebugSymbols(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// DefaultMaxCommandLine is the command line length above which archiver
// invocations are split on hosts that need it.
const DefaultMaxCommandLine = "32k"

// Options are the user-selected build settings a platform reads while configuring
// an environment. Platforms never modify them.
type Options struct {
	// Target is the build configuration category.
	Target Target `yaml:"target" toml:"target"`
	// Optimize selects speed or size optimizations for release targets.
	Optimize Optimize `yaml:"optimize" toml:"optimize"`
	// DebugSymbols controls debug information in release targets.
	DebugSymbols DebugSymbols `yaml:"debug_symbols" toml:"debug_symbols"`
	// UseLTO enables link-time optimization.
	UseLTO bool `yaml:"use_lto" toml:"use_lto"`
	// NumJobs is the job count handed to the LTO partitioner.
	NumJobs int `yaml:"num_jobs" toml:"num_jobs"`
	// MaxCommandLine is a human readable size (decimal units, e.g. "32k").
	MaxCommandLine string `yaml:"max_command_line" toml:"max_command_line"`
	// Features override the platform's feature flag defaults.
	Features map[string]bool `yaml:"features,omitempty" toml:"features,omitempty"`
}

// DefaultOptions returns the options used when nothing is specified.
func DefaultOptions() Options {
	return Options{
		Target:         Debug,
		Optimize:       OptimizeSpeed,
		DebugSymbols:   DebugSymbolsYes,
		NumJobs:        1,
		MaxCommandLine: DefaultMaxCommandLine,
	}
}

// CommandLineLimit returns MaxCommandLine in bytes.
func (o *Options) CommandLineLimit() (int, error) {
	limit := o.MaxCommandLine
	if limit == "" {
		limit = DefaultMaxCommandLine
	}

	n, err := units.FromHumanSize(limit)
	if err != nil {
		return 0, fmt.Errorf("buildenv: invalid command line limit %q: %w", limit, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("buildenv: command line limit %q must be positive", limit)
	}

	return int(n), nil
}

// Validate reports the first invalid setting.
func (o *Options) Validate() error {
	if o.NumJobs < 1 {
		return fmt.Errorf("buildenv: num_jobs must be at least 1, got %d", o.NumJobs)
	}
	if _, err := o.CommandLineLimit(); err != nil {
		return err
	}
	return nil
}
