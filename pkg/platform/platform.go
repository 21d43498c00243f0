/*
Package platform defines the interface of build target platforms and keeps a
registry of the available ones. Platform implementations register themselves
when their package is imported, for example:

	import _ "github.com/tmaxmax/wiibuild/pkg/platform/wii"
*/
package platform

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/tmaxmax/wiibuild/pkg/buildenv"
)

// A Platform configures build environments for one target.
type Platform interface {
	// Info returns some information about the platform.
	Info() Info
	// IsActive reports whether the platform should be offered at all.
	IsActive() bool
	// CanBuild checks whether the platform's toolchain is installed. It never fails:
	// the reasons the toolchain is unusable are reported as diagnostics.
	CanBuild(ctx context.Context) bool
	// Flags returns the platform's feature flag defaults, in declaration order.
	Flags() []Flag
	// DefaultOptions returns the options the platform builds with unless told otherwise.
	DefaultOptions() buildenv.Options
	// Create derives the environment the platform is configured in from a base environment.
	Create(env *buildenv.Environment) *buildenv.Environment
	// Configure mutates the environment with the platform's compiler settings.
	Configure(ctx context.Context, env *buildenv.Environment) error
}

// Info holds some information about a platform.
type Info struct {
	// Name of the platform, for humans.
	Name string
	// OSName is the name of the target operating system.
	OSName string
	// BinaryExtensions lists the extensions of the executables built for the platform.
	BinaryExtensions []string
}

// Constructor creates a Platform instance.
type Constructor func() Platform

var (
	platforms      = map[string]Constructor{}
	platformsMutex sync.RWMutex
)

// Register adds a Platform implementation for usage.
// If an implementation with the same name already exists or the provided
// constructor is nil, this function panics. If the name has path separators,
// path list separators or spaces, this function panics.
func Register(name string, constructor Constructor) {
	platformsMutex.Lock()
	defer platformsMutex.Unlock()

	if !isValidName(name) {
		panic(fmt.Sprintf("platform: name %q has invalid characters", name))
	}

	if platforms[name] != nil {
		panic(fmt.Sprintf("platform: %q is already registered", name))
	}

	if constructor == nil {
		panic(fmt.Sprintf("platform: constructor provided for %q is nil", name))
	}

	platforms[name] = constructor
}

// New creates the platform registered with the given name.
func New(name string) (Platform, error) {
	platformsMutex.RLock()
	constructor := platforms[name]
	platformsMutex.RUnlock()

	if constructor == nil {
		return nil, fmt.Errorf("platform: missing platform %q, forgotten import?", name)
	}

	return constructor(), nil
}

// Names returns the names of all registered platforms, sorted.
func Names() []string {
	platformsMutex.RLock()
	defer platformsMutex.RUnlock()

	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func isValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, string([]rune{os.PathSeparator, os.PathListSeparator, ' '}))
}

// Prepare creates an environment for p from base, or from a new environment if
// base is nil. It declares the platform's feature flags, applies opts and its
// feature overrides, and configures the result. base is not modified.
func Prepare(ctx context.Context, p Platform, base *buildenv.Environment, opts buildenv.Options) (*buildenv.Environment, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if base == nil {
		base = buildenv.New()
	}
	env := p.Create(base)

	if err := ApplyFlags(env, p.Flags()); err != nil {
		return nil, err
	}

	env.Options = opts
	for name, value := range opts.Features {
		env.SetFeature(name, value)
	}

	if err := p.Configure(ctx, env); err != nil {
		return nil, fmt.Errorf("platform: failed to configure %s: %w", p.Info().Name, err)
	}

	return env, nil
}
