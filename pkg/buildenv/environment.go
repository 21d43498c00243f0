/*
Package buildenv holds the build environment record that platform profiles
configure and compilation steps consume: tool names, flag lists, search paths,
the environment handed to child processes and the process runner used to spawn them.
*/
package buildenv

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tmaxmax/wiibuild/pkg/spawn"
)

// ErrUndeclaredFeature is returned when a feature toggle is read before being declared.
var ErrUndeclaredFeature = errors.New("undeclared feature toggle")

// Environment is the mutable record of compiler settings shared by every
// configuration step of a build. It is created by the driving build tool,
// configured in place by a platform and consumed by the compilation step.
type Environment struct {
	CC     string `yaml:"cc" toml:"cc"`
	CXX    string `yaml:"cxx" toml:"cxx"`
	LD     string `yaml:"ld" toml:"ld"`
	AR     string `yaml:"ar" toml:"ar"`
	RANLIB string `yaml:"ranlib" toml:"ranlib"`

	CPPPath    List `yaml:"cpppath" toml:"cpppath"`
	CPPFlags   List `yaml:"cppflags" toml:"cppflags"`
	CPPDefines List `yaml:"cppdefines" toml:"cppdefines"`
	CCFlags    List `yaml:"ccflags" toml:"ccflags"`
	LinkFlags  List `yaml:"linkflags" toml:"linkflags"`
	LibPath    List `yaml:"libpath" toml:"libpath"`
	Libs       List `yaml:"libs" toml:"libs"`

	// Bits is the target word size.
	Bits string `yaml:"bits" toml:"bits"`
	// Tools names the tool set the environment was created with.
	Tools []string `yaml:"tools" toml:"tools"`
	// Top is the source tree root; paths relative to the tree are joined to it.
	Top string `yaml:"top" toml:"top"`

	// Vars is the environment passed to every spawned child process.
	// The host process environment is never modified.
	Vars map[string]string `yaml:"vars" toml:"vars"`

	Options  Options         `yaml:"options" toml:"options"`
	Features map[string]bool `yaml:"features" toml:"features"`

	// Runner spawns the compiler, linker and archiver processes.
	Runner spawn.Runner `yaml:"-" toml:"-"`
}

// New creates an empty environment with default options which runs
// child processes directly.
func New() *Environment {
	return &Environment{
		Vars:     map[string]string{},
		Options:  DefaultOptions(),
		Features: map[string]bool{},
		Runner:   &spawn.Direct{},
	}
}

// Clone returns a deep copy of the environment, created with the given tool set.
// If no tools are given, the tool set of the original is kept.
func (e *Environment) Clone(tools ...string) *Environment {
	c := *e

	c.CPPPath = e.CPPPath.Clone()
	c.CPPFlags = e.CPPFlags.Clone()
	c.CPPDefines = e.CPPDefines.Clone()
	c.CCFlags = e.CCFlags.Clone()
	c.LinkFlags = e.LinkFlags.Clone()
	c.LibPath = e.LibPath.Clone()
	c.Libs = e.Libs.Clone()

	if len(tools) > 0 {
		c.Tools = append([]string(nil), tools...)
	} else {
		c.Tools = append([]string(nil), e.Tools...)
	}

	c.Vars = make(map[string]string, len(e.Vars))
	for k, v := range e.Vars {
		c.Vars[k] = v
	}

	c.Features = make(map[string]bool, len(e.Features))
	for k, v := range e.Features {
		c.Features[k] = v
	}

	if e.Options.Features != nil {
		c.Options.Features = make(map[string]bool, len(e.Options.Features))
		for k, v := range e.Options.Features {
			c.Options.Features[k] = v
		}
	}

	return &c
}

// Declared reports whether a feature toggle with the given name exists.
func (e *Environment) Declared(name string) bool {
	_, ok := e.Features[name]
	return ok
}

// Feature returns the value of a declared feature toggle. Reading a toggle that
// was never declared is an error wrapping ErrUndeclaredFeature.
func (e *Environment) Feature(name string) (bool, error) {
	v, ok := e.Features[name]
	if !ok {
		return false, fmt.Errorf("buildenv: %w %q", ErrUndeclaredFeature, name)
	}
	return v, nil
}

// SetFeature declares the toggle, if needed, and sets its value.
func (e *Environment) SetFeature(name string, value bool) {
	if e.Features == nil {
		e.Features = map[string]bool{}
	}
	e.Features[name] = value
}

// Getenv returns the value of a child process environment variable.
func (e *Environment) Getenv(key string) string {
	return e.Vars[key]
}

// Setenv sets a child process environment variable.
func (e *Environment) Setenv(key, value string) {
	if e.Vars == nil {
		e.Vars = map[string]string{}
	}
	e.Vars[key] = value
}

// Environ returns the child process environment as sorted "key=value" pairs,
// ready to be used as exec.Cmd.Env.
func (e *Environment) Environ() []string {
	keys := make([]string, 0, len(e.Vars))
	for k := range e.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.Vars[k])
	}
	return out
}
