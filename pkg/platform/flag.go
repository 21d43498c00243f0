package platform

import (
	"fmt"
	"regexp"

	"github.com/tmaxmax/wiibuild/pkg/buildenv"
)

// A Flag is a feature toggle default of a platform: an optional module that
// does not work on the platform, or a dependency that should be linked from
// the system instead of being built from source.
type Flag struct {
	Name   string
	Value  bool
	Reason string
}

var flagName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateFlags checks that every flag has a unique, well-formed name.
func ValidateFlags(flags []Flag) error {
	seen := make(map[string]struct{}, len(flags))

	for _, f := range flags {
		if !flagName.MatchString(f.Name) {
			return fmt.Errorf("platform: invalid flag name %q", f.Name)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("platform: duplicate flag %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	return nil
}

// ApplyFlags declares every flag in the environment with its value, unchanged.
func ApplyFlags(env *buildenv.Environment, flags []Flag) error {
	if err := ValidateFlags(flags); err != nil {
		return err
	}

	for _, f := range flags {
		env.SetFeature(f.Name, f.Value)
	}

	return nil
}
