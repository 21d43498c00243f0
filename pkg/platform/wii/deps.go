package wii

import (
	"context"

	"go.uber.org/zap"

	"github.com/tmaxmax/wiibuild/pkg/buildenv"
)

// freetype depends on libpng and zlib: bundling one of them while linking the
// others from the system mixes two copies of the same library.
var coupledDependencies = []string{"builtin_freetype", "builtin_libpng", "builtin_zlib"}

// systemPackages maps builtin toggles to the pkg-config module used when the
// dependency comes from portlibs. zlib is pulled in by freetype2 and libpng.
var systemPackages = []struct {
	toggle string
	module string
}{
	{"builtin_freetype", "freetype2"},
	{"builtin_libpng", "libpng"},
	{"builtin_zstd", "libzstd"},
}

func coupleDependencies(env *buildenv.Environment) (bool, error) {
	bundled := false
	for _, name := range coupledDependencies {
		v, err := env.Feature(name)
		if err != nil {
			return false, err
		}
		bundled = bundled || v
	}

	if bundled {
		for _, name := range coupledDependencies {
			env.SetFeature(name, true)
		}
	}

	return bundled, nil
}

func (p *Platform) configureDependencies(ctx context.Context, env *buildenv.Environment) error {
	bundled, err := coupleDependencies(env)
	if err != nil {
		return err
	}
	if bundled {
		p.logger().Debug("Bundling freetype, libpng and zlib together")
	}

	var modules []string
	for _, pkg := range systemPackages {
		builtin, err := env.Feature(pkg.toggle)
		if err != nil {
			return err
		}
		if !builtin {
			modules = append(modules, pkg.module)
		}
	}

	if len(modules) == 0 {
		return nil
	}

	results, err := p.packages().FlagsAll(ctx, env.Environ(), modules...)
	if err != nil {
		return err
	}

	for i, flags := range results {
		p.logger().Debug("Using system library", zap.String("module", modules[i]))
		env.MergeFlags(flags)
	}

	return nil
}
