package wii

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tmaxmax/wiibuild/pkg/buildenv"
	"github.com/tmaxmax/wiibuild/pkg/spawn"
)

var (
	archFlags = []string{"-mrvl", "-mcpu=750", "-meabi", "-mhard-float"}

	codegenFlags = []string{"-fdata-sections", "-fno-rtti", "-fno-exceptions"}

	platformDefines = []string{
		"HOMEBREW_ENABLED",
		"WII_ENABLED",
		"GEKKO",
		"NO_THREADS",
		"NO_SAFE_CAST",
	}

	// Link order matters: libogc's dependents come before it.
	platformLibs = []string{"wiiuse", "bte", "fat", "ogc", "m", "ogg", "vorbis", "theora"}
)

// Configure sets up env for building for the Wii. Reading a feature toggle the
// environment does not declare is an error, as is a failing pkg-config query.
func (p *Platform) Configure(ctx context.Context, env *buildenv.Environment) error {
	log := p.logger()

	if p.hostOS() == "windows" {
		limit, err := env.Options.CommandLineLimit()
		if err != nil {
			return err
		}
		if env.Runner == nil {
			env.Runner = &spawn.Direct{Out: p.Out, Logger: p.Logger}
		}
		env.Runner = spawn.ForHost(p.hostOS(), env.Runner, limit)
		log.Debug("Installed chunking runner", zap.Int("limit", limit))
	}

	env.CC = Toolchain.CC()
	env.CXX = Toolchain.CXX()
	env.LD = Toolchain.LD()

	devkitPro, devkitPPC := sdkPaths(p.getenv)

	env.Setenv(envDevkitPro, devkitPro)
	env.Setenv("PATH", joinPathList(
		filepath.Join(devkitPro, "portlibs", "wii", "bin"),
		filepath.Join(devkitPPC, "bin"),
		p.getenv("PATH"),
	))

	env.CCFlags.Prepend("-ffunction-sections")
	env.CCFlags.Prepend(codegenFlags...)
	env.CCFlags.Prepend(archFlags...)
	env.CPPPath.Prepend(filepath.Join(devkitPPC, "powerpc-eabi", "include"))
	env.CPPFlags.Prepend("-isystem", filepath.Join(devkitPro, "libogc", "include"))
	env.LibPath.Prepend(
		filepath.Join(devkitPro, "portlibs", "ppc", "lib"),
		filepath.Join(devkitPro, "portlibs", "wii", "lib"),
		filepath.Join(devkitPro, "libogc", "lib", "wii"),
	)
	env.LinkFlags.Prepend("-T", filepath.Join(env.Top, platformSourceDir, "pck_embed.ld"), "-Wl,--gc-sections")
	env.LinkFlags.Prepend(archFlags...)

	configureTarget(env)

	env.Bits = "32"

	lto := env.Options.UseLTO
	if lto {
		env.CCFlags.Append("-flto")
		env.LinkFlags.Append("-flto=" + strconv.Itoa(env.Options.NumJobs))
	}
	env.AR = Toolchain.AR(lto)
	env.RANLIB = Toolchain.Ranlib(lto)

	if err := p.configureDependencies(ctx, env); err != nil {
		return err
	}

	mbedtls, err := env.Feature("module_mbedtls_enabled")
	if err != nil {
		return err
	}
	if mbedtls {
		env.CPPDefines.Append("MBEDTLS_NO_PLATFORM_ENTROPY")
	}

	env.CPPPath.Prepend(filepath.Join(env.Top, platformSourceDir))
	env.CPPDefines.Prepend(platformDefines...)
	env.Libs.Append(platformLibs...)

	log.Debug("Configured environment",
		zap.Stringer("target", env.Options.Target),
		zap.Stringer("optimize", env.Options.Optimize),
		zap.Stringer("debug_symbols", env.Options.DebugSymbols),
		zap.Bool("lto", lto))

	return nil
}

func configureTarget(env *buildenv.Environment) {
	opts := &env.Options

	switch opts.Target {
	case buildenv.Release:
		// -O3 -ffast-math is identical to -Ofast. It is split so -ffast-math can
		// be disabled selectively for code it miscompiles.
		if opts.Optimize == buildenv.OptimizeSpeed {
			env.CCFlags.Prepend("-O3", "-ffast-math")
		} else {
			env.CCFlags.Prepend("-Os")
		}
		prependDebugSymbols(env)
	case buildenv.ReleaseDebug:
		env.CPPDefines.Append("DEBUG_ENABLED")
		if opts.Optimize == buildenv.OptimizeSpeed {
			env.CCFlags.Prepend("-O2", "-ffast-math")
		} else {
			env.CCFlags.Prepend("-Os")
		}
		prependDebugSymbols(env)
	case buildenv.Debug:
		env.CPPDefines.Append("DEBUG_ENABLED", "DEBUG_MEMORY_ENABLED")
		env.CCFlags.Prepend("-g3")
	}
}

func prependDebugSymbols(env *buildenv.Environment) {
	switch env.Options.DebugSymbols {
	case buildenv.DebugSymbolsYes:
		env.CCFlags.Prepend("-g1")
	case buildenv.DebugSymbolsFull:
		env.CCFlags.Prepend("-g2")
	}
}

func joinPathList(dirs ...string) string {
	nonEmpty := dirs[:0:0]
	for _, d := range dirs {
		if d != "" {
			nonEmpty = append(nonEmpty, d)
		}
	}
	return strings.Join(nonEmpty, string(filepath.ListSeparator))
}
