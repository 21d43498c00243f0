package wii

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tmaxmax/wiibuild/pkg/pkgconfig"
)

// VersionQuerier reports the version of an installed tool.
type VersionQuerier interface {
	Version(ctx context.Context, environ []string) (string, error)
}

// Prober checks whether the devkitPro toolchain needed to build for the Wii
// is installed. Every failed check prints its own diagnostic line.
type Prober struct {
	// Getenv reads the host environment. Defaults to os.Getenv.
	Getenv func(string) string
	// Stat checks whether paths exist. Defaults to os.Stat.
	Stat func(string) (fs.FileInfo, error)
	// PkgConfig is the host's pkg-config. Defaults to pkgconfig.Client{}.
	PkgConfig VersionQuerier
	// Out receives diagnostics. Defaults to os.Stdout.
	Out io.Writer
	// Logger is optional.
	Logger *zap.Logger
}

// CanBuild reports whether all the checks pass.
func (p *Prober) CanBuild(ctx context.Context) bool {
	ok, _ := p.Check(ctx)
	return ok
}

// Check runs every check, without stopping at the first failure, and returns
// whether all of them passed along with the diagnostics of the failed ones.
func (p *Prober) Check(ctx context.Context) (bool, []string) {
	var diagnostics []string
	disabled := false

	report := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		diagnostics = append(diagnostics, msg)
		fmt.Fprintln(p.out(), msg)
	}

	devkitPro, devkitPPC := sdkPaths(p.getenv)

	if !p.exists(devkitPro) {
		report("DevkitPro not found. Wii disabled.")
		disabled = true
	} else {
		if !p.exists(devkitPPC) {
			report("%s environment variable is not set correctly.", envDevkitPPC)
			if !p.exists(filepath.Join(devkitPro, devkitPPCDir)) {
				report("DevkitPPC not found. Nintendo Wii disabled.")
				disabled = true
			}
		}

		helper := Toolchain.PkgConfig()
		if !p.exists(filepath.Join(devkitPro, "portlibs", "wii", "bin", helper)) {
			report("%s not found. Nintendo Wii disabled.", helper)
			disabled = true
		}
	}

	version, err := p.pkgConfig().Version(ctx, os.Environ())
	if err != nil {
		p.logger().Debug("Host pkg-config unusable", zap.Error(err))
		report("pkg-config not found. Nintendo Wii disabled.")
		disabled = true
	} else {
		p.logger().Debug("Found host pkg-config", zap.String("version", version))
	}

	p.logger().Debug("Toolchain check finished",
		zap.String("devkitpro", devkitPro),
		zap.String("devkitppc", devkitPPC),
		zap.Bool("usable", !disabled))

	return !disabled, diagnostics
}

func (p *Prober) exists(path string) bool {
	stat := p.Stat
	if stat == nil {
		stat = os.Stat
	}

	_, err := stat(path)
	return err == nil
}

func (p *Prober) getenv(key string) string {
	if p.Getenv == nil {
		return os.Getenv(key)
	}
	return p.Getenv(key)
}

func (p *Prober) pkgConfig() VersionQuerier {
	if p.PkgConfig == nil {
		return &pkgconfig.Client{Logger: p.Logger}
	}
	return p.PkgConfig
}

func (p *Prober) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p *Prober) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
