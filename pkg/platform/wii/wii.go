/*
Package wii configures builds for the Nintendo Wii, using the devkitPPC
toolchain and the libogc/portlibs libraries distributed by devkitPro.

Importing the package registers the platform under the name "wii".
*/
package wii

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/tmaxmax/wiibuild/pkg/buildenv"
	"github.com/tmaxmax/wiibuild/pkg/pkgconfig"
	"github.com/tmaxmax/wiibuild/pkg/platform"
	"github.com/tmaxmax/wiibuild/pkg/toolchain"
)

// Name is the name the platform is registered with.
const Name = "wii"

// Toolchain is the devkitPPC cross toolchain.
var Toolchain = toolchain.Cross{Prefix: "powerpc-eabi-"}

const (
	defaultDevkitPro  = "/opt/devkitpro"
	envDevkitPro      = "DEVKITPRO"
	envDevkitPPC      = "DEVKITPPC"
	devkitPPCDir      = "devkitPPC"
	platformSourceDir = "platform/wii"
)

func init() {
	platform.Register(Name, func() platform.Platform {
		return &Platform{}
	})
}

// PackageResolver looks up the compiler and linker flags of system libraries.
type PackageResolver interface {
	FlagsAll(ctx context.Context, environ []string, modules ...string) ([][]string, error)
}

// Platform is the Nintendo Wii build platform. The zero value is ready to use.
type Platform struct {
	// Getenv reads the host environment. Defaults to os.Getenv.
	Getenv func(string) string
	// HostOS is the operating system the build runs on. Defaults to runtime.GOOS.
	HostOS string
	// Packages resolves system library flags. Defaults to the toolchain's pkg-config wrapper.
	Packages PackageResolver
	// Prober checks the toolchain installation. Defaults to a Prober using Getenv, Out and Logger.
	Prober *Prober
	// Out receives diagnostics. Defaults to os.Stdout.
	Out io.Writer
	// Logger is optional.
	Logger *zap.Logger
}

var _ platform.Platform = (*Platform)(nil)

func (p *Platform) Info() platform.Info {
	return platform.Info{
		Name:             "Nintendo Wii",
		OSName:           "Wii",
		BinaryExtensions: []string{"elf", "dol"},
	}
}

func (p *Platform) IsActive() bool {
	return true
}

func (p *Platform) CanBuild(ctx context.Context) bool {
	return p.prober().CanBuild(ctx)
}

func (p *Platform) DefaultOptions() buildenv.Options {
	return buildenv.DefaultOptions()
}

// Create clones the environment with the MinGW tool set, which drives GCC
// cross compilers on every host.
func (p *Platform) Create(env *buildenv.Environment) *buildenv.Environment {
	return env.Clone("mingw")
}

func (p *Platform) prober() *Prober {
	if p.Prober != nil {
		return p.Prober
	}
	return &Prober{Getenv: p.Getenv, Out: p.Out, Logger: p.Logger}
}

func (p *Platform) packages() PackageResolver {
	if p.Packages != nil {
		return p.Packages
	}
	return &pkgconfig.Client{Name: Toolchain.PkgConfig(), Logger: p.logger()}
}

func (p *Platform) getenv(key string) string {
	if p.Getenv == nil {
		return os.Getenv(key)
	}
	return p.Getenv(key)
}

func (p *Platform) hostOS() string {
	if p.HostOS == "" {
		return runtime.GOOS
	}
	return p.HostOS
}

func (p *Platform) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// sdkPaths returns the devkitPro root and the devkitPPC compiler suite directory.
func sdkPaths(getenv func(string) string) (devkitPro, devkitPPC string) {
	devkitPro = getenv(envDevkitPro)
	if devkitPro == "" {
		devkitPro = defaultDevkitPro
	}

	devkitPPC = getenv(envDevkitPPC)
	if devkitPPC == "" {
		devkitPPC = filepath.Join(devkitPro, devkitPPCDir)
	}

	return devkitPro, devkitPPC
}
