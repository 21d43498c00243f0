package wii_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmaxmax/wiibuild/pkg/platform/wii"
)

type fakeVersion struct {
	version string
	err     error
}

func (f fakeVersion) Version(context.Context, []string) (string, error) {
	return f.version, f.err
}

type sdkLayout struct {
	devkitPPC bool
	pkgConfig bool
}

// newSDK lays out a devkitPro installation in a temporary directory.
func newSDK(t *testing.T, layout sdkLayout) string {
	t.Helper()

	root := t.TempDir()
	if layout.devkitPPC {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "devkitPPC", "bin"), 0o755))
	}
	if layout.pkgConfig {
		bin := filepath.Join(root, "portlibs", "wii", "bin")
		require.NoError(t, os.MkdirAll(bin, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(bin, "powerpc-eabi-pkg-config"), []byte("#!/bin/sh\n"), 0o755))
	}
	return root
}

func getenv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestProber_Check(t *testing.T) {
	working := fakeVersion{version: "0.29.2"}
	broken := fakeVersion{err: errors.New("exec: \"pkg-config\": executable file not found in $PATH")}

	type test struct {
		name        string
		layout      *sdkLayout // nil: DEVKITPRO points to a missing directory
		devkitPPC   string
		pkgConfig   fakeVersion
		expectOK    bool
		expectDiags []string
	}

	tests := []test{
		{
			name:      "Installed",
			layout:    &sdkLayout{devkitPPC: true, pkgConfig: true},
			pkgConfig: working,
			expectOK:  true,
		},
		{
			name:        "MissingRoot",
			pkgConfig:   working,
			expectDiags: []string{"DevkitPro not found. Wii disabled."},
		},
		{
			name:      "MissingRootAndPkgConfig",
			pkgConfig: broken,
			expectDiags: []string{
				"DevkitPro not found. Wii disabled.",
				"pkg-config not found. Nintendo Wii disabled.",
			},
		},
		{
			name:        "WrongDevkitPPCVariable",
			layout:      &sdkLayout{devkitPPC: true, pkgConfig: true},
			devkitPPC:   "/nonexistent/devkitPPC",
			pkgConfig:   working,
			expectOK:    true,
			expectDiags: []string{"DEVKITPPC environment variable is not set correctly."},
		},
		{
			name:      "MissingDevkitPPC",
			layout:    &sdkLayout{pkgConfig: true},
			devkitPPC: "/nonexistent/devkitPPC",
			pkgConfig: working,
			expectDiags: []string{
				"DEVKITPPC environment variable is not set correctly.",
				"DevkitPPC not found. Nintendo Wii disabled.",
			},
		},
		{
			name:      "EverythingMissing",
			layout:    &sdkLayout{},
			pkgConfig: broken,
			expectDiags: []string{
				"DEVKITPPC environment variable is not set correctly.",
				"DevkitPPC not found. Nintendo Wii disabled.",
				"powerpc-eabi-pkg-config not found. Nintendo Wii disabled.",
				"pkg-config not found. Nintendo Wii disabled.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), "missing")
			if tt.layout != nil {
				root = newSDK(t, *tt.layout)
			}

			var out bytes.Buffer
			p := &wii.Prober{
				Getenv:    getenv(map[string]string{"DEVKITPRO": root, "DEVKITPPC": tt.devkitPPC}),
				PkgConfig: tt.pkgConfig,
				Out:       &out,
			}

			ok, diags := p.Check(context.Background())
			require.Equal(t, tt.expectOK, ok)
			require.Equal(t, tt.expectDiags, diags)

			var printed []string
			if s := strings.TrimSpace(out.String()); s != "" {
				printed = strings.Split(s, "\n")
			}
			require.Equal(t, tt.expectDiags, printed)

			require.Equal(t, tt.expectOK, p.CanBuild(context.Background()))
		})
	}
}

func TestProber_DefaultRoot(t *testing.T) {
	var checked []string
	p := &wii.Prober{
		Getenv: getenv(nil),
		Stat: func(path string) (os.FileInfo, error) {
			checked = append(checked, path)
			return nil, os.ErrNotExist
		},
		PkgConfig: fakeVersion{version: "1.8.1"},
		Out:       &bytes.Buffer{},
	}

	require.False(t, p.CanBuild(context.Background()))
	require.Equal(t, []string{"/opt/devkitpro"}, checked)
}

func TestPlatform_CanBuild(t *testing.T) {
	root := newSDK(t, sdkLayout{devkitPPC: true, pkgConfig: true})

	p := &wii.Platform{Prober: &wii.Prober{
		Getenv:    getenv(map[string]string{"DEVKITPRO": root}),
		PkgConfig: fakeVersion{version: "0.29.2"},
		Out:       &bytes.Buffer{},
	}}

	require.True(t, p.CanBuild(context.Background()))
	require.True(t, p.IsActive())
	require.Equal(t, "Nintendo Wii", p.Info().Name)
	require.Equal(t, []string{"elf", "dol"}, p.Info().BinaryExtensions)
}
