package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

var ppc = Cross{Prefix: "powerpc-eabi-"}

func TestCross_Tools(t *testing.T) {
	require.Equal(t, "powerpc-eabi-gcc", ppc.CC())
	require.Equal(t, "powerpc-eabi-g++", ppc.CXX())
	require.Equal(t, "powerpc-eabi-ld", ppc.LD())
	require.Equal(t, "powerpc-eabi-ar", ppc.AR(false))
	require.Equal(t, "powerpc-eabi-gcc-ar", ppc.AR(true))
	require.Equal(t, "powerpc-eabi-ranlib", ppc.Ranlib(false))
	require.Equal(t, "powerpc-eabi-gcc-ranlib", ppc.Ranlib(true))
	require.Equal(t, "powerpc-eabi-pkg-config", ppc.PkgConfig())
}

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func TestLookPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	gcc := writeExecutable(t, second, "powerpc-eabi-gcc")
	shadowed := writeExecutable(t, first, "powerpc-eabi-ld")
	writeExecutable(t, second, "powerpc-eabi-ld")
	require.NoError(t, os.Mkdir(filepath.Join(first, "powerpc-eabi-ar"), 0o755))

	environ := []string{
		"PATH=/nonexistent",
		"PATH=" + first + string(filepath.ListSeparator) + second,
	}

	t.Run("SecondDir", func(t *testing.T) {
		p, err := LookPath("powerpc-eabi-gcc", environ)
		require.NoError(t, err)
		require.Equal(t, gcc, p)
	})

	t.Run("FirstWins", func(t *testing.T) {
		p, err := LookPath("powerpc-eabi-ld", environ)
		require.NoError(t, err)
		require.Equal(t, shadowed, p)
	})

	t.Run("DirectoryIgnored", func(t *testing.T) {
		_, err := LookPath("powerpc-eabi-ar", environ)
		require.ErrorIs(t, err, exec.ErrNotFound)
	})

	t.Run("ExplicitPath", func(t *testing.T) {
		p, err := LookPath(gcc, nil)
		require.NoError(t, err)
		require.Equal(t, gcc, p)
	})

	t.Run("NotExecutable", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("no executable bit on windows")
		}

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "powerpc-eabi-nm"), nil, 0o644))

		_, err := LookPath("powerpc-eabi-nm", []string{"PATH=" + dir})
		require.Error(t, err)
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	fmt.Println("13.2.0")
	os.Exit(0)
}

func TestCross_Compiler(t *testing.T) {
	dir := t.TempDir()
	gcc := writeExecutable(t, dir, "powerpc-eabi-gcc")

	orig := execCommandContext
	execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		return exec.CommandContext(ctx, os.Args[0], cs...)
	}
	t.Cleanup(func() { execCommandContext = orig })

	info, err := ppc.Compiler(context.Background(), []string{"GO_WANT_HELPER_PROCESS=1", "PATH=" + dir})
	require.NoError(t, err)
	require.Equal(t, CompilerInfo{Name: "powerpc-eabi-gcc", Path: gcc, Version: "13.2.0"}, info)

	_, err = ppc.Compiler(context.Background(), []string{"PATH=" + t.TempDir()})
	require.Error(t, err)
}
