package platform_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmaxmax/wiibuild/pkg/buildenv"
	"github.com/tmaxmax/wiibuild/pkg/platform"
)

type stubPlatform struct {
	flags      []platform.Flag
	configured *buildenv.Environment
	err        error
}

func (s *stubPlatform) Info() platform.Info { return platform.Info{Name: "Stub"} }
func (s *stubPlatform) IsActive() bool { return true }
func (s *stubPlatform) CanBuild(context.Context) bool { return true }
func (s *stubPlatform) Flags() []platform.Flag { return s.flags }
func (s *stubPlatform) DefaultOptions() buildenv.Options { return buildenv.DefaultOptions() }
func (s *stubPlatform) Create(env *buildenv.Environment) *buildenv.Environment {
	return env.Clone("stub")
}

func (s *stubPlatform) Configure(_ context.Context, env *buildenv.Environment) error {
	s.configured = env
	return s.err
}

func TestRegister(t *testing.T) {
	platform.Register("stub", func() platform.Platform { return &stubPlatform{} })

	p, err := platform.New("stub")
	require.NoError(t, err)
	require.Equal(t, "Stub", p.Info().Name)
	require.Contains(t, platform.Names(), "stub")

	_, err = platform.New("gamecube")
	require.Error(t, err)

	require.Panics(t, func() {
		platform.Register("stub", func() platform.Platform { return &stubPlatform{} })
	})
	require.Panics(t, func() {
		platform.Register("bad name", func() platform.Platform { return &stubPlatform{} })
	})
	require.Panics(t, func() {
		platform.Register("", func() platform.Platform { return &stubPlatform{} })
	})
	require.Panics(t, func() {
		platform.Register("nil", nil)
	})
}

func TestValidateFlags(t *testing.T) {
	type test struct {
		name      string
		flags     []platform.Flag
		expectErr bool
	}

	tests := []test{
		{name: "Valid", flags: []platform.Flag{{Name: "tools"}, {Name: "builtin_zlib", Value: true}}},
		{name: "Empty"},
		{name: "Duplicate", flags: []platform.Flag{{Name: "tools"}, {Name: "tools", Value: true}}, expectErr: true},
		{name: "BadName", flags: []platform.Flag{{Name: "Module-Bullet"}}, expectErr: true},
		{name: "EmptyName", flags: []platform.Flag{{Name: ""}}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := platform.ValidateFlags(tt.flags)
			if tt.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	flags := []platform.Flag{
		{Name: "tools", Value: false},
		{Name: "module_gdscript_enabled", Value: true},
		{Name: "builtin_zlib", Value: false},
	}

	env := buildenv.New()
	env.SetFeature("tools", true)
	require.NoError(t, platform.ApplyFlags(env, flags))

	require.Equal(t, map[string]bool{
		"tools":                   false,
		"module_gdscript_enabled": true,
		"builtin_zlib":            false,
	}, env.Features)

	require.Error(t, platform.ApplyFlags(buildenv.New(), append(flags, flags[0])))
}

func TestPrepare(t *testing.T) {
	stub := &stubPlatform{flags: []platform.Flag{{Name: "tools"}, {Name: "builtin_zlib"}}}

	opts := buildenv.DefaultOptions()
	opts.Target = buildenv.Release
	opts.Features = map[string]bool{"builtin_zlib": true}

	env, err := platform.Prepare(context.Background(), stub, nil, opts)
	require.NoError(t, err)
	require.Same(t, stub.configured, env)
	require.Equal(t, []string{"stub"}, env.Tools)
	require.Equal(t, buildenv.Release, env.Options.Target)
	require.Equal(t, map[string]bool{"tools": false, "builtin_zlib": true}, env.Features)

	stub.err = errors.New("boom")
	_, err = platform.Prepare(context.Background(), stub, nil, opts)
	require.ErrorIs(t, err, stub.err)

	opts.NumJobs = 0
	_, err = platform.Prepare(context.Background(), &stubPlatform{}, nil, opts)
	require.Error(t, err)
}
