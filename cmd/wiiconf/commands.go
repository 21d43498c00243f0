package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tmaxmax/wiibuild/pkg/buildenv"
	"github.com/tmaxmax/wiibuild/pkg/platform"
	"github.com/tmaxmax/wiibuild/pkg/platform/wii"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the platform's toolchain is installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPlatform()
		if err != nil {
			return err
		}

		if !p.CanBuild(cmd.Context()) {
			return fmt.Errorf("%s toolchain is not usable", p.Info().Name)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s toolchain found.\n", p.Info().Name)

		if _, ok := p.(*wii.Platform); !ok {
			return nil
		}

		env, err := platform.Prepare(cmd.Context(), p, nil, p.DefaultOptions())
		if err != nil {
			logger.Warn("Failed to configure environment", zap.Error(err))
			return nil
		}

		info, err := wii.Toolchain.Compiler(cmd.Context(), env.Environ())
		if err != nil {
			logger.Warn("Failed to query compiler", zap.Error(err))
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Compiler: %s\nPath: %s\nVersion: %s\n", info.Name, info.Path, info.Version)
		return nil
	},
}

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List the platform's feature flag defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPlatform()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVALUE\tREASON")
		for _, f := range p.Flags() {
			fmt.Fprintf(w, "%s\t%t\t%s\n", f.Name, f.Value, f.Reason)
		}
		return w.Flush()
	},
}

type optionFlags struct {
	file           string
	target         string
	optimize       string
	debugSymbols   string
	lto            bool
	jobs           int
	maxCommandLine string
	top            string
}

func (o *optionFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.file, "options", "o", "", "YAML or TOML file with build options")
	f.StringVar(&o.target, "target", "", "Build target: release, release_debug or debug")
	f.StringVar(&o.optimize, "optimize", "", "Optimize release builds for speed or size")
	f.StringVar(&o.debugSymbols, "debug-symbols", "", "Debug symbols in release builds: no, yes or full")
	f.BoolVar(&o.lto, "lto", false, "Enable link-time optimization")
	f.IntVarP(&o.jobs, "jobs", "j", 1, "Number of jobs used by link-time optimization")
	f.StringVar(&o.maxCommandLine, "max-command-line", "", "Command line length above which archiver calls are split (e.g. 32k)")
	f.StringVar(&o.top, "top", "", "Source tree root")
}

// options merges, in increasing priority, the platform defaults,
// the options file and the flags given on the command line.
func (o *optionFlags) options(cmd *cobra.Command, p platform.Platform) (buildenv.Options, error) {
	opts := p.DefaultOptions()

	if o.file != "" {
		loaded, err := buildenv.LoadOptions(o.file)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	f := cmd.Flags()
	var err error

	if f.Changed("target") {
		if opts.Target, err = buildenv.ParseTarget(o.target); err != nil {
			return opts, err
		}
	}
	if f.Changed("optimize") {
		if opts.Optimize, err = buildenv.ParseOptimize(o.optimize); err != nil {
			return opts, err
		}
	}
	if f.Changed("debug-symbols") {
		if opts.DebugSymbols, err = buildenv.ParseDebugSymbols(o.debugSymbols); err != nil {
			return opts, err
		}
	}
	if f.Changed("lto") {
		opts.UseLTO = o.lto
	}
	if f.Changed("jobs") {
		opts.NumJobs = o.jobs
	}
	if f.Changed("max-command-line") {
		opts.MaxCommandLine = o.maxCommandLine
	}

	return opts, opts.Validate()
}

func (o *optionFlags) prepare(cmd *cobra.Command) (*buildenv.Environment, error) {
	p, err := newPlatform()
	if err != nil {
		return nil, err
	}

	opts, err := o.options(cmd, p)
	if err != nil {
		return nil, err
	}

	base := buildenv.New()
	base.Top = o.top

	return platform.Prepare(cmd.Context(), p, base, opts)
}

var (
	configureOptions optionFlags
	configureFormat  string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Print the configured build environment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := configureOptions.prepare(cmd)
		if err != nil {
			return err
		}

		return writeEnvironment(cmd.OutOrStdout(), env, configureFormat)
	},
}

var spawnOptions optionFlags

var spawnCmd = &cobra.Command{
	Use:   "spawn [flags] -- command [args...]",
	Short: "Run a command the way the configured environment spawns it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := spawnOptions.prepare(cmd)
		if err != nil {
			return err
		}

		code, err := env.Runner.Run(cmd.Context(), args, env.Environ())
		if err != nil {
			return err
		}
		if code != 0 {
			return &exitCodeError{code}
		}
		return nil
	},
}

func init() {
	configureOptions.register(configureCmd)
	configureCmd.Flags().StringVarP(&configureFormat, "format", "f", "yaml", "Output format: yaml, toml or shell")

	spawnOptions.register(spawnCmd)
}

func writeEnvironment(w io.Writer, env *buildenv.Environment, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(env); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(w).Encode(env)
	case "shell":
		vars := []struct{ name, value string }{
			{"CC", env.CC},
			{"CXX", env.CXX},
			{"LD", env.LD},
			{"AR", env.AR},
			{"RANLIB", env.RANLIB},
			{"CFLAGS", strings.Join(quoteAll(env.CFlags()), " ")},
			{"LDFLAGS", strings.Join(quoteAll(env.LDFlags()), " ")},
			{"PATH", env.Getenv("PATH")},
		}
		for _, v := range vars {
			if _, err := fmt.Fprintf(w, "export %s=%s\n", v.name, shellQuote(v.value)); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New("unknown format " + strconv.Quote(format))
	}
}

func quoteAll(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t\"'\\$") {
			a = shellQuote(a)
		}
		out[i] = a
	}
	return out
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
