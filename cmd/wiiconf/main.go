package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tmaxmax/wiibuild/pkg/platform"
	"github.com/tmaxmax/wiibuild/pkg/platform/wii"
)

var (
	verbose      bool
	platformName string
	hostOS       string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "wiiconf",
	Short: "Configure cross-compilation environments for the Nintendo Wii",
	Long: `wiiconf checks the devkitPro toolchain installation, shows the platform's
feature flag defaults and prints the build environment a build system would use
to compile for the Nintendo Wii.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&platformName, "platform", wii.Name, "Platform to configure")
	rootCmd.PersistentFlags().StringVar(&hostOS, "host-os", "", "Host operating system to configure for (defaults to the current one)")

	rootCmd.AddCommand(probeCmd, flagsCmd, configureCmd, spawnCmd)
}

// exitCodeError carries the exit code of a spawned command.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.code)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}

		fmt.Fprintln(os.Stderr, "wiiconf:", err)
		os.Exit(1)
	}
}

func newPlatform() (platform.Platform, error) {
	p, err := platform.New(platformName)
	if err != nil {
		return nil, err
	}

	if w, ok := p.(*wii.Platform); ok {
		w.Logger = logger
		w.HostOS = hostOS
	}

	return p, nil
}
