package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hrms-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/hrms-backend-go/internal/config"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/clock"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Runtime is what every subcommand works against.
type Runtime struct {
	Config *config.Config
	Stores *bootstrap.Stores
	Clock  clock.Clock
}

func (r *Runtime) Close() {
	if r.Stores != nil {
		r.Stores.Close()
	}
}

// Loader builds the Runtime lazily so that --help never touches storage.
type Loader func() (*Runtime, error)

// DefaultLoader reads the environment and connects the configured storage.
func DefaultLoader() (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	slog.SetDefault(bootstrap.NewLogger(os.Stderr, cfg))

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	stores, err := bootstrap.OpenStores(cfg, loc)
	if err != nil {
		return nil, err
	}
	return &Runtime{Config: cfg, Stores: stores, Clock: clock.New(loc)}, nil
}

// withRuntime wraps a command so it runs with an open Runtime that is closed afterwards.
func withRuntime(load Loader, fn func(cmd *cobra.Command, rt *Runtime) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := load()
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(cmd, rt)
	}
}

// SetVersion sets the version information
func SetVersion(v, c string) {
	version = v
	commit = c
}

func NewRootCmd(load Loader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hrmsctl",
		Short: "Administrative tool for the HRMS attendance backend",
		Long: `hrmsctl seeds the employee roster and prints attendance reports
straight from the configured storage, without going through the HTTP API.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSeedCmd(load))
	rootCmd.AddCommand(newReportCmd(load))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hrmsctl %s (%s)\n", version, commit)
		},
	})
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd(DefaultLoader).Execute()
}
