package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kbukum/healthkit/config"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	envFile    string
}

// loadOptions turns the flags into loader options.
func (o *rootOptions) loadOptions() []config.LoaderOption {
	var opts []config.LoaderOption
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		opts = append(opts, config.WithEnvFile(o.envFile))
	}
	return opts
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "healthd",
		Short: "Aggregated dependency health checks",
		Long: `healthd checks the dependencies listed in its configuration concurrently
and reports each one as healthy, degraded or unhealthy. A failing dependency
never hides the status of the others.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to configuration file (default: search ./config.yml, /etc/healthd/config.yml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path to a .env file")

	cmd.AddCommand(
		newServeCmd(opts),
		newCheckCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// errUnhealthy marks a completed run whose overall status is unhealthy.
var errUnhealthy = errors.New("overall status is unhealthy")

// exitCode maps a command error to the process exit code: 2 for an unhealthy
// report, 1 for anything else.
func exitCode(err error) int {
	if errors.Is(err, errUnhealthy) {
		return 2
	}
	return 1
}
