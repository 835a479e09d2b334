package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/healthkit/component"
	"github.com/kbukum/healthkit/config"
)

type checkOptions struct {
	timeout time.Duration
	only    string
	pretty  bool
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run every check once and print the report as JSON",
		Long: `Run every configured check once, print the report as JSON and exit.
The exit code is 0 when the overall status is healthy or degraded and 2 when
it is unhealthy.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.loadOptions()...)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", 30*time.Second, "bound on the whole run")
	cmd.Flags().StringVar(&opts.only, "component", "", "check only the named component")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func runCheck(ctx context.Context, w io.Writer, cfg *config.HealthConfig, opts *checkOptions) error {
	// stdout carries the report.
	if cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.release(ctx)

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	var (
		out    any
		status component.HealthStatus
	)
	if opts.only != "" {
		h, ok := a.aggregator.Check(ctx, opts.only)
		if !ok {
			return fmt.Errorf("no check named %q", opts.only)
		}
		out, status = h, h.Status
	} else {
		r := a.aggregator.Report(ctx)
		out, status = r, r.Status
	}

	enc := json.NewEncoder(w)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		return err
	}
	if status == component.StatusUnhealthy {
		return errUnhealthy
	}
	return nil
}
