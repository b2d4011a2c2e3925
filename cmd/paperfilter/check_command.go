package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evenlangas/paper-filtering/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify paths and reference data before a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			if ctx.configExists {
				fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Config", statusInfo, "defaults (no config file)", colorize))
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("History ledger on", statusInfo, yesNo(cfg.History.Enabled), colorize))

			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
