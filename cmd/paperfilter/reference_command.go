package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evenlangas/paper-filtering/internal/reference"
)

func newReferenceCommand(ctx *commandContext) *cobra.Command {
	refCmd := &cobra.Command{
		Use:   "reference",
		Short: "Inspect the journal ranking reference",
	}
	refCmd.AddCommand(newReferenceShowCommand(ctx))
	return refCmd
}

func newReferenceShowCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List journals accepted by the ranking filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			refPath := cfg.Paths.ReferenceFile
			if cmd.Flags().Changed("reference") {
				refPath = strings.TrimSpace(path)
			}

			set, err := reference.Load(refPath, reference.OptionsFromConfig(cfg))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reference: %s\n", refPath)
			fmt.Fprintf(out, "Accepted journals: %d of %d ranked rows (%s)\n",
				set.Len(), set.Rows, strings.Join(cfg.Filter.AcceptedQuartiles, ", "))

			keys := set.Keys()
			if limit > 0 && len(keys) > limit {
				keys = keys[:limit]
			}
			if len(keys) == 0 {
				return nil
			}
			rows := make([][]string, len(keys))
			for i, key := range keys {
				rows[i] = []string{strconv.Itoa(i + 1), key}
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Journal"}, rows, []columnAlignment{alignRight, alignLeft}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum journals to list (0 for all)")
	cmd.Flags().StringVarP(&path, "reference", "r", "", "Journal ranking file (overrides config)")
	return cmd
}
