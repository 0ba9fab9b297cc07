package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taglog/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the reader device, directories, and tag registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out, cfg.Display.Color)

			results := preflight.RunAll(cfg)
			for _, r := range results {
				fmt.Fprintln(out, renderCheckLine(r.Name, checkKind(r), r.Detail, colorize))
			}
			if !preflight.AllPassed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
