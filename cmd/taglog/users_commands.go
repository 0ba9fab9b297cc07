package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newUsersCommand(ctx *commandContext) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"tags"},
		Short:   "Manage registered tags and their display names",
	}

	usersCmd.AddCommand(newUsersListCommand(ctx))
	usersCmd.AddCommand(newUsersAddCommand(ctx))
	usersCmd.AddCommand(newUsersRenameCommand(ctx))
	usersCmd.AddCommand(newUsersRemoveCommand(ctx))

	return usersCmd
}

func newUsersListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tags sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, _, err := ctx.openRegistry(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRegistry(reg.List(), !isTerminal(out)))
			return nil
		},
	}
}

func newUsersAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <tag-id> <name>",
		Short: "Register a tag, replacing any existing name",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, _, err := ctx.openRegistry(cmd)
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			if err := reg.Set(args[0], name); err != nil {
				return err
			}
			stored, _ := reg.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s as %s\n", args[0], stored)
			return nil
		},
	}
}

func newUsersRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <tag-id> <name>",
		Short: "Rename an already registered tag",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, _, err := ctx.openRegistry(cmd)
			if err != nil {
				return err
			}
			if err := reg.Rename(args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			stored, _ := reg.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], stored)
			return nil
		},
	}
}

func newUsersRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <tag-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a registered tag",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, _, err := ctx.openRegistry(cmd)
			if err != nil {
				return err
			}
			if err := reg.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
