// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package ctl

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.ciq.dev/shortcuts/pkg/version"
)

// NewRootCommand returns the shortcutctl command with the flags common
// to all commands, subcommands are added by the caller.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shortcutctl",
		Short:         "Operations related to Fabric shortcuts.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	RegisterFlags(cmd)

	return cmd
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the shortcutctl version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Semver)
		},
	}
}

// Execute runs the command and returns the process exit code.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		cmd.PrintErrln(err)
		return 1
	}
	return 0
}
