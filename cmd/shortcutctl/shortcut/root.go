// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package shortcut

import (
	"github.com/spf13/cobra"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/ctl"
	"go.ciq.dev/shortcuts/internal/pkg/discovery"
	"go.ciq.dev/shortcuts/pkg/fabric"
)

const flagNamePath = "path"

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "shortcut",
		Aliases: []string{
			"shortcuts",
			"sc",
		},
		Short: "Operations related to shortcuts.",
	}

	cmd.AddCommand(
		newCreateCommand(),
		newGetCommand(),
		newDeleteCommand(),
		newListCommand(),
	)

	return cmd
}

func registerPathFlag(cmd *cobra.Command) {
	cmd.Flags().String(flagNamePath, discovery.DefaultShortcutPath, "The folder containing the shortcut.")
}

// printResult prints the result and turns a failed request into the
// command error.
func printResult(cmd *cobra.Command, action string, result *fabric.Result) error {
	if err := ctl.PrintJSON(cmd, result); err != nil {
		return err
	}
	if !result.Success() {
		return ctl.Errf("shortcut %s failed: %d %s", action, result.StatusCode, result.StatusDescription)
	}
	return nil
}
