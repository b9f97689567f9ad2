// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package shortcut

import (
	"github.com/spf13/cobra"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/ctl"
)

func newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a shortcut and wait until the deletion is visible.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString(flagNamePath)

			rt, err := ctl.NewRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.Manager.Delete(cmd.Context(), path, args[0])
			if err != nil {
				if result != nil {
					_ = ctl.PrintJSON(cmd, result)
				}
				return ctl.Errf("while deleting shortcut: %s", err)
			}

			return printResult(cmd, "delete", result)
		},
	}

	registerPathFlag(cmd)
	cmd.Flags().Bool(ctl.FlagNameNoWait, false, "Return without waiting for the deletion to propagate.")

	return cmd
}
