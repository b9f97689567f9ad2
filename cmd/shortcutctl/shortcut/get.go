// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package shortcut

import (
	"github.com/spf13/cobra"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/ctl"
)

func newGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Get a shortcut.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString(flagNamePath)

			rt, err := ctl.NewRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.Manager.Get(cmd.Context(), path, args[0])
			if err != nil {
				return ctl.Errf("while getting shortcut: %s", err)
			}

			return printResult(cmd, "get", result)
		},
	}

	registerPathFlag(cmd)

	return cmd
}
