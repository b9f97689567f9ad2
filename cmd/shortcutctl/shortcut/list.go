// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package shortcut

import (
	"github.com/spf13/cobra"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/ctl"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the shortcuts of the lakehouse.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctl.NewRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			shortcuts, err := rt.Manager.List(cmd.Context())
			if err != nil {
				return ctl.Errf("while listing shortcuts: %s", err)
			}

			return ctl.PrintJSON(cmd, shortcuts)
		},
	}
}
