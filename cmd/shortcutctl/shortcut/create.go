// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package shortcut

import (
	"strings"

	"github.com/spf13/cobra"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/ctl"
	"go.ciq.dev/shortcuts/pkg/fabric"
)

func newCreateCommand() *cobra.Command {
	var (
		targetType   string
		location     string
		bucket       string
		subpath      string
		connectionID string
	)

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a shortcut to external storage.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := fabric.NewTarget(targetType, location, bucket, subpath, connectionID)
			if err != nil {
				return ctl.Errf("%s", err)
			}

			path, _ := cmd.Flags().GetString(flagNamePath)

			rt, err := ctl.NewRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.Manager.Create(cmd.Context(), fabric.Shortcut{
				Path:   path,
				Name:   args[0],
				Target: target,
			})
			if err != nil {
				return ctl.Errf("while creating shortcut: %s", err)
			}

			return printResult(cmd, "create", result)
		},
	}

	registerPathFlag(cmd)
	cmd.Flags().StringVar(&targetType, "target-type", fabric.TargetAdlsGen2, "The target type, one of "+strings.Join(externalTypes(), ", ")+".")
	cmd.Flags().StringVar(&location, "location", "", "The target account or endpoint URL.")
	cmd.Flags().StringVar(&bucket, "bucket", "", "The target bucket, only used by S3Compatible targets.")
	cmd.Flags().StringVar(&subpath, "subpath", "", "The path of the data inside the target.")
	cmd.Flags().StringVar(&connectionID, "connection-id", "", "The connection ID used to reach the target.")
	cmd.Flags().String(ctl.FlagNameConflictPolicy, "", "The conflict policy, overrides fabric.conflict-policy.")

	return cmd
}

func externalTypes() []string {
	return []string{
		fabric.TargetAdlsGen2,
		fabric.TargetAmazonS3,
		fabric.TargetGoogleCloudStorage,
		fabric.TargetS3Compatible,
	}
}
