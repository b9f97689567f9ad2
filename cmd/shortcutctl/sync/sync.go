// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"github.com/spf13/cobra"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/ctl"
	"go.ciq.dev/shortcuts/internal/pkg/discovery"
	"go.ciq.dev/shortcuts/internal/pkg/shortcut"
	"go.ciq.dev/shortcuts/internal/pkg/storage"
)

func NewCommand() *cobra.Command {
	var (
		source string
		opts   shortcut.SyncOptions
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Create a shortcut for every table of the gold layer.",
		Long: `Create a shortcut for every {schema}/{table} folder found under the storage
prefix. Shortcuts are named {schema}_{table} and target /{container}/{schema}/{table}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := ctl.NewRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			sc := rt.Config

			if source != "" {
				path, err := storage.ParseABFSS(source)
				if err != nil {
					return ctl.Errf("%s", err)
				}
				path.Apply(&sc.Storage)
			}

			planner, err := discovery.NewPlanner(sc.Discovery, sc.Storage)
			if err != nil {
				return ctl.Errf("%s", err)
			}

			bucket, err := rt.OpenBucket(ctx, sc.Storage, storage.GetPrefix(sc.Storage))
			if err != nil {
				return ctl.Errf("%s", err)
			}

			tables := discovery.Tables(ctx, bucket, "", rt.Logger)
			if len(tables) == 0 {
				rt.Logger.Warn("no table found", "driver", sc.Storage.Driver, "prefix", sc.Storage.Prefix)
				return nil
			}

			planned, err := planner.Plan(tables)
			if err != nil {
				return ctl.Errf("%s", err)
			}

			opts.Out = cmd.OutOrStdout()

			report, err := rt.Manager.Sync(ctx, planned, opts)
			if err != nil {
				return ctl.Errf("while synchronizing shortcuts: %s", err)
			} else if err := report.Err(); err != nil {
				return ctl.Errf("%d of %d shortcuts failed: %s", report.Failed(), len(report.Results), err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "The gold layer as abfss://container@account.dfs.core.windows.net/prefix, overrides storage.")
	cmd.Flags().BoolVar(&opts.Recreate, "recreate", false, "Delete existing shortcuts before creating them.")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the planned shortcuts without creating them.")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 1, "The number of shortcuts created concurrently.")
	cmd.Flags().String(ctl.FlagNameConflictPolicy, "", "The conflict policy, overrides fabric.conflict-policy.")

	return cmd
}
