// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package ctl

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.ciq.dev/shortcuts/internal/pkg/auth"
	"go.ciq.dev/shortcuts/internal/pkg/config"
	"go.ciq.dev/shortcuts/internal/pkg/shortcut"
	"go.ciq.dev/shortcuts/internal/pkg/storage"
	"go.ciq.dev/shortcuts/pkg/fabric"
	"go.ciq.dev/shortcuts/pkg/version"
	"gocloud.dev/blob"
)

const (
	FlagNameConfigDir      = "config-dir"
	FlagNameWorkspace      = "workspace"
	FlagNameItem           = "item"
	FlagNameLogLevel       = "log-level"
	FlagNameConflictPolicy = "conflict-policy"
	FlagNameNoWait         = "no-wait"
)

// RegisterFlags registers the flags that are common to all commands.
func RegisterFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(FlagNameConfigDir, "", "The configuration directory (default "+config.DefaultConfigDir+").")
	cmd.PersistentFlags().String(FlagNameWorkspace, "", "The workspace ID, overrides fabric.workspace-id.")
	cmd.PersistentFlags().String(FlagNameItem, "", "The lakehouse ID, overrides fabric.item-id.")
	cmd.PersistentFlags().String(FlagNameLogLevel, "", "The log level, overrides log.level.")
}

func flagString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return value
}

// LoadConfig parses the configuration and applies the command line
// overrides, the configuration is not validated.
func LoadConfig(cmd *cobra.Command) (*config.ShortcutctlConfig, error) {
	sc, err := config.ParseShortcutctlConfig(flagString(cmd, FlagNameConfigDir))
	if err != nil {
		return nil, Errf("while loading configuration: %s", err)
	}

	if workspace := flagString(cmd, FlagNameWorkspace); workspace != "" {
		sc.Fabric.WorkspaceID = workspace
	}
	if item := flagString(cmd, FlagNameItem); item != "" {
		sc.Fabric.ItemID = item
	}
	if level := flagString(cmd, FlagNameLogLevel); level != "" {
		sc.Log.Level = level
	}
	if policy := flagString(cmd, FlagNameConflictPolicy); policy != "" {
		sc.Fabric.ConflictPolicy = policy
	}
	if noWait, err := cmd.Flags().GetBool(FlagNameNoWait); err == nil && noWait {
		sc.DeleteWait.Enabled = false
	}

	return sc, nil
}

// Logger returns the configured logger writing to the command error output.
func Logger(cmd *cobra.Command, sc *config.ShortcutctlConfig) (*slog.Logger, error) {
	logger, err := sc.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, Errf("while configuring logger: %s", err)
	}
	return logger, nil
}

// Runtime holds what commands need to talk to the shortcut API.
type Runtime struct {
	Config  *config.ShortcutctlConfig
	Logger  *slog.Logger
	Manager *shortcut.Manager

	buckets []*blob.Bucket
}

// NewRuntime loads and validates the configuration, then builds the
// shortcut manager of the configured workspace item.
func NewRuntime(cmd *cobra.Command) (*Runtime, error) {
	sc, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, Errf("%s", err)
	}

	logger, err := Logger(cmd, sc)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenSource(sc.Auth)
	if err != nil {
		return nil, Errf("while configuring authentication: %s", err)
	}

	client, err := fabric.New(
		sc.Fabric.Endpoint,
		tokens,
		fabric.WithHTTPClient(&http.Client{Timeout: sc.Fabric.Timeout}),
		fabric.WithUserAgent(version.UserAgent()),
	)
	if err != nil {
		return nil, Errf("while creating client: %s", err)
	}

	rt := &Runtime{
		Config: sc,
		Logger: logger,
	}

	opts := []shortcut.Option{
		shortcut.WithLogger(logger),
		shortcut.WithConflictPolicy(sc.Fabric.ConflictPolicy),
		shortcut.WithDeleteWait(sc.DeleteWait.Enabled, sc.DeleteWait.Interval, sc.DeleteWait.Timeout),
	}

	if sc.DeleteWait.Enabled && sc.DeleteWait.Checker == config.OneLakeChecker {
		bucket, err := rt.OpenBucket(cmd.Context(), storage.OneLake(sc.Fabric.WorkspaceID), sc.Fabric.ItemID)
		if err != nil {
			return nil, Errf("while opening OneLake storage: %s", err)
		}
		opts = append(opts, shortcut.WithChecker(shortcut.NewBucketChecker(bucket)))
	}

	rt.Manager = shortcut.NewManager(client, sc.Fabric.WorkspaceID, sc.Fabric.ItemID, opts...)

	return rt, nil
}

// OpenBucket opens a bucket closed along with the runtime.
func (rt *Runtime) OpenBucket(ctx context.Context, storageConfig storage.Config, prefix string) (*blob.Bucket, error) {
	bucket, err := storage.Init(ctx, storageConfig, prefix)
	if err != nil {
		return nil, err
	}
	rt.buckets = append(rt.buckets, bucket)
	return bucket, nil
}

func (rt *Runtime) Close() error {
	var errs error
	for _, bucket := range rt.buckets {
		if err := bucket.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	rt.buckets = nil
	return errs
}

// PrintJSON writes v as indented JSON to the command output.
func PrintJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
