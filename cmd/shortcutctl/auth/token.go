// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/ctl"
	authpkg "go.ciq.dev/shortcuts/internal/pkg/auth"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Operations related to authentication.",
	}

	cmd.AddCommand(newTokenCommand())

	return cmd
}

func newTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Acquire an access token for the shortcut API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := ctl.LoadConfig(cmd)
			if err != nil {
				return err
			}

			tokens, err := authpkg.NewTokenSource(sc.Auth)
			if err != nil {
				return ctl.Errf("while configuring authentication: %s", err)
			}

			if _, err := tokens.Token(cmd.Context()); err != nil {
				tokenErr := new(authpkg.TokenError)
				if !errors.As(err, &tokenErr) {
					return ctl.Errf("Failed to acquire token: %s", err)
				} else if tokenErr.Code == "" && tokenErr.Description == "" {
					return ctl.Errf("Failed to acquire token: %s", tokenErr.Err)
				}
				return ctl.Errf("Failed to acquire token: %s %s", tokenErr.Code, tokenErr.Description)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Access Token Acquired")

			return nil
		},
	}
}
