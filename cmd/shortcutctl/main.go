// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"syscall"

	"go.ciq.dev/shortcuts/cmd/shortcutctl/auth"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/ctl"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/shortcut"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/sync"
	"go.ciq.dev/shortcuts/pkg/sighandler"
)

func main() {
	ctx, stop := sighandler.New(context.Background(), os.Exit, syscall.SIGINT, syscall.SIGTERM)

	rootCmd := ctl.NewRootCommand()
	rootCmd.AddCommand(
		shortcut.NewCommand(),
		sync.NewCommand(),
		auth.NewCommand(),
		ctl.NewVersionCommand(),
	)

	code := ctl.Execute(ctx, rootCmd)
	stop()
	os.Exit(code)
}
